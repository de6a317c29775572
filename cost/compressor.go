package cost

import (
	"math"

	"github.com/mewkiz/pkg/errutil"

	cbitio "github.com/trajcost/cost/bitio"
	"github.com/trajcost/cost/huffman"
	"github.com/trajcost/cost/predict"
	"github.com/trajcost/cost/residual"
	"github.com/trajcost/cost/trajectory"
	"github.com/trajcost/cost/window"
)

// Compressor is a CoST encoder. It owns its output bit buffer, history,
// windows, and Huffman state exclusively for its lifetime (spec §5); it is
// not safe for concurrent use by multiple goroutines.
type Compressor struct {
	cfg    Config
	codec  residual.Codec
	bank   *predict.Bank
	huff   *huffman.Table
	bw     *cbitio.Writer
	acct   cbitio.Accountant
	stats  Stats

	mode Mode

	costMulti *window.CostWindow
	costLDR   *window.CostWindow

	wroteFirst  bool
	pointsAfter int // points encoded after the anchor
	lastEvalTS  uint64

	closed bool
}

// NewCompressor returns a Compressor ready to accept samples.
func NewCompressor(cfg Config) *Compressor {
	var costMulti, costLDR *window.CostWindow
	if cfg.UseTimeWindow {
		costMulti = window.NewTimeWindow()
		costLDR = window.NewTimeWindow()
	} else {
		costMulti = window.NewCountWindow(int(cfg.evaluationWindow()))
		costLDR = window.NewCountWindow(int(cfg.evaluationWindow()))
	}
	return &Compressor{
		cfg:       cfg,
		codec:     residual.New(cfg.epsilonEffective()),
		bank:      predict.NewBank(),
		huff:      huffman.New(),
		bw:        cbitio.NewWriter(),
		mode:      ModeMultiPredictor,
		costMulti: costMulti,
		costLDR:   costLDR,
		stats:     newStats(),
	}
}

// Add encodes the next sample in the trajectory.
func (c *Compressor) Add(p trajectory.Sample) error {
	if c.closed {
		return errutil.Newf("cost: Add called after Close")
	}
	if !c.wroteFirst {
		return c.writeAnchor(p)
	}
	return c.writePoint(p)
}

// writeAnchor writes the header and the anchor body (spec §4.4.4).
func (c *Compressor) writeAnchor(p trajectory.Sample) error {
	if err := c.writeBits(c.bw.WriteU32(uint32(c.cfg.BlockSize), 16)); err != nil {
		return err
	}
	epsBits := math.Float64bits(c.cfg.epsilonEffective())
	if err := c.writeBits(c.bw.WriteU64(epsBits, 64)); err != nil {
		return err
	}
	if err := c.writeBits(c.bw.WriteU32(uint32(c.cfg.evaluationWindow()), 16)); err != nil {
		return err
	}
	useTime := uint64(0)
	if c.cfg.UseTimeWindow {
		useTime = 1
	}
	if _, err := c.bw.WriteBit(useTime == 1); err != nil {
		return errutil.Err(err)
	}
	if c.cfg.UseTimeWindow {
		if err := c.writeBits(c.bw.WriteU32(c.cfg.TimeWindowSeconds, 32)); err != nil {
			return err
		}
	}

	lonBits := math.Float64bits(p.Lon)
	latBits := math.Float64bits(p.Lat)
	if err := c.writeBits(c.bw.WriteU64(lonBits, 64)); err != nil {
		return err
	}
	if err := c.writeBits(c.bw.WriteU64(latBits, 64)); err != nil {
		return err
	}
	if err := c.writeBits(c.bw.WriteU64(p.TS, 64)); err != nil {
		return err
	}

	c.bank.Seed(p)
	c.wroteFirst = true
	if c.cfg.UseTimeWindow {
		c.lastEvalTS = p.TS
	}
	return nil
}

func (c *Compressor) writeBits(_ int, err error) error {
	if err != nil {
		return errutil.Err(err)
	}
	return nil
}

// predictorCost is the per-predictor cost tuple computed in step 2 of
// spec §4.4.1.
type predictorCost struct {
	id       predict.ID
	cost     int
	lonDelta float64
	latDelta float64
	pred     trajectory.Sample
}

// writePoint implements the per-point encoding path, spec §4.4.1/§4.4.2.
func (c *Compressor) writePoint(p trajectory.Sample) error {
	zp, ldr, cp := c.bank.Predict(p.TS)

	candidates := [3]predictorCost{
		{id: predict.LDR, pred: ldr},
		{id: predict.CP, pred: cp},
		{id: predict.ZP, pred: zp},
	}
	for i := range candidates {
		cand := &candidates[i]
		cand.lonDelta = p.Lon - cand.pred.Lon
		cand.latDelta = p.Lat - cand.pred.Lat
		cand.cost = int(c.huff.Len(cand.id)) + c.codec.EstimateBits(cand.lonDelta) + c.codec.EstimateBits(cand.latDelta)
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.cost < best.cost {
			best = cand
		}
	}

	ldrCand := candidates[0] // LDR is always index 0 above
	costMulti := best.cost
	costLDROnly := c.codec.EstimateBits(ldrCand.lonDelta) + c.codec.EstimateBits(ldrCand.latDelta)

	c.costMulti.Push(costMulti, p.TS)
	c.costLDR.Push(costLDROnly, p.TS)

	var chosen predictorCost
	if c.mode == ModeMultiPredictor {
		chosen = best
		n, err := c.huff.EncodeTo(c.bw.Raw(), chosen.id)
		if err != nil {
			return errutil.Err(err)
		}
		c.acct.Add(cbitio.CategoryPredictorFlag, n)
		c.huff.Push(chosen.id)
	} else {
		chosen = ldrCand
	}

	if err := c.writeTimestampDelta(p); err != nil {
		return err
	}

	qLon := c.codec.Quantize(chosen.lonDelta)
	qLat := c.codec.Quantize(chosen.latDelta)
	nLon, err := c.codec.Encode(c.bw.Raw(), qLon)
	if err != nil {
		return errutil.Err(err)
	}
	nLat, err := c.codec.Encode(c.bw.Raw(), qLat)
	if err != nil {
		return errutil.Err(err)
	}
	c.acct.Add(cbitio.CategoryResidual, nLon+nLat)

	reconstructed := trajectory.Sample{
		Lon: chosen.pred.Lon + c.codec.Dequantize(qLon),
		Lat: chosen.pred.Lat + c.codec.Dequantize(qLat),
		TS:  p.TS,
	}
	c.bank.Apply(reconstructed)

	c.stats.PredictorCounts[chosen.id]++
	if c.mode == ModeMultiPredictor {
		c.stats.MultiPredictorModePoints++
	} else {
		c.stats.LDROnlyModePoints++
	}

	c.pointsAfter++

	return c.maybeEvaluate(p.TS)
}

func (c *Compressor) writeTimestampDelta(p trajectory.Sample) error {
	delta := int64(p.TS) - c.lastCurrentTS()
	n, err := c.bw.WriteU64(uint64(delta), 64)
	if err != nil {
		return errutil.Err(err)
	}
	c.acct.Add(cbitio.CategoryTimestamp, n)
	return nil
}

// lastCurrentTS is the reconstructed current sample's timestamp, i.e. the
// timestamp Predict used as its reference point for this call.
func (c *Compressor) lastCurrentTS() int64 {
	return int64(c.bank.CurrentTS())
}

// maybeEvaluate implements spec §4.4.2/§4.4.3: at evaluation instants,
// possibly flip mode, then unconditionally emit the mode bit.
func (c *Compressor) maybeEvaluate(nowTS uint64) error {
	isEvalInstant := false
	if !c.cfg.UseTimeWindow {
		if int(c.pointsAfter)%int(c.cfg.evaluationWindow()) == 0 {
			isEvalInstant = true
		}
	} else {
		if nowTS >= c.lastEvalTS && nowTS-c.lastEvalTS >= uint64(c.cfg.TimeWindowSeconds) {
			isEvalInstant = true
			c.lastEvalTS = nowTS
		}
	}
	if !isEvalInstant {
		return nil
	}

	minSamples := int(c.cfg.evaluationWindow())
	if c.cfg.UseTimeWindow {
		minSamples = 5
	}
	if c.cfg.UseTimeWindow {
		cutoff := int64(nowTS) - int64(c.cfg.TimeWindowSeconds)
		if cutoff > 0 {
			c.costMulti.EvictOlderThan(uint64(cutoff))
			c.costLDR.EvictOlderThan(uint64(cutoff))
		}
	}

	if c.costMulti.Len() >= minSamples {
		sMulti := c.costMulti.Sum()
		sLDR := c.costLDR.Sum()
		switch c.mode {
		case ModeMultiPredictor:
			if sLDR < sMulti-modeSwitchKappa {
				c.mode = ModeLDROnly
				c.stats.ModeSwitchCount++
			}
		case ModeLDROnly:
			if sMulti < sLDR-modeSwitchKappa {
				c.mode = ModeMultiPredictor
				c.stats.ModeSwitchCount++
			}
		}
	}

	bit := c.mode == ModeLDROnly
	if _, err := c.bw.WriteBit(bit); err != nil {
		return errutil.Err(err)
	}
	c.acct.Add(cbitio.CategoryMode, 1)
	return nil
}

// Close flushes the bit sink to byte alignment. No further Add calls are
// valid afterwards.
func (c *Compressor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.bw.Flush(); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// CompressedBytes returns the compressed stream. Call Close first.
func (c *Compressor) CompressedBytes() []byte {
	return c.bw.Bytes()
}

// CompressedBits returns the total number of bits emitted across every
// category.
func (c *Compressor) CompressedBits() uint64 {
	return uint64(c.acct.Total()) + uint64(192) /* anchor body */ + uint64(headerBits(c.cfg))
}

// Stats returns per-predictor counts, mode residency, and bit accounting.
func (c *Compressor) Stats() Stats {
	st := c.stats
	st.Bits = BitBreakdown{
		PredictorFlagBits: c.acct.Bits(cbitio.CategoryPredictorFlag),
		ModeBits:          c.acct.Bits(cbitio.CategoryMode),
		ResidualBits:      c.acct.Bits(cbitio.CategoryResidual),
		TimestampBits:     c.acct.Bits(cbitio.CategoryTimestamp),
	}
	return st
}

func headerBits(cfg Config) int {
	n := 16 + 64 + 16 + 1
	if cfg.UseTimeWindow {
		n += 32
	}
	return n
}
