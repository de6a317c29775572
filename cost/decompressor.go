package cost

import (
	"math"

	cbitio "github.com/trajcost/cost/bitio"
	iobits "github.com/trajcost/cost/internal/bits"
	"github.com/trajcost/cost/huffman"
	"github.com/trajcost/cost/predict"
	"github.com/trajcost/cost/residual"
	"github.com/trajcost/cost/trajectory"
)

// Decompressor is a CoST decoder, mirroring a Compressor's state
// transitions bit-for-bit (spec §4.4.5). It borrows its input for its
// lifetime and is not safe for concurrent use.
type Decompressor struct {
	br *cbitio.Reader

	blockSize         uint16
	evaluationWindow  uint16
	useTimeWindow     bool
	timeWindowSeconds uint32

	codec residual.Codec
	bank  *predict.Bank
	huff  *huffman.Table

	mode Mode

	readFirst   bool
	pointsAfter int
	lastEvalTS  uint64

	done bool
}

// NewDecompressor returns a Decompressor over data.
func NewDecompressor(data []byte) *Decompressor {
	return &Decompressor{
		br:   cbitio.NewReader(data),
		bank: predict.NewBank(),
		huff: huffman.New(),
		mode: ModeMultiPredictor,
	}
}

// Next returns the next reconstructed sample. ok is false once the stream
// is exhausted or truncated; a truncated final point is discarded, but
// every sample already returned remains a valid reconstruction (spec §7).
func (d *Decompressor) Next() (trajectory.Sample, bool) {
	if d.done {
		return trajectory.Sample{}, false
	}
	if !d.readFirst {
		return d.readAnchor()
	}
	return d.readPoint()
}

// All reads every remaining sample, bounded by the header's block_size if
// it is non-zero (spec §6).
func (d *Decompressor) All() []trajectory.Sample {
	var out []trajectory.Sample
	for {
		if d.blockSize > 0 && len(out) >= int(d.blockSize) {
			break
		}
		p, ok := d.Next()
		if !ok {
			break
		}
		out = append(out, p)
	}
	return out
}

func (d *Decompressor) readAnchor() (trajectory.Sample, bool) {
	blockSize, err := d.br.ReadU32(16)
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	epsBits, err := d.br.ReadU64(64)
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	e, err := d.br.ReadU32(16)
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	useTime, err := d.br.ReadBit()
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	var t uint32
	if useTime {
		t, err = d.br.ReadU32(32)
		if err != nil {
			d.done = true
			return trajectory.Sample{}, false
		}
	}

	lonBits, err := d.br.ReadU64(64)
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	latBits, err := d.br.ReadU64(64)
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	ts, err := d.br.ReadU64(64)
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}

	d.blockSize = uint16(blockSize)
	d.evaluationWindow = uint16(e)
	d.useTimeWindow = useTime
	d.timeWindowSeconds = t
	d.codec = residual.Codec{Step: 2 * math.Float64frombits(epsBits)}

	anchor := trajectory.Sample{Lon: math.Float64frombits(lonBits), Lat: math.Float64frombits(latBits), TS: ts}
	d.bank.Seed(anchor)
	d.readFirst = true
	if d.useTimeWindow {
		d.lastEvalTS = ts
	}
	return anchor, true
}

func (d *Decompressor) readPoint() (trajectory.Sample, bool) {
	var id predict.ID
	if d.mode == ModeMultiPredictor {
		decoded, err := d.huff.DecodeFrom(d.br.Raw())
		if err != nil {
			d.done = true
			return trajectory.Sample{}, false
		}
		id = decoded
		d.huff.Push(id)
	} else {
		id = predict.LDR
	}

	rawDelta, err := d.br.ReadU64(64)
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	deltaSigned := iobits.IntN(rawDelta, 64)
	targetTS := uint64(int64(d.bank.CurrentTS()) + deltaSigned)

	zp, ldr, cp := d.bank.Predict(targetTS)
	var predSample trajectory.Sample
	switch id {
	case predict.LDR:
		predSample = ldr
	case predict.CP:
		predSample = cp
	case predict.ZP:
		predSample = zp
	}

	qLon, err := d.codec.Decode(d.br.Raw())
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}
	qLat, err := d.codec.Decode(d.br.Raw())
	if err != nil {
		d.done = true
		return trajectory.Sample{}, false
	}

	reconstructed := trajectory.Sample{
		Lon: predSample.Lon + d.codec.Dequantize(qLon),
		Lat: predSample.Lat + d.codec.Dequantize(qLat),
		TS:  targetTS,
	}
	d.bank.Apply(reconstructed)
	d.pointsAfter++

	d.maybeReadEvaluationBit(targetTS)

	return reconstructed, true
}

// maybeReadEvaluationBit applies the identical evaluation-instant predicate
// the encoder uses and, if this is an instant, reads the single mode bit
// and applies it. The reconstructed point this call already produced is
// still valid even if the mode bit itself is missing (spec §7): that
// failure only prevents further reads.
func (d *Decompressor) maybeReadEvaluationBit(nowTS uint64) {
	isEvalInstant := false
	if !d.useTimeWindow {
		if int(d.pointsAfter)%int(d.evaluationWindow) == 0 {
			isEvalInstant = true
		}
	} else {
		if nowTS >= d.lastEvalTS && nowTS-d.lastEvalTS >= uint64(d.timeWindowSeconds) {
			isEvalInstant = true
			d.lastEvalTS = nowTS
		}
	}
	if !isEvalInstant {
		return
	}
	bit, err := d.br.ReadBit()
	if err != nil {
		d.done = true
		return
	}
	if bit {
		d.mode = ModeLDROnly
	} else {
		d.mode = ModeMultiPredictor
	}
}
