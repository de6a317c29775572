// Package residual implements the CoST residual codec (spec §4.1):
// quantizing a real-valued prediction error to an integer on a fixed step,
// and encoding/decoding that integer via ZigZag + Elias-Gamma.
package residual

import (
	"math"

	"github.com/icza/bitio"

	iobits "github.com/trajcost/cost/internal/bits"
)

// Codec quantizes and (de)serializes residuals at a fixed step Δ. Δ is
// constant for the lifetime of a stream (spec §3): a Codec is built once
// per Compressor/Decompressor and reused for every point.
type Codec struct {
	// Step is Δ = 2 * ε_effective.
	Step float64
}

// New returns a Codec quantizing on step Δ = 2*epsilonEffective.
func New(epsilonEffective float64) Codec {
	return Codec{Step: 2 * epsilonEffective}
}

// Quantize rounds a real-valued delta to the nearest multiple of Step,
// returning the integer multiple. Ties round away from zero, matching
// ordinary mathematical rounding rather than Go's round-half-to-even.
func (c Codec) Quantize(deltaReal float64) int64 {
	x := deltaReal / c.Step
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return int64(math.Ceil(x - 0.5))
}

// Dequantize returns q * Step, the reconstructed residual.
func (c Codec) Dequantize(q int64) float64 {
	return float64(q) * c.Step
}

// EstimateBits returns the exact number of bits Encode(Quantize(deltaReal))
// would write, without touching a bit stream. The mode controller's cost
// model depends on this being bit-exact: any drift from Encode's actual
// output desynchronizes the encoder and decoder's shared notion of cost
// (spec §4.1, §9).
func (c Codec) EstimateBits(deltaReal float64) int {
	return c.EstimateBitsQ(c.Quantize(deltaReal))
}

// EstimateBitsQ is EstimateBits for an already-quantized value.
func (c Codec) EstimateBitsQ(q int64) int {
	v := iobits.EncodeZigZag(q) + 1
	return iobits.BitsOfGamma(v)
}

// Encode writes q to bw as EliasGamma(ZigZag(q)+1) and returns the number
// of bits written.
func (c Codec) Encode(bw *bitio.Writer, q int64) (int, error) {
	v := iobits.EncodeZigZag(q) + 1
	return iobits.EncodeGamma(bw, v)
}

// Decode reads a residual previously written by Encode.
func (c Codec) Decode(br *bitio.Reader) (int64, error) {
	v, err := iobits.DecodeGamma(br)
	if err != nil {
		return 0, err
	}
	return iobits.DecodeZigZag(v - 1), nil
}
