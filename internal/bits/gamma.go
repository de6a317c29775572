package bits

import (
	"math/bits"

	"github.com/icza/bitio"
)

// BitsOfGamma returns the number of bits EncodeGamma would write for v,
// without touching a bit stream. v must be >= 1.
//
// This is the single function both the cost estimator and the actual
// encoder call, so the two can never drift apart (a drift here silently
// breaks the self-synchronizing mode-switch side channel, since the mode
// controller chooses between predictors and between modes based on this
// estimate alone).
func BitsOfGamma(v uint64) int {
	n := bits.Len64(v) - 1 // floor(log2 v); bits.Len64(1) == 1, so n == 0.
	return 2*n + 1
}

// EncodeGamma writes v, encoded as an Elias-Gamma codeword: n zero bits
// followed by the (n+1)-bit binary representation of v, where
// n = floor(log2 v). v must be >= 1. Returns the number of bits written.
//
// Examples of v on the left and the codeword on the right:
//
//	1 => 1
//	2 => 010
//	3 => 011
//	4 => 00100
//	5 => 00101
func EncodeGamma(bw *bitio.Writer, v uint64) (int, error) {
	n := bits.Len64(v) - 1
	for i := 0; i < n; i++ {
		if err := bw.WriteBool(false); err != nil {
			return 0, err
		}
	}
	if err := bw.WriteBits(v, byte(n+1)); err != nil {
		return 0, err
	}
	return 2*n + 1, nil
}

// DecodeGamma reads and returns an Elias-Gamma encoded value written by
// EncodeGamma. A stream exhausted before the terminating one-bit, or before
// the trailing payload bits, surfaces as the underlying bitio error.
func DecodeGamma(br *bitio.Reader) (uint64, error) {
	n := 0
	for {
		bit, err := br.ReadBool()
		if err != nil {
			return 0, err
		}
		if bit {
			break
		}
		n++
	}
	if n == 0 {
		return 1, nil
	}
	rest, err := br.ReadBits(byte(n))
	if err != nil {
		return 0, err
	}
	return uint64(1)<<uint(n) | rest, nil
}
