// Package cost implements the CoST (Cost-aware Switched-predictor
// Trajectory compression) encoder/decoder pair: the predictor bank, the
// per-point and per-window cost model, the mode controller, and the bit
// layout that ties them together (spec §4.4).
//
// Construction and orchestration follow the teacher's top-level Encode
// entry point (enc.go: build a bit writer over an in-memory buffer, write
// a header once, then a body per unit, then flush and hand back bytes) and
// its decode-side mirror (flac.go/rsf.go's Stream/iteration shape).
package cost

// Config configures a Compressor. Epsilon is the caller-facing absolute
// spatial tolerance; the codec's actual quantization step derives from
// Epsilon*0.999 internally (spec §3) — that safety margin is not itself
// configurable (spec §9: "Do not expose epsilon_effective ... as a caller
// input").
type Config struct {
	// BlockSize is informational only; the core never enforces it (spec §6).
	BlockSize uint16
	// Epsilon is the caller's absolute tolerance in the same units as Lon/Lat.
	Epsilon float64
	// EvaluationWindow is E, the point-count evaluation interval. Zero
	// means the spec default of 96.
	EvaluationWindow uint16
	// UseTimeWindow selects time-bounded evaluation/cost windows instead of
	// point-count-bounded ones.
	UseTimeWindow bool
	// TimeWindowSeconds is T, used only when UseTimeWindow is set.
	TimeWindowSeconds uint32
}

// epsilonSafetyMargin is the codec-internal safety factor applied to the
// caller's Epsilon (spec §3).
const epsilonSafetyMargin = 0.999

// defaultEvaluationWindow is E's spec default.
const defaultEvaluationWindow = 96

// modeSwitchKappa is κ, the amortized cost of the mode bit itself
// (spec §4.4.3).
const modeSwitchKappa = 1

func (c Config) evaluationWindow() uint16 {
	if c.EvaluationWindow == 0 {
		return defaultEvaluationWindow
	}
	return c.EvaluationWindow
}

func (c Config) epsilonEffective() float64 {
	return c.Epsilon * epsilonSafetyMargin
}
