package cost

// Mode is the current encoding regime (spec §3).
type Mode int

const (
	ModeMultiPredictor Mode = iota
	ModeLDROnly
)

func (m Mode) String() string {
	if m == ModeLDROnly {
		return "LDR_ONLY"
	}
	return "MULTI_PREDICTOR"
}
