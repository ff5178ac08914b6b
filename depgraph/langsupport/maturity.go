package langsupport

// MaturityLevel describes how complete extraction and resolution support is
// for a language.
type MaturityLevel int

const (
	MaturityUntested MaturityLevel = iota
	MaturityBasicTests
	MaturityActivelyTested
	MaturityStable
)

func (level MaturityLevel) DisplayName() string {
	switch level {
	case MaturityUntested:
		return "Untested"
	case MaturityBasicTests:
		return "Basic Tests"
	case MaturityActivelyTested:
		return "Actively Tested"
	case MaturityStable:
		return "Stable"
	default:
		return "Unknown"
	}
}

func (level MaturityLevel) Symbol() string {
	switch level {
	case MaturityUntested:
		return "○"
	case MaturityBasicTests:
		return "◐"
	case MaturityActivelyTested:
		return "●"
	case MaturityStable:
		return "✓"
	default:
		return "?"
	}
}
