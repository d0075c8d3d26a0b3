package contract

// ResolutionState tags how an identifier was recovered from a transaction.
type ResolutionState int

const (
	// Resolved: decoded from the expected event log in the receipt.
	Resolved ResolutionState = iota
	// FellBack: the log was absent or unparsable; the value was recovered
	// by re-reading the owner's list and taking the last entry. A guess,
	// not a guarantee.
	FellBack
	// Unresolved: neither the log nor the fallback produced a value.
	Unresolved
)

func (s ResolutionState) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case FellBack:
		return "fell-back"
	default:
		return "unresolved"
	}
}

// Resolution is the outcome of a two-stage identifier recovery: a
// structured log decode followed by an explicit list fallback. Callers can
// tell a confident result from a recovered guess.
type Resolution struct {
	State ResolutionState
	Value string
	Err   error
}

func resolved(v string) Resolution   { return Resolution{State: Resolved, Value: v} }
func fellBack(v string) Resolution   { return Resolution{State: FellBack, Value: v} }
func unresolved(err error) Resolution {
	return Resolution{State: Unresolved, Err: err}
}
