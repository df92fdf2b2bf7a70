package model

import "time"

// SignalKind is the discrete outcome of evaluating a pair.
type SignalKind string

const (
	SignalLong   SignalKind = "LONG"
	SignalShort  SignalKind = "SHORT"
	SignalNone   SignalKind = "NONE"
	SignalNoData SignalKind = "NO_DATA"
)

// Actionable reports whether the kind is a trade direction.
func (k SignalKind) Actionable() bool {
	return k == SignalLong || k == SignalShort
}

// Valid reports whether k is one of the known kinds.
func (k SignalKind) Valid() bool {
	switch k {
	case SignalLong, SignalShort, SignalNone, SignalNoData:
		return true
	}
	return false
}

// Snapshot pairs the execution and confirmation indicator values taken from a
// single fetch of both timeframes.
type Snapshot struct {
	Pair                 string
	ExecutionInterval    string
	ConfirmationInterval string
	EvaluatedAt          time.Time
	Execution            IndicatorSet
	Confirmation         IndicatorSet
}

// Signal is the result of one evaluation of one pair.
type Signal struct {
	Pair     string
	Kind     SignalKind
	At       time.Time
	Snapshot *Snapshot // nil for NO_DATA
	Reason   string    // why the pair has no data
}
