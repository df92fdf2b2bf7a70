package model

import "fmt"

// TransportError reports a failed bar retrieval (network, HTTP status or decode).
type TransportError struct {
	Symbol   string
	Interval string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Symbol, e.Interval, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataInsufficientError reports a window too short for an indicator.
type DataInsufficientError struct {
	Interval  string
	Indicator Indicator
	Bars      int
}

func (e *DataInsufficientError) Error() string {
	if e.Indicator == "" {
		return fmt.Sprintf("insufficient data %s: no bars", e.Interval)
	}
	return fmt.Sprintf("insufficient data %s: %s undefined at last bar (%d bars)", e.Interval, e.Indicator, e.Bars)
}

// PersistenceError reports a failed load or save of the signal memory.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
