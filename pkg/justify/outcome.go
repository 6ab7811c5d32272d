package justify

import (
	"fmt"

	"github.com/matzehuels/tatweel/pkg/errors"
)

// Outcome classifies the width of a span against the goal.
type Outcome uint8

const (
	// Fit means the span lands within the tolerance band.
	Fit Outcome = iota
	// TooTight means the narrowest setting still overshoots. No longer span
	// from the same start can fit either.
	TooTight
	// TooLoose means the widest setting still falls short. The span must grow.
	TooLoose
)

var outcomeNames = [...]string{Fit: "fit", TooTight: "too_tight", TooLoose: "too_loose"}

// String returns "fit", "too_tight" or "too_loose".
func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", o)
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the outcome of fitting one span, with the values that were
// attempted last. Line is populated for every outcome so that callers can
// accept a best effort, as the orchestrator does for a loose single line.
//
// BestEffort is set when bisection stopped on a plateau or the iteration cap
// and the width is the closest the axis could get rather than a tolerance
// match.
type Result struct {
	Outcome    Outcome
	Line       Line
	Width      int
	BestEffort bool
}

// Err returns nil for [Fit] and a coded TOO_TIGHT or TOO_LOOSE error
// otherwise.
func (r Result) Err() error {
	switch r.Outcome {
	case TooTight:
		return errors.New(errors.ErrCodeTooTight, "bytes %d-%d are %d units wide at their narrowest", r.Line.Start, r.Line.End, r.Width)
	case TooLoose:
		return errors.New(errors.ErrCodeTooLoose, "bytes %d-%d reach only %d units at their widest", r.Line.Start, r.Line.End, r.Width)
	}
	return nil
}
