// Package terminator provides the external-stop plumbing spec §5 calls
// for ("an external flag (e.g., SIGINT)") and spec §7's "external
// signals: termination is recovery-like" handling: a composable
// Terminator that combines a wall-clock deadline with a SIGINT flag.
package terminator

import "time"

// Terminator reports whether a running search should stop.
// Implementations must be safe to call from any goroutine.
type Terminator interface {
	ShouldTerminate() bool
}

// Func adapts a plain function to Terminator.
type Func func() bool

// ShouldTerminate implements Terminator.
func (f Func) ShouldTerminate() bool { return f() }

// Never never terminates; used for the one-shot "-x" style runs where
// a caller wants to drive the loop purely by its own stopping rule.
var Never Terminator = Func(func() bool { return false })

// deadline terminates once the wall clock passes a fixed instant.
type deadline struct {
	at time.Time
}

// NewDeadline returns a Terminator that fires once d has elapsed.
func NewDeadline(d time.Duration) Terminator {
	return &deadline{at: time.Now().Add(d)}
}

func (t *deadline) ShouldTerminate() bool {
	return time.Now().After(t.at)
}

// Combinator is a disjunction of terminators: it fires as soon as any
// one of them does (spec: exploration and compression both watch the
// same external signal alongside their own time split).
type Combinator struct {
	terms []Terminator
}

// Combine builds a Combinator that fires when any of terms fires.
func Combine(terms ...Terminator) *Combinator {
	return &Combinator{terms: terms}
}

func (c *Combinator) ShouldTerminate() bool {
	for _, t := range c.terms {
		if t.ShouldTerminate() {
			return true
		}
	}
	return false
}
