package taskqueue

import (
	"fmt"
	"strings"
)

// WaveError aggregates the failures observed while draining one wave.
type WaveError struct {
	Wave int
	Errs []error
}

func (e *WaveError) Error() string {
	if e == nil || len(e.Errs) == 0 {
		return "task wave failed"
	}
	if len(e.Errs) == 1 {
		return fmt.Sprintf("task wave %d: %v", e.Wave, e.Errs[0])
	}
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("task wave %d: %d tasks failed: %s", e.Wave, len(e.Errs), strings.Join(msgs, "; "))
}

// Unwrap exposes every task failure to errors.Is and errors.As.
func (e *WaveError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.Errs
}

// PanicError reports a task that panicked instead of returning.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Failures flattens err into the individual task failures it carries. A
// *WaveError yields its members; anything else is returned as a single
// element. A nil error yields nil.
func Failures(err error) []error {
	if err == nil {
		return nil
	}
	var out []error
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range multi.Unwrap() {
			out = append(out, Failures(inner)...)
		}
		return out
	}
	return []error{err}
}
