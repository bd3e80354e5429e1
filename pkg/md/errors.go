package md

import (
	"errors"
	"fmt"
)

// ErrStructuralMismatch is wrapped by every StructuralError. It signals that the
// event stream violated the Start/End nesting contract.
var ErrStructuralMismatch = errors.New("structural mismatch in event stream")

// StructuralError describes where the event stream stopped being well-formed.
// Rendering aborts on the first one; no partial tree is returned.
type StructuralError struct {
	Reason string
	Event  Event       // offending event; zero for unclosed frames at end of stream
	Range  SourceRange // range of the offending event or unclosed frame
	Depth  int         // stack depth when the error was detected
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s at %s (depth %d)", ErrStructuralMismatch, e.Reason, e.Range, e.Depth)
}

// Unwrap lets errors.Is match ErrStructuralMismatch.
func (e *StructuralError) Unwrap() error {
	return ErrStructuralMismatch
}

func endWithoutStart(ev Event, r SourceRange) *StructuralError {
	return &StructuralError{
		Reason: fmt.Sprintf("End(%s) without an open Start", ev.Tag.Kind),
		Event:  ev,
		Range:  r,
	}
}

func endMismatch(open TagKind, ev Event, r SourceRange, depth int) *StructuralError {
	return &StructuralError{
		Reason: fmt.Sprintf("End(%s) closes open %s", ev.Tag.Kind, open),
		Event:  ev,
		Range:  r,
		Depth:  depth,
	}
}

func unclosed(open TagKind, r SourceRange, depth int) *StructuralError {
	return &StructuralError{
		Reason: fmt.Sprintf("%s still open at end of stream", open),
		Range:  r,
		Depth:  depth,
	}
}
