// Package artifact tracks the text staged for execution. The original tool
// kept generated code, demo code, and error messages in one undifferentiated
// text box; Slot makes the distinction explicit so the executor can refuse
// to evaluate an error message and the UI can present the two differently.
package artifact

import "errors"

// Origin records where code in the slot came from.
type Origin int

const (
	OriginGenerated Origin = iota
	OriginDemo
	OriginEdited
	OriginLoaded
)

func (o Origin) String() string {
	switch o {
	case OriginGenerated:
		return "generated"
	case OriginDemo:
		return "demo"
	case OriginEdited:
		return "edited"
	case OriginLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptySlot is returned when nothing has been staged yet.
	ErrEmptySlot = errors.New("nothing staged to run")
	// ErrNotRunnable is returned when the slot holds an error message
	// rather than code.
	ErrNotRunnable = errors.New("staged artifact is an error message, not code")
)

type kind int

const (
	kindEmpty kind = iota
	kindCode
	kindError
)

// Slot holds the current artifact: either code or the error message that
// replaced it. Exactly one variant is held at a time.
type Slot struct {
	kind   kind
	source string
	origin Origin
	stage  string
	detail string
}

// SetCode stages source for execution, replacing whatever was held.
func (s *Slot) SetCode(source string, origin Origin) {
	s.kind = kindCode
	s.source = source
	s.origin = origin
	s.stage = ""
	s.detail = ""
}

// SetError stages a failure from the named pipeline stage, replacing
// whatever was held.
func (s *Slot) SetError(stage, detail string) {
	s.kind = kindError
	s.source = ""
	s.stage = stage
	s.detail = detail
}

// Clear empties the slot.
func (s *Slot) Clear() {
	*s = Slot{}
}

// IsCode reports whether the slot holds runnable code.
func (s *Slot) IsCode() bool { return s.kind == kindCode }

// IsError reports whether the slot holds an error message.
func (s *Slot) IsError() bool { return s.kind == kindError }

// IsEmpty reports whether nothing is staged.
func (s *Slot) IsEmpty() bool { return s.kind == kindEmpty }

// Origin returns where the staged code came from. Meaningful only when
// IsCode is true.
func (s *Slot) Origin() Origin { return s.origin }

// Source returns the staged code. It fails with ErrEmptySlot when nothing
// is staged and ErrNotRunnable when the slot holds an error message, so an
// error string can never reach the executor.
func (s *Slot) Source() (string, error) {
	switch s.kind {
	case kindCode:
		return s.source, nil
	case kindError:
		return "", ErrNotRunnable
	default:
		return "", ErrEmptySlot
	}
}

// ErrorMessage returns the held failure's stage and detail. Meaningful only
// when IsError is true.
func (s *Slot) ErrorMessage() (stage, detail string) {
	return s.stage, s.detail
}

// Display returns the slot contents for showing to the user, regardless
// of variant.
func (s *Slot) Display() string {
	switch s.kind {
	case kindCode:
		return s.source
	case kindError:
		return "Error (" + s.stage + "): " + s.detail
	default:
		return ""
	}
}
