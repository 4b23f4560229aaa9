package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode    Phase = "encode"    // parameter encoding
	PhaseAllocate  Phase = "allocate"  // command memory accounting
	PhaseFrame     Phase = "frame"     // packet framing
	PhaseDecode    Phase = "decode"    // reply parsing
	PhaseImage     Phase = "image"     // bitmap transcoding
	PhaseTransport Phase = "transport" // device exchange
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindOverflow          Kind = "overflow"
	KindUnderflow         Kind = "underflow"
	KindAllocation        Kind = "allocation"
	KindInvalidRange      Kind = "invalid_range"
	KindInvalidValue      Kind = "invalid_value"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindReplyMismatch     Kind = "reply_mismatch"
	KindRemote            Kind = "remote"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// PositiveOverflow creates an error for a value above the maximum of its form
func PositiveOverflow(phase Phase, value any, maximum any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflowed (maximum: %v)", value, maximum),
		Value:  value,
	}
}

// NegativeUnderflow creates an error for a value below the minimum of its form
func NegativeUnderflow(phase Phase, value any, minimum any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnderflow,
		Detail: fmt.Sprintf("value %v underflowed (minimum: %v)", value, minimum),
		Value:  value,
	}
}

// InvalidRange creates an error for a value outside [min, max]
func InvalidRange(phase Phase, path []string, value, minimum, maximum int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidRange,
		Path:   path,
		Detail: fmt.Sprintf("expect %d - %d, got %d", minimum, maximum, value),
		Value:  value,
	}
}

// InvalidValue creates an error for a value that differs from the expected one
func InvalidValue(phase Phase, path []string, value, expected any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidValue,
		Path:   path,
		Detail: fmt.Sprintf("expect %v, got %v", expected, value),
		Value:  value,
	}
}

// DimensionMismatch creates an error for a buffer of the wrong size
func DimensionMismatch(phase Phase, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDimensionMismatch,
		Detail: fmt.Sprintf("got %d bytes, want %d", got, want),
		Value:  got,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Axis names a stack of command memory
type Axis string

const (
	AxisLocal  Axis = "local"
	AxisGlobal Axis = "global"
)

// AllocationError is returned when a command's memory axis is exhausted
type AllocationError struct {
	Axis      Axis
	Requested int
	Used      int
	Limit     int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("[%s] %s: cannot allocate %d bytes, %s memory %d / %d",
		PhaseAllocate, KindAllocation, e.Requested, e.Axis, e.Used, e.Limit)
}

// Is reports whether target matches this error type.
// It also matches an *Error carrying KindAllocation.
func (e *AllocationError) Is(target error) bool {
	switch t := target.(type) {
	case *AllocationError:
		return t.Axis == "" || t.Axis == e.Axis
	case *Error:
		return t.Kind == KindAllocation && (t.Phase == "" || t.Phase == PhaseAllocate)
	}
	return false
}
