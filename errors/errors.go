package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode Phase = "encode" // Go value to BER
	PhaseDecode Phase = "decode" // BER to Go value
	PhasePrint  Phase = "print"  // value dump
	PhaseFrame  Phase = "frame"  // stream completion
	PhaseConfig Phase = "config" // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	// KindMalformed covers protocol violations in the input: tag or length
	// inconsistent with the remaining bytes, unknown CHOICE alternatives.
	KindMalformed Kind = "malformed"
	// KindFieldMissing reports a required field absent on decode or unset on encode.
	KindFieldMissing Kind = "field_missing"
	// KindSpaceExhausted reports that the encode buffer could not grow.
	KindSpaceExhausted Kind = "space_exhausted"
	// KindOther is the catch-all.
	KindOther Kind = "other"
)

// Sentinels for errors.Is matching on Kind alone.
var (
	ErrMalformed      = &Error{Kind: KindMalformed}
	ErrFieldMissing   = &Error{Kind: KindFieldMissing}
	ErrSpaceExhausted = &Error{Kind: KindSpaceExhausted}
	ErrOther          = &Error{Kind: KindOther}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Field  string
	Detail string
	Path   []string
	// Offset is the byte offset into the input (decode) or output (encode)
	// where the failure was detected, or -1 when unknown.
	Offset int
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
	} else if e.Field != "" {
		b.WriteString(" at ")
		b.WriteString(e.Field)
	}

	if e.Offset > 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
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

// Is reports whether target matches this error. An empty Phase on the
// target matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && t.Phase != e.Phase {
			return false
		}
		return e.Kind == t.Kind
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
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the path of enclosing field names
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Field sets the name of the failing field
func (b *Builder) Field(name string) *Builder {
	b.err.Field = name
	return b
}

// Offset sets the byte offset
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
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

func lastOf(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

// FieldMissing creates a missing field error. The field name is appended to path.
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   appendPath(path, fieldName),
		Field:  fieldName,
		Detail: fmt.Sprintf("required field %q not present", fieldName),
		Offset: -1,
	}
}

// Malformed creates a malformed input error
func Malformed(phase Phase, path []string, offset int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformed,
		Path:   path,
		Field:  lastOf(path),
		Detail: detail,
		Offset: offset,
	}
}

// Truncated creates a malformed error for a declared length that exceeds the
// bytes actually available.
func Truncated(phase Phase, path []string, what string, offset, declared, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformed,
		Path:   path,
		Field:  lastOf(path),
		Detail: fmt.Sprintf("%s length %d exceeds remaining %d", what, declared, remaining),
		Value:  declared,
		Offset: offset,
	}
}

// UnknownAlternative creates an error for a CHOICE whose tag matches no arm
func UnknownAlternative(phase Phase, path []string, offset int, tag string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformed,
		Path:   path,
		Field:  lastOf(path),
		Detail: fmt.Sprintf("no alternative matches tag %s", tag),
		Value:  tag,
		Offset: offset,
	}
}

// SpaceExhausted creates an output space exhaustion error
func SpaceExhausted(path []string, size, limit int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindSpaceExhausted,
		Path:   path,
		Field:  lastOf(path),
		Detail: fmt.Sprintf("output of %d bytes exceeds limit %d", size, limit),
		Value:  size,
		Offset: -1,
	}
}

// Other creates a catch-all error
func Other(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOther,
		Path:   path,
		Field:  lastOf(path),
		Detail: detail,
		Offset: -1,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Offset: -1,
	}
}

// appendPath copies path so callers may keep mutating their stack.
func appendPath(path []string, name string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	if name == "" {
		return out
	}
	return append(out, name)
}
