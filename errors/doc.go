// Package errors provides structured error types for the asn1-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the name of the schema field that failed, the path of
// enclosing field names, the byte offset and a cause chain. Structural nesting
// in protocol messages can be dozens of levels deep, so the field and path are
// what make a failure diagnosable after it has propagated to the outermost call.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindMalformed).
//		Path("initRequest", "options").
//		Field("options").
//		Offset(17).
//		Detail("length %d exceeds remaining %d", 40, 12).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldMissing(errors.PhaseDecode, path, "first")
//	err := errors.Truncated(errors.PhaseDecode, path, "value", 12, 40, 3)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match any error of the same Kind regardless of phase.
package errors
