// Package errors provides structured error types for the direct-command codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes the offending value, a field path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindInvalidValue).
//		Path("lcs").
//		Value(s).
//		Detail("string contains NUL at %d", i).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.PositiveOverflow(errors.PhaseEncode, 40, 31)
//	err := errors.DimensionMismatch(errors.PhaseImage, len(img), 178*128)
//
// Memory exhaustion is reported with AllocationError, which names the axis.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
