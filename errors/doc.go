// Package errors provides structured error types for the marshalling core.
//
// Errors are categorized by Phase (where in a call the error occurred) and
// Kind (error category). The Error type carries the parameter path, the
// failing array index, the caller and native type names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
//		Path("DoBoolean", "p1").
//		CallerType("text").
//		NativeType("boolean").
//		Detail("not a number").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseCoerce, path, "text", "octet")
//	err := errors.UnknownMethod("nsIPythonTestInterface", "no_such_method")
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching with errors.Is compares Kind, and Phase when the target sets one,
// so the package sentinels (ErrTypeMismatch, ErrUnknownMethod, ...) match an
// error of that kind raised in any phase.
package errors
