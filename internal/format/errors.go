package format

import "errors"

var (
	// ErrSignatureMismatch indicates the file does not start with the empty
	// RES header every resource compiler emits.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadHeader indicates a resource header whose sizes are inconsistent.
	ErrBadHeader = errors.New("format: bad resource header")
	// ErrBadIdent indicates a type or name identifier that cannot be stored.
	ErrBadIdent = errors.New("format: bad identifier")
	// ErrDuplicate indicates two resources share the same type, name and language.
	ErrDuplicate = errors.New("format: duplicate resource")
	// ErrTooLarge indicates a payload that does not fit a 32-bit size field.
	ErrTooLarge = errors.New("format: resource too large")
)
