package serial

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingField   = "missing_field"
	CodeInvalidVariant = "invalid_variant"
	CodeInvalidType    = "invalid_type"
	CodeUnknown        = "unknown"
)

// Error is the single codec error kind. Callers distinguish failure
// categories by Code, not by type hierarchy; Cause chains the underlying
// failure for diagnosis.
type Error struct {
	Path    string // JSON Pointer to the failing value (for example: /content/msgtype).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Error renders as "<code> at <path>: <message>".
func (e *Error) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s at %s", e.Code, path)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, path, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// AsCodecError extracts a *Error from an error chain using errors.As.
func AsCodecError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// NewError constructs a codec error rooted at "/".
func NewError(code, message string) *Error {
	return &Error{Path: "/", Code: code, Message: message}
}

// WrapError converts err into a codec error. Codec errors pass through
// unchanged; anything else becomes CodeUnknown with err as the cause.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}
	if ce, ok := AsCodecError(err); ok {
		return ce
	}
	return &Error{Path: "/", Code: CodeUnknown, Message: err.Error(), Cause: err}
}

// RebaseError prefixes the error's path with the given segment so failures
// stay locatable as they propagate out of nested values. Non-codec errors are
// wrapped first.
func RebaseError(err error, segment string) *Error {
	ce := WrapError(err)
	base := "/" + segment
	p := ce.Path
	switch {
	case p == "" || p == "/":
		p = base
	case p[0] == '/':
		p = base + p
	default:
		p = base + "/" + p
	}
	return &Error{Path: p, Code: ce.Code, Message: ce.Message, Cause: ce.Cause}
}

// TypeMismatch reports a document shape that does not match the declared
// type, e.g. "expected list, got string".
func TypeMismatch(expected string, got Kind) *Error {
	return NewError(CodeInvalidType, fmt.Sprintf("expected %s, got %s", expected, got))
}
