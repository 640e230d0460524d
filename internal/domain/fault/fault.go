// Package fault defines the error taxonomy shared by the intake pipeline
// and the credential store. Every failure surfaced to a caller carries a
// machine-readable Kind and a human-readable message; the original cause
// stays on the unwrap chain for logging but is never exposed verbatim.
package fault

import "errors"

// Kind is the machine-readable classification of a failure.
type Kind string

const (
	// KindConfiguration: a required active credential is missing or
	// ambiguous. Raised before any external call is made.
	KindConfiguration Kind = "configuration_error"
	// KindOCR: the OCR collaborator failed for one input image.
	KindOCR Kind = "ocr_error"
	// KindLLM: the LLM collaborator failed.
	KindLLM Kind = "llm_error"
	// KindResponseFormat: the LLM output was not valid JSON after defencing.
	KindResponseFormat Kind = "response_format_error"
	// KindSchemaValidation: the LLM JSON could not be coerced into the
	// expected record shape.
	KindSchemaValidation Kind = "schema_validation_error"
	// KindSheetWrite: the spreadsheet append failed or wrote an
	// unexpected number of rows or cells.
	KindSheetWrite Kind = "sheet_write_error"
	// KindPersistence: a local store transaction failed.
	KindPersistence Kind = "persistence_error"
	// KindDuplicateSecret: a credential with the same secret value
	// already exists.
	KindDuplicateSecret Kind = "duplicate_secret"
	// KindCredentialNotFound: no credential matched, or the active-set
	// invariant was found violated for the requested type.
	KindCredentialNotFound Kind = "credential_not_found"
)

// Error is a classified failure. Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error returns the caller-safe message.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the original cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// New creates a classified error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error preserving the underlying cause.
// Returns nil if cause is nil.
func Wrap(kind Kind, message string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err. The second return is false when err
// carries no classification.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
