package docx

import "errors"

var (
	// ErrTemplateNotFound means the template file is absent. This is a server
	// configuration fault, not a request fault.
	ErrTemplateNotFound = errors.New("template file not found")

	// ErrMalformedTemplate means the template exists but is not a readable
	// DOCX archive.
	ErrMalformedTemplate = errors.New("malformed template archive")

	// ErrUnresolvedPlaceholder means the template references a placeholder the
	// field record does not satisfy. Substitution is strict so schema drift
	// between the field set and the template fails loudly.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")
)
