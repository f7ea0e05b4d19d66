package schedule

import "errors"

var (
	// ErrMalformedPayload reports an empty or unparseable schedule document.
	ErrMalformedPayload = errors.New("malformed schedule payload")
	// ErrUnrecognizedSchema reports a document with neither stages nor brackets.
	ErrUnrecognizedSchema = errors.New("unrecognized schedule schema")
)
