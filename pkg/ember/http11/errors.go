package http11

import "errors"

// ErrMalformedRequest is the class of every structural parse failure. All
// parser errors below match it with errors.Is and map to a 400 response.
var ErrMalformedRequest = errors.New("http11: malformed request")

// Parser errors - pre-allocated, each wraps ErrMalformedRequest
var (
	// ErrMissingRequestLine indicates no CRLF was found in the buffered prefix
	// (this includes an empty read)
	ErrMissingRequestLine = malformed("http11: request line terminator not found")

	// ErrInvalidRequestLine indicates the request line did not split into
	// exactly METHOD, PATH and VERSION
	ErrInvalidRequestLine = malformed("http11: invalid request line")

	// ErrInvalidPath indicates the request target does not start with '/'
	ErrInvalidPath = malformed("http11: request path must start with '/'")

	// ErrMissingHeaderTerminator indicates no blank line ended the header block
	// within the buffered prefix
	ErrMissingHeaderTerminator = malformed("http11: header block terminator not found")

	// ErrInvalidContentLength indicates Content-Length is not a non-negative
	// base-10 integer within the configured body limit
	ErrInvalidContentLength = malformed("http11: invalid Content-Length")

	// ErrTruncatedBody indicates the stream ended before Content-Length bytes arrived
	ErrTruncatedBody = malformed("http11: body shorter than Content-Length")
)

// Dispatch errors
var (
	// ErrNoRoute indicates no handler is registered for the method and path
	ErrNoRoute = errors.New("http11: no route")

	// ErrHandlerPanic indicates a Handler panicked while serving a request
	ErrHandlerPanic = errors.New("http11: handler panic")
)

type malformedError struct {
	msg string
}

func malformed(msg string) error {
	return &malformedError{msg: msg}
}

func (e *malformedError) Error() string { return e.msg }

func (e *malformedError) Unwrap() error { return ErrMalformedRequest }
