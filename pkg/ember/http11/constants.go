// Package http11 implements the one-shot HTTP/1.1 request engine: a bounded wire
// parser, the read-only Request model, and the per-connection Dispatcher.
package http11

// Wire limits
const (
	// DefaultLimit is the number of bytes read in one call that must hold the
	// request line and every header. Larger header sections are rejected.
	DefaultLimit = 4096

	// DefaultMaxBodyBytes caps the Content-Length the parser will honour.
	// Declared lengths above it are treated as malformed.
	DefaultMaxBodyBytes = 10 << 20 // 10 MB

	// DefaultWriteBufferSize is the size of the buffered response sink
	DefaultWriteBufferSize = 4096
)

// Methods and media types the parser cares about
const (
	MethodGET  = "GET"
	MethodPOST = "POST"

	ContentTypeForm = "application/x-www-form-urlencoded"

	headerContentLength = "Content-Length"
	headerContentType   = "Content-Type"
)

// Protocol delimiters
var (
	requestLineDelimiter = []byte("\r\n")
	headersDelimiter     = []byte("\r\n\r\n")
	crlf                 = "\r\n"
)

// Fixed responses written by the Dispatcher. Each one is complete: status line,
// zero Content-Length, Connection: close and the blank line.
var (
	responseBadRequest    = []byte("HTTP/1.1 400 Bad Request\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
	responseNotFound      = []byte("HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
	responseInternalError = []byte("HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
)
