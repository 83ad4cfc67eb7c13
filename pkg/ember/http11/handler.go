package http11

import "io"

//go:generate mockgen -destination=mock_test.go -package=http11 . Handler,Resolver

// ResponseSink is the write side of a connection handed to a Handler.
// Writes are buffered; the Dispatcher flushes after the handler returns, so a
// handler only needs Flush to push bytes out early.
type ResponseSink interface {
	io.Writer
	Flush() error
}

// Handler serves one request by writing a complete HTTP response to w.
// The engine adds nothing: status line, headers and body are all the
// handler's responsibility. A returned error is logged and the connection is
// closed as usual.
type Handler interface {
	ServeRaw(req *Request, w ResponseSink) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(req *Request, w ResponseSink) error

// ServeRaw calls f(req, w).
func (f HandlerFunc) ServeRaw(req *Request, w ResponseSink) error {
	return f(req, w)
}

// Resolver finds the handler for an exact method and path.
type Resolver interface {
	Lookup(method, path string) (Handler, bool)
}
