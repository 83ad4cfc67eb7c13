package http11

import "strings"

// RequestLine is the first line of a request: METHOD PATH VERSION.
// Path is the raw request target; it always starts with '/' and is neither
// percent-decoded nor normalized.
type RequestLine struct {
	method  string
	path    string
	version string
}

// NewRequestLine builds a RequestLine from already-validated parts.
func NewRequestLine(method, path, version string) RequestLine {
	return RequestLine{method: method, path: path, version: version}
}

// Method returns the request method, e.g. "GET".
func (l RequestLine) Method() string { return l.method }

// Path returns the raw request target including any query string.
func (l RequestLine) Path() string { return l.path }

// Version returns the protocol token, e.g. "HTTP/1.1".
func (l RequestLine) Version() string { return l.version }

// RoutePath returns the path without its query string. Routes are matched on it.
func (l RequestLine) RoutePath() string {
	if i := strings.IndexByte(l.path, '?'); i != -1 {
		return l.path[:i]
	}
	return l.path
}

// RawQuery returns the text after '?' or "" when there is none.
func (l RequestLine) RawQuery() string {
	if i := strings.IndexByte(l.path, '?'); i != -1 {
		return l.path[i+1:]
	}
	return ""
}

func (l RequestLine) String() string {
	return l.method + " " + l.path + " " + l.version
}

// Param is one decoded form or query parameter name with every value it
// carried, in order of appearance.
type Param struct {
	Name   string
	Values []string
}

// Request is a fully parsed request. It is built once by the Parser and never
// mutated afterwards; handlers only get read access.
type Request struct {
	line    RequestLine
	headers []string
	body    []byte
	hasBody bool

	queryParams []Param
	postParams  []Param

	// RemoteAddr is the network address of the client
	RemoteAddr string
}

// RequestLine returns the parsed request line.
func (r *Request) RequestLine() RequestLine { return r.line }

// Method is shorthand for r.RequestLine().Method().
func (r *Request) Method() string { return r.line.method }

// Path is shorthand for r.RequestLine().Path().
func (r *Request) Path() string { return r.line.path }

// Headers returns a copy of the raw header lines in wire order, duplicates kept.
func (r *Request) Headers() []string {
	out := make([]string, len(r.headers))
	copy(out, r.headers)
	return out
}

// Header returns the value of the first header line that starts with name.
//
// The match is a raw prefix match, not a field-name comparison: looking up
// "Content-Type" also matches a line "Content-Type-Extended: x". Lines are kept
// opaque on purpose so lookups see exactly what the client sent.
func (r *Request) Header(name string) (string, bool) {
	return ExtractHeader(r.headers, name)
}

// Body returns the request body and whether one was read. A body is only read
// for non-GET requests carrying a Content-Length header.
func (r *Request) Body() (string, bool) {
	return string(r.body), r.hasBody
}

// BodyBytes returns a copy of the body bytes, nil when there is no body.
func (r *Request) BodyBytes() []byte {
	if !r.hasBody {
		return nil
	}
	out := make([]byte, len(r.body))
	copy(out, r.body)
	return out
}

// QueryParam returns the values of the first query parameter whose name starts
// with name. Prefix semantics match Header: "id" also finds "identity".
func (r *Request) QueryParam(name string) []string {
	return lookupParam(r.queryParams, name)
}

// QueryParams returns every decoded query parameter in order of appearance.
func (r *Request) QueryParams() []Param {
	return cloneParams(r.queryParams)
}

// PostParam returns the values of the first form parameter whose name starts
// with name. Only populated for non-GET requests whose Content-Type is exactly
// application/x-www-form-urlencoded.
func (r *Request) PostParam(name string) []string {
	return lookupParam(r.postParams, name)
}

// PostParams returns every decoded form parameter, nil when the body was not a form.
func (r *Request) PostParams() []Param {
	return cloneParams(r.postParams)
}

func (r *Request) String() string {
	return "Request{line=" + r.line.String() + ", headers=" + strings.Join(r.headers, "|") + "}"
}

func lookupParam(params []Param, name string) []string {
	for _, p := range params {
		if strings.HasPrefix(p.Name, name) {
			out := make([]string, len(p.Values))
			copy(out, p.Values)
			return out
		}
	}
	return []string{}
}

func cloneParams(params []Param) []Param {
	if params == nil {
		return nil
	}
	out := make([]Param, len(params))
	for i, p := range params {
		out[i] = Param{Name: p.Name, Values: append([]string(nil), p.Values...)}
	}
	return out
}
