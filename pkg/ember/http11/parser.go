package http11

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parser turns the leading bytes of a connection into a Request.
//
// Design:
// - Exactly one Read of at most Limit bytes; request line and headers must fit
// - Request line and header terminators are found by IndexOf over that buffer
// - Header lines stay raw; nothing is trimmed or split into name/value
// - The body is read only for non-GET methods with a Content-Length header,
//   first from the bytes already buffered after the headers, then from the stream
//
// A zero Parser is usable and applies DefaultLimit and DefaultMaxBodyBytes.
type Parser struct {
	// Limit is the size of the single initial read
	Limit int

	// MaxBodyBytes rejects larger declared bodies; negative disables the cap
	MaxBodyBytes int64
}

func (p Parser) limit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

func (p Parser) maxBody() int64 {
	if p.MaxBodyBytes == 0 {
		return DefaultMaxBodyBytes
	}
	return p.MaxBodyBytes
}

// Parse reads one request from r. Every structural failure returns an error
// matching ErrMalformedRequest; no partial Request is ever returned.
func (p Parser) Parse(r io.Reader) (*Request, error) {
	buf := GetReadBuffer(p.limit())
	defer PutReadBuffer(buf)

	// A short or failed read is not a state of its own: whatever arrived is
	// parsed and the missing terminator reports the failure.
	n, _ := r.Read(buf)
	if n < 0 {
		n = 0
	}

	line, headersStart, err := ParseRequestLine(buf, n)
	if err != nil {
		return nil, err
	}

	headers, headersEnd, err := ParseHeaders(buf, headersStart, n)
	if err != nil {
		return nil, err
	}

	req := &Request{
		line:        line,
		headers:     headers,
		queryParams: ParseForm([]byte(line.RawQuery())),
	}

	if line.method == MethodGET {
		return req, nil
	}

	// Bytes already buffered past the header terminator belong to the body
	rest := buf[headersEnd+len(headersDelimiter) : n]
	body, ok, err := p.readBody(io.MultiReader(bytes.NewReader(rest), r), line, headers)
	if err != nil {
		return nil, err
	}
	req.body, req.hasBody = body, ok

	if ok {
		if ct, found := ExtractHeader(headers, headerContentType); found && ct == ContentTypeForm {
			req.postParams = ParseForm(body)
		}
	}
	return req, nil
}

// ParseRequestLine parses "METHOD PATH VERSION\r\n" from buf[:n] and returns
// the line plus the offset where headers start.
//
// Allocation behavior: 3 small string allocations
func ParseRequestLine(buf []byte, n int) (RequestLine, int, error) {
	end := IndexOf(buf, requestLineDelimiter, 0, n)
	if end == -1 {
		return RequestLine{}, 0, ErrMissingRequestLine
	}

	parts := strings.Split(string(buf[:end]), " ")
	if len(parts) != 3 {
		return RequestLine{}, 0, ErrInvalidRequestLine
	}
	if !strings.HasPrefix(parts[1], "/") {
		return RequestLine{}, 0, ErrInvalidPath
	}

	return NewRequestLine(parts[0], parts[1], parts[2]), end + len(requestLineDelimiter), nil
}

// ParseHeaders finds the header terminator at or after start within buf[:n]
// and splits the bytes in between on CRLF. It returns the raw lines and the
// offset of the terminator.
//
// The search begins right after the request line, so a request that sends no
// header at all (the blank line directly follows the request line) has no
// terminator in range and is rejected. HTTP/1.1 requires Host anyway.
func ParseHeaders(buf []byte, start, n int) ([]string, int, error) {
	end := IndexOf(buf, headersDelimiter, start, n)
	if end == -1 {
		return nil, 0, ErrMissingHeaderTerminator
	}
	return strings.Split(string(buf[start:end]), crlf), end, nil
}

// ParseRequest reads one request from r with a read limit of limit bytes and
// the default body cap.
func ParseRequest(r io.Reader, limit int) (*Request, error) {
	return Parser{Limit: limit}.Parse(r)
}

// ReadBody reads exactly Content-Length bytes from r for non-GET requests.
// It reports false when no body applies (GET, or no Content-Length header);
// r is then left untouched. Declared lengths above DefaultMaxBodyBytes are
// rejected.
func ReadBody(r io.Reader, line RequestLine, headers []string) ([]byte, bool, error) {
	return Parser{}.readBody(r, line, headers)
}

func (p Parser) readBody(r io.Reader, line RequestLine, headers []string) ([]byte, bool, error) {
	if line.method == MethodGET {
		return nil, false, nil
	}

	raw, ok := ExtractHeader(headers, headerContentLength)
	if !ok {
		return nil, false, nil
	}

	length, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || length < 0 {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidContentLength, raw)
	}
	if limit := p.maxBody(); limit >= 0 && length > limit {
		return nil, false, fmt.Errorf("%w: %d exceeds %d", ErrInvalidContentLength, length, limit)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrTruncatedBody, err)
	}
	return body, true, nil
}

// IndexOf returns the first index i in [start, max-len(target)] at which
// target occurs in array, or -1. It is a plain nested-loop scan; the explicit
// window lets the same search find both the request line and header terminators.
//
// Allocation behavior: 0 allocs/op
func IndexOf(array, target []byte, start, max int) int {
	if max > len(array) {
		max = len(array)
	}
	if start < 0 {
		start = 0
	}
outer:
	for i := start; i < max-len(target)+1; i++ {
		for j := 0; j < len(target); j++ {
			if array[i+j] != target[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
