package http11

import (
	"io"
	"strconv"
)

// WriteBadRequest writes the fixed 400 response.
func WriteBadRequest(w io.Writer) error {
	_, err := w.Write(responseBadRequest)
	return err
}

// WriteNotFound writes the fixed 404 response.
func WriteNotFound(w io.Writer) error {
	_, err := w.Write(responseNotFound)
	return err
}

// WriteInternalError writes the fixed 500 response.
func WriteInternalError(w io.Writer) error {
	_, err := w.Write(responseInternalError)
	return err
}

// WriteResponse writes a complete response with a Content-Length matching
// body and Connection: close. An empty contentType omits the header.
// Handlers that do not want to format the head themselves use it.
//
// Allocation behavior: 1 alloc/op for the head
func WriteResponse(w io.Writer, code int, contentType string, body []byte) error {
	head := make([]byte, 0, 128)
	head = append(head, "HTTP/1.1 "...)
	head = strconv.AppendInt(head, int64(code), 10)
	head = append(head, ' ')
	head = append(head, StatusText(code)...)
	head = append(head, crlf...)
	if contentType != "" {
		head = append(head, "Content-Type: "...)
		head = append(head, contentType...)
		head = append(head, crlf...)
	}
	head = append(head, "Content-Length: "...)
	head = strconv.AppendInt(head, int64(len(body)), 10)
	head = append(head, crlf...)
	head = append(head, "Connection: close\r\n\r\n"...)

	if _, err := w.Write(head); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	_, err := w.Write(body)
	return err
}

// StatusText returns the reason phrase for the status codes a one-shot server
// produces, or "Unknown" for anything else.
func StatusText(code int) string {
	switch code {
	// 2xx Success
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 202:
		return "Accepted"
	case 204:
		return "No Content"

	// 3xx Redirection
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 303:
		return "See Other"
	case 304:
		return "Not Modified"
	case 307:
		return "Temporary Redirect"
	case 308:
		return "Permanent Redirect"

	// 4xx Client Error
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 411:
		return "Length Required"
	case 413:
		return "Payload Too Large"
	case 414:
		return "URI Too Long"
	case 415:
		return "Unsupported Media Type"
	case 429:
		return "Too Many Requests"
	case 431:
		return "Request Header Fields Too Large"

	// 5xx Server Error
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	case 504:
		return "Gateway Timeout"
	case 505:
		return "HTTP Version Not Supported"

	default:
		return "Unknown"
	}
}
