package static

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasttemplate"

	"github.com/yourusername/ember/pkg/ember/http11"
)

// LocalTimeLayout renders local date-time without zone, trailing zero
// fractions trimmed (2026-10-18T09:15:02.5).
const LocalTimeLayout = "2006-01-02T15:04:05.999999999"

// File returns a handler serving the file named by each request's path
// (query string excluded) relative to the site root.
//
// Response: 200 with Content-Type, Content-Length and Connection: close.
// A missing or unreadable file gets the fixed 404 and an error for the log.
func (s *Site) File() http11.Handler {
	return http11.HandlerFunc(func(req *http11.Request, w http11.ResponseSink) error {
		return s.serveFile(req.RequestLine().RoutePath(), w)
	})
}

// FileAt returns a handler that always serves the file at urlPath.
func (s *Site) FileAt(urlPath string) http11.Handler {
	return http11.HandlerFunc(func(req *http11.Request, w http11.ResponseSink) error {
		return s.serveFile(urlPath, w)
	})
}

func (s *Site) serveFile(urlPath string, w io.Writer) error {
	full, content, err := s.load(urlPath)
	if err != nil {
		http11.WriteNotFound(w)
		return err
	}
	return http11.WriteResponse(w, 200, contentType(full, content), content)
}

// Template returns a handler serving the file at urlPath with tags replaced:
//
//	{time}        current local date-time in LocalTimeLayout
//	{request_id}  a fresh random UUID
//
// Any other {text} is written back unchanged, so CSS and scripts survive.
func (s *Site) Template(urlPath string) http11.Handler {
	return http11.HandlerFunc(func(req *http11.Request, w http11.ResponseSink) error {
		full, content, err := s.load(urlPath)
		if err != nil {
			http11.WriteNotFound(w)
			return err
		}

		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)
		s.render(buf, content)

		return http11.WriteResponse(w, 200, contentType(full, content), buf.B)
	})
}

// render writes content to buf with known tags expanded. fasttemplate needs
// every start tag closed; a lone '{' falls back to plain {time} replacement.
func (s *Site) render(buf *bytebufferpool.ByteBuffer, content []byte) {
	now := s.now()
	_, err := fasttemplate.ExecuteFunc(string(content), "{", "}", buf, func(w io.Writer, tag string) (int, error) {
		switch tag {
		case "time":
			return io.WriteString(w, now.Format(LocalTimeLayout))
		case "request_id":
			return io.WriteString(w, s.newID())
		default:
			return io.WriteString(w, "{"+tag+"}")
		}
	})
	if err != nil {
		buf.Reset()
		buf.WriteString(strings.ReplaceAll(string(content), "{time}", now.Format(LocalTimeLayout)))
	}
}

func (s *Site) load(urlPath string) (string, []byte, error) {
	full, err := s.resolve(urlPath)
	if err != nil {
		return "", nil, err
	}
	content, err := s.cache.Load(full)
	if err != nil {
		return "", nil, fmt.Errorf("static: %w", err)
	}
	return full, content, nil
}

// contentType picks a media type from the file extension and falls back to
// sniffing the content.
func contentType(name string, content []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return mimetype.Detect(content).String()
}
