package static

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/ember/pkg/ember/http11"
)

// bufferSink is an in-memory ResponseSink.
type bufferSink struct {
	bytes.Buffer
}

func (*bufferSink) Flush() error { return nil }

func newTestSite(t *testing.T, files map[string]string) *Site {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	site, err := NewSite(dir, 16)
	if err != nil {
		t.Fatalf("NewSite failed: %v", err)
	}
	site.now = func() time.Time { return time.Date(2026, 10, 18, 9, 15, 2, 500000000, time.Local) }
	site.newID = func() string { return "00000000-0000-4000-8000-000000000000" }
	return site
}

func request(t *testing.T, target string) *http11.Request {
	t.Helper()
	req, err := http11.ParseRequest(strings.NewReader("GET "+target+" HTTP/1.1\r\nHost: a\r\n\r\n"), http11.DefaultLimit)
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	return req
}

func TestFileHandler(t *testing.T) {
	site := newTestSite(t, map[string]string{
		"index.html": "<h1>hi</h1>",
		"styles.css": "body{}",
		"js/app.js":  "console.log(1)",
		"blob.noext": "%PDF-1.4 fake",
	})
	h := site.File()

	tests := []struct {
		target      string
		contentType string
		body        string
	}{
		{"/index.html", "Content-Type: text/html", "<h1>hi</h1>"},
		{"/index.html?v=2", "Content-Type: text/html", "<h1>hi</h1>"},
		{"/styles.css", "Content-Type: text/css", "body{}"},
		{"/js/app.js", "javascript", "console.log(1)"},
		{"/blob.noext", "Content-Type: application/pdf", "%PDF-1.4 fake"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var sink bufferSink
			if err := h.ServeRaw(request(t, tt.target), &sink); err != nil {
				t.Fatalf("ServeRaw failed: %v", err)
			}
			out := sink.String()
			if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n") {
				t.Errorf("status line: %q", out)
			}
			if !strings.Contains(out, tt.contentType) {
				t.Errorf("missing Content-Type %q in %q", tt.contentType, out)
			}
			if !strings.Contains(out, "Connection: close\r\n") {
				t.Errorf("missing Connection: close in %q", out)
			}
			if !strings.HasSuffix(out, "\r\n\r\n"+tt.body) {
				t.Errorf("body mismatch in %q", out)
			}
		})
	}
}

func TestFileHandlerMissing(t *testing.T) {
	site := newTestSite(t, map[string]string{"index.html": "x"})
	var sink bufferSink

	err := site.File().ServeRaw(request(t, "/gone.html"), &sink)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
	if !strings.HasPrefix(sink.String(), "HTTP/1.1 404 Not Found") {
		t.Errorf("response = %q", sink.String())
	}
}

func TestFileHandlerTraversal(t *testing.T) {
	site := newTestSite(t, map[string]string{"index.html": "x"})

	for _, p := range []string{"/../secret", "/a/../../secret", "/..%2f"} {
		full, err := site.resolve(p)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(full, site.Root()) {
			t.Errorf("resolve(%q) = %q escapes %q", p, full, site.Root())
		}
	}
}

func TestFileAt(t *testing.T) {
	site := newTestSite(t, map[string]string{"index.html": "home"})
	var sink bufferSink
	if err := site.FileAt("/index.html").ServeRaw(request(t, "/"), &sink); err != nil {
		t.Fatalf("ServeRaw failed: %v", err)
	}
	if !strings.HasSuffix(sink.String(), "home") {
		t.Errorf("response = %q", sink.String())
	}
}

func TestTemplateHandler(t *testing.T) {
	site := newTestSite(t, map[string]string{
		"classic.html": "<style>p { color: red }</style><p>{time}</p><i>{request_id}</i><b>{other}</b>",
	})
	var sink bufferSink
	if err := site.Template("/classic.html").ServeRaw(request(t, "/classic.html"), &sink); err != nil {
		t.Fatalf("ServeRaw failed: %v", err)
	}

	wantBody := "<style>p { color: red }</style><p>2026-10-18T09:15:02.5</p>" +
		"<i>00000000-0000-4000-8000-000000000000</i><b>{other}</b>"
	out := sink.String()
	if !strings.HasSuffix(out, "\r\n\r\n"+wantBody) {
		t.Errorf("body = %q, want %q", out, wantBody)
	}
	if !strings.Contains(out, "Content-Length: "+strconv.Itoa(len(wantBody))+"\r\n") {
		t.Errorf("Content-Length does not match rendered body (%d bytes): %q", len(wantBody), out)
	}
}

func TestTemplateHandlerUnbalancedBrace(t *testing.T) {
	site := newTestSite(t, map[string]string{"t.html": "<p>{time}</p> if (a) {"})
	var sink bufferSink
	if err := site.Template("/t.html").ServeRaw(request(t, "/t.html"), &sink); err != nil {
		t.Fatalf("ServeRaw failed: %v", err)
	}
	if !strings.HasSuffix(sink.String(), "<p>2026-10-18T09:15:02.5</p> if (a) {") {
		t.Errorf("response = %q", sink.String())
	}
}

func TestNewSiteErrors(t *testing.T) {
	if _, err := NewSite(filepath.Join(t.TempDir(), "missing"), 1); err == nil {
		t.Error("NewSite on missing dir should fail")
	}
	file := filepath.Join(t.TempDir(), "f")
	os.WriteFile(file, nil, 0o644)
	if _, err := NewSite(file, 1); err == nil {
		t.Error("NewSite on a file should fail")
	}
}
