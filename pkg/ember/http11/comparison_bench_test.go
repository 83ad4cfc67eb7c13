package http11

import (
	"bufio"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"
)

// Comparison benchmarks against fasthttp's header parser on the same request.

const benchRequest = "GET /index.html?lang=en HTTP/1.1\r\n" +
	"Host: localhost:9999\r\n" +
	"User-Agent: Mozilla/5.0\r\n" +
	"Accept: text/html,application/xhtml+xml\r\n" +
	"Accept-Language: en-US,en;q=0.9\r\n" +
	"Connection: close\r\n" +
	"\r\n"

func BenchmarkEmberParse(b *testing.B) {
	r := strings.NewReader(benchRequest)
	b.ReportAllocs()
	b.SetBytes(int64(len(benchRequest)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset(benchRequest)
		req, err := (Parser{}).Parse(r)
		if err != nil {
			b.Fatal(err)
		}
		if _, ok := req.Header("Host"); !ok {
			b.Fatal("missing Host")
		}
	}
}

func BenchmarkFasthttpParse(b *testing.B) {
	r := strings.NewReader(benchRequest)
	br := bufio.NewReader(r)
	var h fasthttp.RequestHeader
	b.ReportAllocs()
	b.SetBytes(int64(len(benchRequest)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset(benchRequest)
		br.Reset(r)
		h.Reset()
		if err := h.Read(br); err != nil {
			b.Fatal(err)
		}
		if len(h.Host()) == 0 {
			b.Fatal("missing Host")
		}
	}
}

func BenchmarkIndexOf(b *testing.B) {
	buf := []byte(benchRequest)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if IndexOf(buf, headersDelimiter, 0, len(buf)) == -1 {
			b.Fatal("terminator not found")
		}
	}
}
