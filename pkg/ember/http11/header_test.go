package http11

import "testing"

func TestExtractHeader(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		lookup  string
		want    string
		wantOK  bool
	}{
		{"simple", []string{"Host: example.com"}, "Host", "example.com", true},
		{"trims value", []string{"Content-Length:   42  "}, "Content-Length", "42", true},
		{"value keeps inner spaces", []string{"User-Agent: curl 8.0"}, "User-Agent", "curl 8.0", true},
		{"first wins", []string{"X-A: 1", "X-A: 2"}, "X-A", "1", true},
		{"prefix match", []string{"Content-Type-Extended: x"}, "Content-Type", "x", true},
		{"no space yields empty value", []string{"X-Tight:value"}, "X-Tight", "", true},
		{"neither space nor colon", []string{"Weird"}, "Weird", "", true},
		{"case sensitive", []string{"host: a"}, "Host", "", false},
		{"missing", []string{"Host: a"}, "Accept", "", false},
		{"empty list", nil, "Host", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractHeader(tt.headers, tt.lookup)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractHeader(%q, %q) = %q, %v; want %q, %v", tt.headers, tt.lookup, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
