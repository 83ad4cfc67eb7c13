package http11

import "strings"

// ExtractHeader scans raw header lines for the first one starting with name and
// returns the text after its first space, trimmed. A line without any space
// yields "", so "Content-Length:5" carries no usable length.
//
// This is a prefix match over the opaque line and therefore also matches longer
// names sharing the prefix ("Content-Type" finds "Content-Type-Extended: x").
func ExtractHeader(headers []string, name string) (string, bool) {
	for _, line := range headers {
		if !strings.HasPrefix(line, name) {
			continue
		}
		if i := strings.IndexByte(line, ' '); i != -1 {
			return strings.TrimSpace(line[i:]), true
		}
		return "", true
	}
	return "", false
}
