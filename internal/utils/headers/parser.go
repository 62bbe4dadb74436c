// Package headers parses the repeatable -H "Key: Value" flag.
package headers

import (
	"fmt"
	"net/textproto"
	"strings"
)

// Parse converts "Key: Value" strings into a map keyed by canonical header name.
// Later values for the same name replace earlier ones.
func Parse(h []string) (map[string]string, error) {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		name, value, ok := strings.Cut(hdr, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("header %q must look like 'Key: Value'", hdr)
		}
		m[textproto.CanonicalMIMEHeaderKey(name)] = strings.TrimSpace(value)
	}
	return m, nil
}

// ParseHeaders is Parse without the error; malformed entries are skipped
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		if one, err := Parse([]string{hdr}); err == nil {
			for k, v := range one {
				m[k] = v
			}
		}
	}
	return m
}
