package core

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRegexp recognizes a normalized hierarchical name: at least one
// dot-separated label followed by an alphabetic TLD of 2+ characters.
var nameRegexp = regexp.MustCompile(`^(?:[^.]+\.)+[A-Za-z]{2,}$`)

// IsValidName reports whether s matches the recognized name pattern.
// Callers normalize (lowercase) before this check; no IDN transformation
// is performed here (spec.md §4.1).
func IsValidName(s string) bool {
	return nameRegexp.MatchString(s)
}

// NormalizeName lowercases a name for use as a lookup key. This is the
// only normalization the core performs — no punycode/IDNA mapping.
func NormalizeName(s string) string {
	return strings.ToLower(s)
}

const maxLabelLength = 63

// EncodeDNSWire produces the length-prefixed DNS wire form of name:
// [len1, label1, len2, label2, ..., 0]. Fails if any label exceeds 63
// octets. Operates byte-for-byte on the input; non-ASCII labels are not
// transformed (spec.md §4.1).
func EncodeDNSWire(name string) ([]byte, error) {
	if name == "" {
		return []byte{0}, nil
	}
	labels := strings.Split(name, ".")
	var out []byte
	for _, label := range labels {
		if len(label) > maxLabelLength {
			return nil, fmt.Errorf("label %q exceeds %d octets", label, maxLabelLength)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)
	return out, nil
}
