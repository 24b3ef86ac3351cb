// Package normalize canonicalizes the heterogeneous phone and
// timestamp text found in practice-management exports. Failures are
// permissive: bad input normalizes to empty/absent instead of erroring,
// which drives the record toward an eligibility skip downstream.
package normalize

import "strings"

// Phone canonicalizes raw phone text into a US E.164 string. It strips
// every non-digit, then accepts exactly 10 digits (prefixed +1) or 11
// digits starting with 1 (prefixed +). Anything else returns empty.
func Phone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	}
	return ""
}
