package phone

import "strings"

// MaxDigits is the number of significant digits the display format renders.
const MaxDigits = 10

// Digits strips everything that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format re-renders a partially typed number as (XXX, (XXX) XXX or
// (XXX) XXX-XXXX depending on how many digits have been entered so far.
// Digits beyond the tenth are dropped.
func Format(raw string) string {
	d := Digits(raw)
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 3:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	}
	if len(d) > MaxDigits {
		d = d[:MaxDigits]
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
