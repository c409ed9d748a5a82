package sanitizer

import "strings"

// NormalizePhone strips spacing and separator characters, keeping a single
// leading plus. It does not validate; the e164 validator tag does that.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range phone {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator, drop
		default:
			// Unexpected rune: leave the input alone so validation rejects
			// it with the original value intact.
			return phone
		}
	}
	return b.String()
}
