package textutil

import "strings"

// NormalizePhone reduces a phone number to its digits. A leading country code
// 1 is dropped when it turns an 11-digit number into a 10-digit local one.
// Input without digits normalizes to "".
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

// PhonesMatch reports whether both numbers normalize to the same non-empty value.
func PhonesMatch(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}
