package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	// Vietnamese mobile numbers: 0xxxxxxxxx or +84xxxxxxxxx
	rePhone = regexp.MustCompile(`^(0|\+84)[0-9]{9,10}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSKU   = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,31}$`)
	reCode  = regexp.MustCompile(`^[A-Z0-9]{2,32}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	return s, rePhone.MatchString(s)
}

// ID validates a simple resource identifier (uuid or slug style).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// SKU validates an admin-entered SKU after uppercasing.
func SKU(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reSKU.MatchString(s)
}

// CouponCode canonicalizes a coupon code: trimmed, uppercased.
func CouponCode(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reCode.MatchString(s)
}

// Qty parses a quantity, clamping to [1, 50] on any bad input.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

// City trims and bounds a destination city name.
func City(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Rating bounds a review rating to 1..5.
func Rating(n int) bool { return n >= 1 && n <= 5 }

// Password enforces the login password policy.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
			hasLetter = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
