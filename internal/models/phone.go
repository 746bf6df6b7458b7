package models

import "strings"

// Phone is a normalized Brazilian phone number in +55DDNNNNNNNNN form.
// It is the natural key for users and the payer reference on payments.
type Phone string

// NewPhone normalizes and validates a phone number. Accepts optional +55 /
// 55 country prefix, spaces, dashes and parentheses; the national part must
// be a 2-digit area code followed by an 8 or 9 digit subscriber number.
func NewPhone(raw string) (Phone, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	cleaned = strings.TrimPrefix(cleaned, "+")
	if cleaned == "" {
		return "", NewValidationError("phone", "phone number is required")
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", NewValidationError("phone", "phone number must contain only digits")
		}
	}

	// National numbers are 10 (landline) or 11 (mobile) digits; a leading 55
	// country code is stripped when the remainder is still a valid length.
	if strings.HasPrefix(cleaned, "55") && len(cleaned) >= 12 {
		cleaned = cleaned[2:]
	}
	if len(cleaned) != 10 && len(cleaned) != 11 {
		return "", NewValidationError("phone", "phone number must have 10 or 11 digits")
	}
	if cleaned[0] == '0' {
		return "", NewValidationError("phone", "area code cannot start with zero")
	}

	return Phone("+55" + cleaned), nil
}

func (p Phone) String() string { return string(p) }

// National returns the number without the +55 prefix.
func (p Phone) National() string {
	return strings.TrimPrefix(string(p), "+55")
}
