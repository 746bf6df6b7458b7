package models

import "strings"

// ContactInfo groups the reachable endpoints of a user beyond the phone
// natural key.
type ContactInfo struct {
	Email    string
	AltPhone Phone
}

// NewContactInfo validates the email shape and the optional alternate phone.
func NewContactInfo(email, altPhone string) (ContactInfo, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email != "" {
		at := strings.Index(email, "@")
		if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
			return ContactInfo{}, NewValidationError("email", "malformed email address")
		}
	}

	var alt Phone
	if strings.TrimSpace(altPhone) != "" {
		p, err := NewPhone(altPhone)
		if err != nil {
			return ContactInfo{}, NewValidationError("alt_phone", "malformed alternate phone")
		}
		alt = p
	}

	return ContactInfo{Email: email, AltPhone: alt}, nil
}
