package models

import (
	"fmt"
	"strings"
)

// TaxIDKind distinguishes the two accepted tax id formats.
type TaxIDKind string

const (
	TaxIDCPF  TaxIDKind = "CPF"  // individuals, 11 digits
	TaxIDCNPJ TaxIDKind = "CNPJ" // companies, 14 digits
)

// TaxID holds a validated CPF or CNPJ as bare digits.
type TaxID string

// NewTaxID strips formatting punctuation and validates length and check
// digits. 11 digits are treated as CPF, 14 as CNPJ.
func NewTaxID(raw string) (TaxID, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		if r == '.' || r == '-' || r == '/' || r == ' ' {
			return -1
		}
		return 'x'
	}, strings.TrimSpace(raw))

	if strings.ContainsRune(digits, 'x') {
		return "", NewValidationError("tax_id", "tax id contains invalid characters")
	}

	switch len(digits) {
	case 11:
		if !validCPF(digits) {
			return "", NewValidationError("tax_id", "invalid CPF check digits")
		}
	case 14:
		if !validCNPJ(digits) {
			return "", NewValidationError("tax_id", "invalid CNPJ check digits")
		}
	default:
		return "", NewValidationError("tax_id", "tax id must have 11 (CPF) or 14 (CNPJ) digits")
	}

	return TaxID(digits), nil
}

func (t TaxID) Kind() TaxIDKind {
	if len(t) == 14 {
		return TaxIDCNPJ
	}
	return TaxIDCPF
}

func (t TaxID) String() string { return string(t) }

// Format renders the canonical punctuated form (000.000.000-00 or
// 00.000.000/0000-00).
func (t TaxID) Format() string {
	s := string(t)
	if len(s) == 14 {
		return fmt.Sprintf("%s.%s.%s/%s-%s", s[0:2], s[2:5], s[5:8], s[8:12], s[12:14])
	}
	if len(s) == 11 {
		return fmt.Sprintf("%s.%s.%s-%s", s[0:3], s[3:6], s[6:9], s[9:11])
	}
	return s
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func validCPF(s string) bool {
	if allSameDigit(s) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(s[i]-'0') * (n + 1 - i)
		}
		check := (sum * 10) % 11 % 10
		if check != int(s[n]-'0') {
			return false
		}
	}
	return true
}

func validCNPJ(s string) bool {
	if allSameDigit(s) {
		return false
	}
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for _, n := range []int{12, 13} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(s[i]-'0') * weights[len(weights)-n+i]
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if check != int(s[n]-'0') {
			return false
		}
	}
	return true
}
