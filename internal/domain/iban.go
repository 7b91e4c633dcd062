package domain

import (
	"fmt"
	"strings"
)

// NormalizeIBAN strips spaces and upper-cases the value.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
}

// ValidateIBAN checks length, character set and the ISO 13616 mod-97 checksum.
func ValidateIBAN(iban string) error {
	s := NormalizeIBAN(iban)
	if len(s) < 15 || len(s) > 34 {
		return fmt.Errorf("%w: length %d", ErrInvalidIBAN, len(s))
	}
	for i, r := range s {
		switch {
		case i < 2 && (r < 'A' || r > 'Z'):
			return fmt.Errorf("%w: country code", ErrInvalidIBAN)
		case i >= 2 && i < 4 && (r < '0' || r > '9'):
			return fmt.Errorf("%w: check digits", ErrInvalidIBAN)
		case (r < '0' || r > '9') && (r < 'A' || r > 'Z'):
			return fmt.Errorf("%w: character %q", ErrInvalidIBAN, r)
		}
	}

	rearranged := s[4:] + s[:4]
	remainder := 0
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			v := int(r-'A') + 10
			remainder = (remainder*100 + v) % 97
			continue
		}
		remainder = (remainder*10 + int(r-'0')) % 97
	}
	if remainder != 1 {
		return fmt.Errorf("%w: checksum", ErrInvalidIBAN)
	}
	return nil
}
