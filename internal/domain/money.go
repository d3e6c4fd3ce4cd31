package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents is a monetary amount stored as an integer number of centavos.
// It marshals to and from JSON as a decimal number with two fraction
// digits (2990 <-> 29.90), so values survive round trips without
// floating point drift.
type Cents int64

// MarshalJSON renders the amount as a plain decimal number.
func (c Cents) MarshalJSON() ([]byte, error) {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return []byte(fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)), nil
}

// UnmarshalJSON accepts a JSON number (or numeric string) with at most two
// fraction digits.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}

	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCents converts a decimal string such as "29.90" into centavos.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse amount: empty value")
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, fmt.Errorf("parse amount %q: more than two fraction digits", s)
	}

	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return Cents(total), nil
}

// String renders the amount as a decimal, matching the JSON form.
func (c Cents) String() string {
	b, _ := c.MarshalJSON()
	return string(b)
}
