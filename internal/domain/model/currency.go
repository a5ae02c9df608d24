package model

import "strings"

type Currency string

// EUR is the only base currency the ECB publishes reference rates against.
const EUR Currency = "EUR"

// IsValid reports whether c looks like an ISO 4217 alphabetic code.
func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Normalize upper-cases and trims user input such as query parameters.
func (c Currency) Normalize() Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(string(c))))
}

func (c Currency) String() string {
	return string(c)
}
