package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps, HTML datetime-local values and
// plain dates. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

// ParsePrice parses a non-negative price. An empty string is a free event.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price must not be negative")
	}
	return price, nil
}
