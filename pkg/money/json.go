package money

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// MarshalJSON encodes the amount as a JSON number in reais, e.g. 1234.5.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number in reais, a numeric string ("1234.50")
// or a formatted currency string ("R$ 1.234,50"). null decodes to zero.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("money: invalid string amount %s: %w", data, err)
		}
		if d, err := decimal.NewFromString(s); err == nil {
			*c = FromDecimal(d)
			return nil
		}
		*c = Parse(s)
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("money: invalid amount %s: %w", data, err)
	}
	*c = FromDecimal(d)
	return nil
}
