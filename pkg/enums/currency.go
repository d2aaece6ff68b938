package enums

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code accepted by the payment gateway.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

// minor units per major unit; Razorpay amounts are always in the minor unit
var minorExponent = map[Currency]int32{
	CurrencyINR: 2,
	CurrencyUSD: 2,
}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	_, ok := minorExponent[c]
	return ok
}

// ToMinor converts a major-unit amount (rupees) into the minor unit (paise),
// rounding half away from zero.
func (c Currency) ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(minorExponent[c]).Round(0).IntPart()
}

// FromMinor is the inverse of ToMinor.
func (c Currency) FromMinor(amount int64) decimal.Decimal {
	return decimal.New(amount, -minorExponent[c])
}

// ParseCurrency accepts any casing and surrounding whitespace.
func ParseCurrency(value string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid currency %q", value)
	}
	return c, nil
}
