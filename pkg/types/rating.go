package types

import (
	"math"
	"strconv"
)

// OneDecimal is a float rendered with exactly one fractional digit.
type OneDecimal float64

// MarshalJSON implements json.Marshaler.
func (d OneDecimal) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', 1, 64)), nil
}

// RatingPtr converts a nullable stored rating to its presentation form.
func RatingPtr(v *float64) *OneDecimal {
	if v == nil {
		return nil
	}
	d := OneDecimal(*v)
	return &d
}
