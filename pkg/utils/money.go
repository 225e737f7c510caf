package utils

import "math"

// ToMinorUnits converts a decimal amount to the minor unit (kobo/cents),
// rounding half away from zero so 19.99 becomes 1999 rather than truncating
// to 1998 through float representation.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
