package types

import "github.com/shopspring/decimal"

var koboPerNaira = decimal.NewFromInt(100)

// FormatNaira renders an integer kobo amount as a naira string with two
// decimal places, e.g. 150000 becomes "1500.00".
func FormatNaira(kobo int64) string {
	return decimal.NewFromInt(kobo).DivRound(koboPerNaira, 2).StringFixed(2)
}
