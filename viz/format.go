package viz

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// calculateOptimalPrecision returns how many fraction digits are needed to
// tell ticks step apart.
func calculateOptimalPrecision(step float64) int {
	if !(step > 0) || math.IsInf(step, 0) {
		return 2
	}
	precision := int(math.Max(0, -math.Floor(math.Log10(step))))
	if precision > 8 {
		return 8
	}
	return precision
}

// newValueFormatter formats values for locale with at most precision
// fraction digits. An unknown locale falls back to English.
func newValueFormatter(locale string, precision int) func(float64) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return func(v float64) string {
		return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(precision)))
	}
}
