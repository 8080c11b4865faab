package leads

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	budgetNoise  = strings.NewReplacer("$", "", ",", "", "+", "")
	budgetDigits = regexp.MustCompile(`[0-9]+`)
)

// ParseBudget extracts the numeric budget from a free-text range such as
// "$1,000+". Only the first run of digits counts, so "1000-2000" yields 1000.
// Input without digits yields an invalid (null) value.
func ParseBudget(rango string) decimal.NullDecimal {
	cleaned := strings.TrimSpace(budgetNoise.Replace(rango))
	match := budgetDigits.FindString(cleaned)
	if match == "" {
		return decimal.NullDecimal{}
	}

	value, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(value)
}

func parseBudgetPtr(rango *string) decimal.NullDecimal {
	if rango == nil {
		return decimal.NullDecimal{}
	}
	return ParseBudget(*rango)
}
