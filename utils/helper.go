package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Characters stripped from monetary cells before parsing. Spreadsheet exports
// mix currency symbols, thousands separators and stray whitespace freely.
var moneyNoise = strings.NewReplacer(
	",", "",
	"，", "",
	"¥", "",
	"￥", "",
	"$", "",
	"€", "",
	"£", "",
	" ", "",
	" ", "",
	"\t", "",
)

var currencyCodes = []string{"CNY", "JPY", "USD", "EUR", "RMB", "KS", "MMK"}

// ParseMoney coerces a noisy spreadsheet cell to a decimal amount.
// Unparseable or empty values resolve to zero, never an error.
func ParseMoney(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case decimal.Decimal:
		return n
	case string:
		s := moneyNoise.Replace(strings.TrimSpace(n))
		upper := strings.ToUpper(s)
		for _, code := range currencyCodes {
			upper = strings.ReplaceAll(upper, code, "")
		}
		// Replacing codes case-insensitively: redo on the original casing via the
		// uppercase survivor, which only ever contains digits, sign and dot now.
		s = strings.TrimSpace(upper)
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// ParseQuantity is ParseMoney with negatives clamped to zero; sold quantities
// are never negative in the source data, a minus sign there is a typo.
func ParseQuantity(v any) decimal.Decimal {
	d := ParseMoney(v)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}
