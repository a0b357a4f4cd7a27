package types

import "strings"

// DefaultCurrency is used when neither the request nor the configuration names one
const DefaultCurrency = "inr"

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"aud": "AU$",
	"cad": "CA$",
	"chf": "CHF",
	"sek": "kr",
	"nzd": "NZ$",
	"hkd": "HK$",
	"sgd": "S$",
	"jpy": "¥",
	"cny": "¥",
	"inr": "₹",
	"brl": "R$",
	"mxn": "MX$",
	"krw": "₩",
	"zar": "R",
	"myr": "RM",
	"aed": "AED",
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[strings.ToLower(code)]; ok {
		return symbol
	}
	return strings.ToUpper(code)
}

// IsValidCurrency reports whether the code has a known symbol
func IsValidCurrency(code string) bool {
	_, ok := CURRENCY_CODES_SYMBOLS[strings.ToLower(code)]
	return ok
}
