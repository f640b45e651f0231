package money

import "strings"

// minorUnits lists ISO 4217 currencies whose minor unit is not two digits.
var minorUnits = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "UYI": 0, "VND": 0, "VUV": 0,
	"XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"CLF": 4, "UYW": 4,
}

// CurrencyDecimals returns the number of fractional digits of code.
// Currencies with a two-digit minor unit, and codes it does not know, get
// fallback.
func CurrencyDecimals(code string, fallback int32) int32 {
	if d, ok := minorUnits[strings.ToUpper(code)]; ok {
		return d
	}
	return fallback
}
