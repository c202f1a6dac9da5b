// Package geo normalizes postal addresses and answers great-circle distance
// questions over postal code centroids.
package geo

import (
	"strings"
	"unicode"
)

// countryAliases maps ISO alpha-3 codes and common English names to alpha-2
var countryAliases = map[string]string{
	"USA":            "US",
	"UNITED STATES":  "US",
	"CAN":            "CA",
	"CANADA":         "CA",
	"MEX":            "MX",
	"MEXICO":         "MX",
	"GBR":            "GB",
	"UK":             "GB",
	"UNITED KINGDOM": "GB",
	"GREAT BRITAIN":  "GB",
	"DEU":            "DE",
	"GERMANY":        "DE",
	"DEUTSCHLAND":    "DE",
	"FRA":            "FR",
	"FRANCE":         "FR",
	"NLD":            "NL",
	"NETHERLANDS":    "NL",
	"BEL":            "BE",
	"BELGIUM":        "BE",
	"AUT":            "AT",
	"AUSTRIA":        "AT",
	"CHE":            "CH",
	"SWITZERLAND":    "CH",
	"ESP":            "ES",
	"SPAIN":          "ES",
	"ITA":            "IT",
	"ITALY":          "IT",
	"PRT":            "PT",
	"PORTUGAL":       "PT",
	"IRL":            "IE",
	"IRELAND":        "IE",
	"SWE":            "SE",
	"SWEDEN":         "SE",
	"NOR":            "NO",
	"NORWAY":         "NO",
	"DNK":            "DK",
	"DENMARK":        "DK",
	"FIN":            "FI",
	"FINLAND":        "FI",
	"POL":            "PL",
	"POLAND":         "PL",
	"AUS":            "AU",
	"AUSTRALIA":      "AU",
	"NZL":            "NZ",
	"NEW ZEALAND":    "NZ",
	"JPN":            "JP",
	"JAPAN":          "JP",
	"BRA":            "BR",
	"BRAZIL":         "BR",
	"IND":            "IN",
	"INDIA":          "IN",
	"ZAF":            "ZA",
	"SOUTH AFRICA":   "ZA",
}

// NormalizeCountryCode returns the upper-case ISO alpha-2 form of a country
// code or name. Unknown values are returned trimmed and upper-cased.
func NormalizeCountryCode(country string) string {
	c := strings.ToUpper(strings.Join(strings.Fields(country), " "))
	if alias, ok := countryAliases[c]; ok {
		return alias
	}
	return c
}

// NormalizePostalCode returns the canonical form of a postal code: upper-case
// without whitespace. US ZIP+4 codes are truncated to the 5 digit ZIP.
func NormalizePostalCode(country, postalCode string) string {
	code := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, postalCode)

	if NormalizeCountryCode(country) == "US" && isZipPlus4(code) {
		return code[:5]
	}
	return code
}

// isZipPlus4 matches 12345-6789 and 123456789
func isZipPlus4(code string) bool {
	switch len(code) {
	case 10:
		return allDigits(code[:5]) && code[5] == '-' && allDigits(code[6:])
	case 9:
		return allDigits(code)
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
