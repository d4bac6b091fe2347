package entities

import "sort"

// Canonical reference tables for enumerated account fields. Lookups are
// exact (case-sensitive, ISO codes upper/lower as standardized).

var currencies = map[string]struct{}{
	"AUD": {}, "BRL": {}, "CAD": {}, "CHF": {}, "CNY": {}, "DKK": {},
	"EUR": {}, "GBP": {}, "HKD": {}, "INR": {}, "JPY": {}, "KRW": {},
	"MXN": {}, "NOK": {}, "NZD": {}, "PLN": {}, "SEK": {}, "SGD": {},
	"USD": {}, "ZAR": {},
}

var countries = map[string]struct{}{
	"AT": {}, "AU": {}, "BE": {}, "BR": {}, "CA": {}, "CH": {}, "CN": {},
	"DE": {}, "DK": {}, "ES": {}, "FI": {}, "FR": {}, "GB": {}, "HK": {},
	"IE": {}, "IN": {}, "IT": {}, "JP": {}, "KR": {}, "MX": {}, "NL": {},
	"NO": {}, "NZ": {}, "PL": {}, "PT": {}, "SE": {}, "SG": {}, "US": {},
	"ZA": {},
}

var languages = map[string]struct{}{
	"da": {}, "de": {}, "en": {}, "es": {}, "fi": {}, "fr": {}, "it": {},
	"ja": {}, "ko": {}, "nl": {}, "no": {}, "pl": {}, "pt": {}, "sv": {},
	"zh": {},
}

var timezones = map[string]struct{}{
	"UTC":                  {},
	"Europe/Amsterdam":     {},
	"Europe/Berlin":        {},
	"Europe/Copenhagen":    {},
	"Europe/Dublin":        {},
	"Europe/Lisbon":        {},
	"Europe/London":        {},
	"Europe/Madrid":        {},
	"Europe/Oslo":          {},
	"Europe/Paris":         {},
	"Europe/Rome":          {},
	"Europe/Stockholm":     {},
	"Europe/Warsaw":        {},
	"America/Chicago":      {},
	"America/Denver":       {},
	"America/Los_Angeles":  {},
	"America/Mexico_City":  {},
	"America/New_York":     {},
	"America/Sao_Paulo":    {},
	"America/Toronto":      {},
	"Asia/Hong_Kong":       {},
	"Asia/Kolkata":         {},
	"Asia/Seoul":           {},
	"Asia/Shanghai":        {},
	"Asia/Singapore":       {},
	"Asia/Tokyo":           {},
	"Australia/Melbourne":  {},
	"Australia/Sydney":     {},
	"Pacific/Auckland":     {},
	"Africa/Johannesburg":  {},
}

// ValidCurrency reports whether code is a supported ISO 4217 currency.
func ValidCurrency(code string) bool { _, ok := currencies[code]; return ok }

// ValidCountry reports whether code is a supported ISO 3166-1 alpha-2 country.
func ValidCountry(code string) bool { _, ok := countries[code]; return ok }

// ValidLanguage reports whether code is a supported ISO 639-1 language.
func ValidLanguage(code string) bool { _, ok := languages[code]; return ok }

// ValidTimezone reports whether name is a supported IANA timezone.
func ValidTimezone(name string) bool { _, ok := timezones[name]; return ok }

// Currencies returns the accepted currency codes, sorted.
func Currencies() []string { return sortedKeys(currencies) }

// Countries returns the accepted country codes, sorted.
func Countries() []string { return sortedKeys(countries) }

// Languages returns the accepted language codes, sorted.
func Languages() []string { return sortedKeys(languages) }

// Timezones returns the accepted timezone names, sorted.
func Timezones() []string { return sortedKeys(timezones) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
