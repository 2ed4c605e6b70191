// Package country holds the canonical MaxMind legacy country-code table
// and the handful of alias rules the City and Country editions depend on.
package country

import "strings"

// Codes is the canonical, index-stable country code table used by the
// legacy GeoIP Country and City rev1 editions. Index 0 is the "unknown"
// entry; indices are part of the on-disk format and must never be
// reordered or renumbered.
var Codes = []string{
	"", "AP", "EU", "AD", "AE", "AF", "AG", "AI", "AL", "AM",
	"AN", "AO", "AQ", "AR", "AS", "AT", "AU", "AW", "AZ", "BA",
	"BB", "BD", "BE", "BF", "BG", "BH", "BI", "BJ", "BM", "BN",
	"BO", "BR", "BS", "BT", "BV", "BW", "BY", "BZ", "CA", "CC",
	"CD", "CF", "CG", "CH", "CI", "CK", "CL", "CM", "CN", "CO",
	"CR", "CU", "CV", "CX", "CY", "CZ", "DE", "DJ", "DK", "DM",
	"DO", "DZ", "EC", "EE", "EG", "EH", "ER", "ES", "ET", "FI",
	"FJ", "FK", "FM", "FO", "FR", "FX", "GA", "GB", "GD", "GE",
	"GF", "GH", "GI", "GL", "GM", "GN", "GP", "GQ", "GR", "GS",
	"GT", "GU", "GW", "GY", "HK", "HM", "HN", "HR", "HT", "HU",
	"ID", "IE", "IL", "IN", "IO", "IQ", "IR", "IS", "IT", "JM",
	"JO", "JP", "KE", "KG", "KH", "KI", "KM", "KN", "KP", "KR",
	"KW", "KY", "KZ", "LA", "LB", "LC", "LI", "LK", "LR", "LS",
	"LT", "LU", "LV", "LY", "MA", "MC", "MD", "MG", "MH", "MK",
	"ML", "MM", "MN", "MO", "MP", "MQ", "MR", "MS", "MT", "MU",
	"MV", "MW", "MX", "MY", "MZ", "NA", "NC", "NE", "NF", "NG",
	"NI", "NL", "NO", "NP", "NR", "NU", "NZ", "OM", "PA", "PE",
	"PF", "PG", "PH", "PK", "PL", "PM", "PN", "PR", "PS", "PT",
	"PW", "PY", "QA", "RE", "RO", "RU", "RW", "SA", "SB", "SC",
	"SD", "SE", "SG", "SH", "SI", "SJ", "SK", "SL", "SM", "SN",
	"SO", "SR", "ST", "SV", "SY", "SZ", "TC", "TD", "TF", "TG",
	"TH", "TJ", "TK", "TM", "TN", "TO", "TL", "TR", "TT", "TV",
	"TW", "TZ", "UA", "UG", "UM", "US", "UY", "UZ", "VA", "VC",
	"VE", "VG", "VI", "VN", "VU", "WF", "WS", "YE", "YT", "RS",
	"ZA", "ZM", "ME", "ZW", "A1", "A2", "O1", "AX", "GG", "IM",
	"JE", "BL", "MF",
}

// indexByCode is built once from Codes plus the legacy aliases the
// original csv2dat.py tool hard-codes in cc_idx: cw/uk/sx never had
// their own slot in the country table and must resolve to the code
// that historically stood in for them.
var indexByCode = buildIndex()

func buildIndex() map[string]int {
	m := make(map[string]int, len(Codes)+4)
	for i, code := range Codes {
		m[strings.ToLower(code)] = i
	}
	m[""] = m[""] // unknown already maps to index 0
	m["--"] = m[""]
	m["cw"] = m["an"] // Netherlands Antilles / Curacao
	m["uk"] = m["gb"] // UK / Great Britain
	m["sx"] = m["fx"] // St. Martin (French side confusion in the legacy table)
	return m
}

// Index resolves a country code (any case) to its table index. The
// second return value is false when the code is unrecognized, in which
// case the caller should warn and fall back to index 0 per spec.
func Index(code string) (int, bool) {
	i, ok := indexByCode[strings.ToLower(code)]
	return i, ok
}

// MustIndex resolves a code like Index, but returns the unknown index
// (0) instead of a bool when the code is not recognized.
func MustIndex(code string) int {
	if i, ok := Index(code); ok {
		return i
	}
	return 0
}
