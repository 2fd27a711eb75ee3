// Package fips maps between state names, USPS abbreviations, and 2-digit
// FIPS codes.
package fips

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Codes maps state abbreviation to 2-digit FIPS code for all 50 states + DC.
var Codes = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06",
	"CO": "08", "CT": "09", "DE": "10", "DC": "11", "FL": "12",
	"GA": "13", "HI": "15", "ID": "16", "IL": "17", "IN": "18",
	"IA": "19", "KS": "20", "KY": "21", "LA": "22", "ME": "23",
	"MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38",
	"OH": "39", "OK": "40", "OR": "41", "PA": "42", "RI": "44",
	"SC": "45", "SD": "46", "TN": "47", "TX": "48", "UT": "49",
	"VT": "50", "VA": "51", "WA": "53", "WV": "54", "WI": "55",
	"WY": "56",
}

// Names maps 2-digit FIPS code to the state's full name.
var Names = map[string]string{
	"01": "Alabama", "02": "Alaska", "04": "Arizona", "05": "Arkansas",
	"06": "California", "08": "Colorado", "09": "Connecticut",
	"10": "Delaware", "11": "District of Columbia", "12": "Florida",
	"13": "Georgia", "15": "Hawaii", "16": "Idaho", "17": "Illinois",
	"18": "Indiana", "19": "Iowa", "20": "Kansas", "21": "Kentucky",
	"22": "Louisiana", "23": "Maine", "24": "Maryland", "25": "Massachusetts",
	"26": "Michigan", "27": "Minnesota", "28": "Mississippi", "29": "Missouri",
	"30": "Montana", "31": "Nebraska", "32": "Nevada", "33": "New Hampshire",
	"34": "New Jersey", "35": "New Mexico", "36": "New York",
	"37": "North Carolina", "38": "North Dakota", "39": "Ohio",
	"40": "Oklahoma", "41": "Oregon", "42": "Pennsylvania",
	"44": "Rhode Island", "45": "South Carolina", "46": "South Dakota",
	"47": "Tennessee", "48": "Texas", "49": "Utah", "50": "Vermont",
	"51": "Virginia", "53": "Washington", "54": "West Virginia",
	"55": "Wisconsin", "56": "Wyoming",
}

var (
	abbrByFIPS map[string]string
	fipsByName map[string]string
)

func init() {
	abbrByFIPS = make(map[string]string, len(Codes))
	for abbr, code := range Codes {
		abbrByFIPS[code] = abbr
	}
	fipsByName = make(map[string]string, len(Names))
	for code, name := range Names {
		fipsByName[strings.ToUpper(name)] = code
	}
}

// Normalize resolves a state given as full name, USPS abbreviation, or FIPS
// code to its 2-digit FIPS code.
func Normalize(state string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(state))
	if s == "" {
		return "", eris.New("fips: empty state")
	}
	if _, ok := abbrByFIPS[s]; ok {
		return s, nil
	}
	if code, ok := Codes[s]; ok {
		return code, nil
	}
	if code, ok := fipsByName[s]; ok {
		return code, nil
	}
	return "", eris.Errorf("fips: unknown state %q", state)
}

// Abbr returns the USPS abbreviation for a FIPS code.
func Abbr(code string) (string, bool) {
	abbr, ok := abbrByFIPS[code]
	return abbr, ok
}

// Name returns the full state name for a FIPS code, or the code itself if
// unknown.
func Name(code string) string {
	if name, ok := Names[code]; ok {
		return name
	}
	return code
}

// All returns a sorted list of all state FIPS codes.
func All() []string {
	codes := make([]string, 0, len(Codes))
	for _, code := range Codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
