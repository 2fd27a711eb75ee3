package address

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// directionals maps spelled-out and variant forms to the single/double letter
// canonical codes used by TIGER FULLNAME fields.
var directionals = map[string]string{
	"N": "N", "S": "S", "E": "E", "W": "W",
	"NE": "NE", "NW": "NW", "SE": "SE", "SW": "SW",
	"NORTH": "N", "SOUTH": "S", "EAST": "E", "WEST": "W",
	"NORTHEAST": "NE", "NORTHWEST": "NW", "SOUTHEAST": "SE", "SOUTHWEST": "SW",
	"NO": "N", "SO": "S",
}

// directionalNames maps canonical codes back to spelled-out forms.
var directionalNames = map[string]string{
	"N": "NORTH", "S": "SOUTH", "E": "EAST", "W": "WEST",
	"NE": "NORTHEAST", "NW": "NORTHWEST", "SE": "SOUTHEAST", "SW": "SOUTHWEST",
}

// streetTypes maps street-type spellings and variants to the canonical TIGER
// abbreviation. Both the full word and its common abbreviations map to the
// same code so that "AVENUE", "AVE", and "AV" compare equal.
var streetTypes = map[string]string{
	"STREET": "ST", "ST": "ST", "STR": "ST",
	"AVENUE": "AVE", "AVE": "AVE", "AV": "AVE",
	"BOULEVARD": "BLVD", "BLVD": "BLVD", "BLV": "BLVD",
	"DRIVE": "DR", "DR": "DR", "DRV": "DR",
	"ROAD": "RD", "RD": "RD",
	"LANE": "LN", "LN": "LN",
	"COURT": "CT", "CT": "CT", "CRT": "CT",
	"PLACE": "PL", "PL": "PL",
	"WAY": "WAY",
	"CIRCLE": "CIR", "CIR": "CIR", "CRCL": "CIR",
	"TRAIL": "TRL", "TRL": "TRL", "TR": "TRL",
	"PARKWAY": "PKWY", "PKWY": "PKWY", "PKY": "PKWY",
	"HIGHWAY": "HWY", "HWY": "HWY", "HWAY": "HWY",
	"EXPRESSWAY": "EXPY", "EXPY": "EXPY", "EXP": "EXPY", "EXPW": "EXPY",
	"FREEWAY": "FWY", "FWY": "FWY", "FRWY": "FWY",
	"ALLEY": "ALY", "ALY": "ALY", "ALLY": "ALY",
	"ANNEX": "ANX", "ANX": "ANX",
	"ARCADE": "ARC", "ARC": "ARC",
	"BEACH": "BCH", "BCH": "BCH",
	"BEND": "BND", "BND": "BND",
	"BRIDGE": "BRG", "BRG": "BRG",
	"BROOK": "BRK", "BRK": "BRK",
	"BYPASS": "BYP", "BYP": "BYP",
	"CANYON": "CYN", "CYN": "CYN",
	"CAPE": "CPE", "CPE": "CPE",
	"CAUSEWAY": "CSWY", "CSWY": "CSWY",
	"CENTER": "CTR", "CTR": "CTR",
	"CLIFF": "CLF", "CLF": "CLF",
	"CLUB": "CLB", "CLB": "CLB",
	"COMMON": "CMN", "CMN": "CMN",
	"COMMONS": "CMNS", "CMNS": "CMNS",
	"CREEK": "CRK", "CRK": "CRK",
	"CRESCENT": "CRES", "CRES": "CRES",
	"CREST": "CRST", "CRST": "CRST",
	"CROSSING": "XING", "XING": "XING",
	"DALE": "DL", "DL": "DL",
	"ESTATE": "EST", "EST": "EST",
	"ESTATES": "ESTS", "ESTS": "ESTS",
	"FALLS": "FLS", "FLS": "FLS",
	"FERRY": "FRY", "FRY": "FRY",
	"FIELD": "FLD", "FLD": "FLD",
	"FIELDS": "FLDS", "FLDS": "FLDS",
	"FLAT": "FLT", "FLT": "FLT",
	"FORD": "FRD", "FRD": "FRD",
	"FOREST": "FRST", "FRST": "FRST",
	"FORK": "FRK", "FRK": "FRK",
	"FORT": "FT", "FT": "FT",
	"GARDEN": "GDN", "GDN": "GDN",
	"GARDENS": "GDNS", "GDNS": "GDNS",
	"GATEWAY": "GTWY", "GTWY": "GTWY",
	"GLEN": "GLN", "GLN": "GLN",
	"GREEN": "GRN", "GRN": "GRN",
	"GROVE": "GRV", "GRV": "GRV",
	"HARBOR": "HBR", "HBR": "HBR",
	"HAVEN": "HVN", "HVN": "HVN",
	"HEIGHTS": "HTS", "HTS": "HTS",
	"HILL": "HL", "HL": "HL",
	"HILLS": "HLS", "HLS": "HLS",
	"HOLLOW": "HOLW", "HOLW": "HOLW",
	"ISLAND": "IS", "IS": "IS",
	"JUNCTION": "JCT", "JCT": "JCT",
	"KNOLL": "KNL", "KNL": "KNL",
	"LAKE": "LK", "LK": "LK",
	"LANDING": "LNDG", "LNDG": "LNDG",
	"LODGE": "LDG", "LDG": "LDG",
	"LOOP": "LOOP",
	"MALL": "MALL",
	"MANOR": "MNR", "MNR": "MNR",
	"MEADOWS": "MDWS", "MDWS": "MDWS",
	"MILL": "ML", "ML": "ML",
	"MILLS": "MLS", "MLS": "MLS",
	"MISSION": "MSN", "MSN": "MSN",
	"MOUNT": "MT", "MT": "MT",
	"MOUNTAIN": "MTN", "MTN": "MTN",
	"ORCHARD": "ORCH", "ORCH": "ORCH",
	"OVAL": "OVAL",
	"PARK": "PARK",
	"PASS": "PASS",
	"PATH": "PATH",
	"PIKE": "PIKE",
	"PLAIN": "PLN", "PLN": "PLN",
	"PLAZA": "PLZ", "PLZ": "PLZ",
	"POINT": "PT", "PT": "PT",
	"PORT": "PRT", "PRT": "PRT",
	"PRAIRIE": "PR", "PR": "PR",
	"RANCH": "RNCH", "RNCH": "RNCH",
	"RAPIDS": "RPDS", "RPDS": "RPDS",
	"RIDGE": "RDG", "RDG": "RDG",
	"RIVER": "RIV", "RIV": "RIV",
	"ROW": "ROW",
	"RUN": "RUN",
	"SHORE": "SHR", "SHR": "SHR",
	"SHORES": "SHRS", "SHRS": "SHRS",
	"SPRING": "SPG", "SPG": "SPG",
	"SPRINGS": "SPGS", "SPGS": "SPGS",
	"SPUR": "SPUR",
	"SQUARE": "SQ", "SQ": "SQ",
	"STATION": "STA", "STA": "STA",
	"SUMMIT": "SMT", "SMT": "SMT",
	"TERRACE": "TER", "TER": "TER",
	"TRACE": "TRCE", "TRCE": "TRCE",
	"TUNNEL": "TUNL", "TUNL": "TUNL",
	"TURNPIKE": "TPKE", "TPKE": "TPKE",
	"VALLEY": "VLY", "VLY": "VLY",
	"VIEW": "VW", "VW": "VW",
	"VILLAGE": "VLG", "VLG": "VLG",
	"VISTA": "VIS", "VIS": "VIS",
	"WALK": "WALK",
	"WELLS": "WLS", "WLS": "WLS",
}

var punct = regexp.MustCompile(`[^\w\s\-]`)
var multiSpace = regexp.MustCompile(`\s{2,}`)

// Fold uppercases, strips diacritics and punctuation, and collapses
// whitespace for street-name comparison.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	s = punct.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CanonicalDirectional returns the canonical code for a directional word, or
// "" if the word is not a directional.
func CanonicalDirectional(word string) string {
	return directionals[Fold(word)]
}

// DirectionalName expands a canonical directional code to its full word.
func DirectionalName(code string) string {
	if name, ok := directionalNames[code]; ok {
		return name
	}
	return code
}

// CanonicalStreetType returns the canonical TIGER abbreviation for a
// street-type word, or "" if the word is not a street type.
func CanonicalStreetType(word string) string {
	return streetTypes[Fold(word)]
}

// Key is the canonical matching form of an address. Only used for
// comparison; never persisted.
type Key struct {
	StateFIPS       string // 2-digit hint from the input address
	StreetName      string // folded name without type or directionals
	StreetType      string // canonical type code, may be empty
	PreDirectional  string // canonical code, may be empty
	PostDirectional string // canonical code, may be empty
	HouseNumber     int
	ZIP             string // optional candidate filter
}

// NewKey derives a matching key from a token. Returns ErrIncompleteAddress
// when the house number or street name is missing or non-numeric.
func NewKey(tok Token, stateFIPS string) (Key, error) {
	if !tok.HasStreetInfo() {
		return Key{}, ErrIncompleteAddress
	}

	// Leading fractional or hyphenated suffixes ("123-B", "123 1/2") reduce
	// to the leading integer.
	numStr := tok.HouseNumber
	if i := strings.IndexFunc(numStr, func(r rune) bool { return r < '0' || r > '9' }); i > 0 {
		numStr = numStr[:i]
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return Key{}, ErrIncompleteAddress
	}

	key := Key{
		StateFIPS:       stateFIPS,
		HouseNumber:     num,
		ZIP:             tok.ZIP,
		PreDirectional:  CanonicalDirectional(tok.PreDirectional),
		PostDirectional: CanonicalDirectional(tok.PostDirectional),
		StreetType:      CanonicalStreetType(tok.StreetType),
	}

	pre, name, typ, post := SplitStreetName(Fold(tok.StreetName))
	if key.PreDirectional == "" {
		key.PreDirectional = pre
	}
	if key.StreetType == "" {
		key.StreetType = typ
	}
	if key.PostDirectional == "" {
		key.PostDirectional = post
	}
	key.StreetName = name
	if key.StreetName == "" {
		return Key{}, ErrIncompleteAddress
	}
	return key, nil
}

// SplitStreetName decomposes a folded street name into directional, base
// name, and type components. TIGER FULLNAME values ("N Main St") and
// spelled-out inputs ("North Main Street") split to the same triple.
func SplitStreetName(folded string) (pre, name, typ, post string) {
	words := strings.Fields(folded)
	if len(words) == 0 {
		return "", "", "", ""
	}

	if len(words) > 1 {
		if d := directionals[words[0]]; d != "" {
			pre = d
			words = words[1:]
		}
	}
	if len(words) > 1 {
		last := words[len(words)-1]
		if d := directionals[last]; d != "" {
			post = d
			words = words[:len(words)-1]
		}
	}
	if len(words) > 1 {
		last := words[len(words)-1]
		if t := streetTypes[last]; t != "" {
			typ = t
			words = words[:len(words)-1]
		}
	}

	return pre, strings.Join(words, " "), typ, post
}
