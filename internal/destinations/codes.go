// Package destinations maps free-form place names to vendor codes and
// builds preset hotel searches and assistant prompts for a location.
package destinations

import (
	"regexp"
	"strings"
)

const fallbackCode = "DEF"

type mapping struct {
	name string
	code string
}

// hotel vendor destination codes
var destinationCodes = []mapping{
	{"paris", "PAR"}, {"london", "LON"}, {"madrid", "MAD"}, {"rome", "ROM"},
	{"barcelona", "BCN"}, {"amsterdam", "AMS"}, {"berlin", "BER"}, {"vienna", "VIE"},
	{"prague", "PRG"}, {"lisbon", "LIS"}, {"athens", "ATH"}, {"istanbul", "IST"},
	{"dubai", "DXB"}, {"bangkok", "BKK"}, {"tokyo", "TYO"}, {"singapore", "SIN"},
	{"hong kong", "HKG"}, {"new york", "NYC"}, {"los angeles", "LAX"}, {"miami", "MIA"},
	{"chicago", "CHI"}, {"las vegas", "LAS"}, {"san francisco", "SFO"}, {"toronto", "YTO"},
	{"vancouver", "YVR"}, {"sydney", "SYD"}, {"melbourne", "MEL"}, {"cairo", "CAI"},
	{"marrakech", "RAK"}, {"casablanca", "CAS"}, {"cancun", "CUN"}, {"mexico city", "MEX"},
	{"rio de janeiro", "RIO"}, {"sao paulo", "SAO"}, {"buenos aires", "BUE"}, {"moscow", "MOW"},
	{"st petersburg", "LED"}, {"mumbai", "BOM"}, {"delhi", "DEL"}, {"bangalore", "BLR"},
	{"kuala lumpur", "KUL"}, {"jakarta", "JKT"}, {"manila", "MNL"}, {"seoul", "SEL"},
	{"beijing", "PEK"}, {"shanghai", "SHA"}, {"bali", "DPS"}, {"phuket", "HKT"},
	{"koh samui", "USM"}, {"pattaya", "UTP"}, {"doha", "DOH"}, {"abu dhabi", "AUH"},
	{"riyadh", "RUH"}, {"tel aviv", "TLV"}, {"zurich", "ZUR"}, {"geneva", "GVA"},
	{"stockholm", "STO"}, {"oslo", "OSL"}, {"copenhagen", "CPH"}, {"helsinki", "HEL"},
	{"reykjavik", "KEF"}, {"dublin", "DUB"}, {"edinburgh", "EDI"}, {"brussels", "BRU"},
	{"luxembourg", "LUX"}, {"monaco", "MCO"}, {"nice", "NCE"}, {"cannes", "CEQ"},
	{"lyon", "LYS"}, {"marseille", "MRS"}, {"milan", "MIL"}, {"florence", "FLR"},
	{"venice", "VCE"}, {"naples", "NAP"}, {"palermo", "PMO"}, {"santorini", "JTR"},
	{"mykonos", "JMK"}, {"rhodes", "RHO"}, {"crete", "HER"}, {"ibiza", "IBZ"},
	{"mallorca", "PMI"}, {"valencia", "VLC"}, {"seville", "SVQ"}, {"bilbao", "BIO"},
	{"porto", "OPO"}, {"faro", "FAO"}, {"funchal", "FNC"}, {"las palmas", "LPA"},
	{"tenerife", "TFS"},
}

var (
	noiseWords = regexp.MustCompile(`\b(city|hotel|resort|beach|island|airport)\b`)
	nonLetters = regexp.MustCompile(`[^a-z]`)
)

// Match records how a destination code was resolved.
type Match struct {
	Destination string `json:"destination"`
	Code        string `json:"code"`
	Source      string `json:"source"` // exact, partial or fallback
	MatchedName string `json:"matched_name,omitempty"`
}

// DestinationCode resolves a place name: exact table entry, then the longest
// table entry contained in (or containing) the name, then a code made from
// the name's first letters.
func DestinationCode(destination string) string {
	return Resolve(destination).Code
}

func Resolve(destination string) Match {
	name := strings.ToLower(strings.TrimSpace(destination))
	m := Match{Destination: destination}
	if name == "" {
		m.Code, m.Source = fallbackCode, "fallback"
		return m
	}

	for _, e := range destinationCodes {
		if e.name == name {
			m.Code, m.Source, m.MatchedName = e.code, "exact", e.name
			return m
		}
	}

	best := -1
	for i, e := range destinationCodes {
		if !strings.Contains(name, e.name) && !strings.Contains(e.name, name) {
			continue
		}
		if best < 0 || len(e.name) > len(destinationCodes[best].name) {
			best = i
		}
	}
	if best >= 0 {
		e := destinationCodes[best]
		m.Code, m.Source, m.MatchedName = e.code, "partial", e.name
		return m
	}

	m.Code, m.Source = FallbackCode(name), "fallback"
	return m
}

// FallbackCode strips generic words and non-letters and keeps the first
// three letters upper-cased, or DEF when fewer remain.
func FallbackCode(name string) string {
	clean := noiseWords.ReplaceAllString(strings.ToLower(name), "")
	clean = nonLetters.ReplaceAllString(clean, "")
	if len(clean) < 3 {
		return fallbackCode
	}
	return strings.ToUpper(clean[:3])
}
