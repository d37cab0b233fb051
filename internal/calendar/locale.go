package calendar

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Regions whose weeks do not start on Monday (CLDR firstDay data).
var (
	sundayRegions = map[string]bool{
		"AG": true, "AS": true, "BD": true, "BR": true, "BS": true, "BT": true,
		"BW": true, "BZ": true, "CA": true, "CN": true, "CO": true, "DM": true,
		"DO": true, "ET": true, "GT": true, "GU": true, "HK": true, "HN": true,
		"ID": true, "IL": true, "IN": true, "JM": true, "JP": true, "KE": true,
		"KH": true, "KR": true, "LA": true, "MH": true, "MM": true, "MO": true,
		"MT": true, "MX": true, "MZ": true, "NI": true, "NP": true, "PA": true,
		"PE": true, "PH": true, "PK": true, "PR": true, "PT": true, "PY": true,
		"SA": true, "SG": true, "SV": true, "TH": true, "TT": true, "TW": true,
		"UM": true, "US": true, "VE": true, "VI": true, "WS": true, "YE": true,
		"ZA": true, "ZW": true,
	}
	saturdayRegions = map[string]bool{
		"AE": true, "AF": true, "BH": true, "DJ": true, "DZ": true, "EG": true,
		"IQ": true, "IR": true, "JO": true, "KW": true, "LY": true, "OM": true,
		"QA": true, "SD": true, "SY": true,
	}
)

// WeekStartForLocale returns the first day of the week for a BCP 47 tag.
// A tag without an explicit region uses the most likely region for its
// language ("en" → US, "ca" → ES).
func WeekStartForLocale(tag string) (time.Weekday, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return time.Sunday, fmt.Errorf("parse locale %q: %w", tag, err)
	}

	region, _ := t.Region()
	code := region.String()
	switch {
	case sundayRegions[code]:
		return time.Sunday, nil
	case saturdayRegions[code]:
		return time.Saturday, nil
	default:
		return time.Monday, nil
	}
}
