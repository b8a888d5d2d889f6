package edtf

import (
	"regexp"
	"sync"
)

// endpointPattern recognises a single EDTF endpoint. Parenthesis balance is
// not expressible here and is checked by the scope tracker.
const endpointPattern = `^` +
	`(?P<yearopen>\(*)` +
	`(?:y(?P<longyear>-?(?:[0-9]+e[0-9]+|[0-9ux]{5,}))|(?P<year>-?[0-9ux]{4}))` +
	`(?:p(?P<yearprecision>[0-9]+))?` +
	`(?P<yearend>[?~)]*)` +
	`(?:-(?P<monthopen>\(*)(?P<month>[0-9u]{2})(?P<monthend>[?~)]*)` +
	`(?:\^(?P<seasonqualifier>[A-Za-z0-9]+))?` +
	`(?:-(?P<dayopen>\(*)(?P<day>[0-9u]{2})(?P<dayend>[?~)]*)` +
	`(?:T(?P<hour>[0-9]{2}):(?P<minute>[0-9]{2}):(?P<second>[0-9]{2})` +
	`(?:(?P<tzutc>Z)|(?P<tzsign>[+-])(?P<tzhour>[0-9]{2})(?::?(?P<tzminute>[0-9]{2}))?)?` +
	`)?)?)?$`

var (
	grammarOnce sync.Once
	grammar     *endpointGrammar
)

type endpointGrammar struct {
	re    *regexp.Regexp
	index map[string]int
}

// endpointFields holds the captured substrings of one endpoint. Empty
// means the group did not participate in the match.
type endpointFields struct {
	YearOpen, LongYear, Year, YearPrecision, YearEnd string
	MonthOpen, Month, MonthEnd, SeasonQualifier      string
	DayOpen, Day, DayEnd                             string
	Hour, Minute, Second                             string
	TZUTC, TZSign, TZHour, TZMinute                  string
}

func loadGrammar() *endpointGrammar {
	grammarOnce.Do(func() {
		re := regexp.MustCompile(endpointPattern)
		index := make(map[string]int)
		for i, name := range re.SubexpNames() {
			if name != "" {
				index[name] = i
			}
		}
		grammar = &endpointGrammar{re: re, index: index}
	})
	return grammar
}

// matchEndpoint returns the captured fields of s, or false when s is not a
// syntactically valid endpoint.
func matchEndpoint(s string) (endpointFields, bool) {
	g := loadGrammar()
	m := g.re.FindStringSubmatch(s)
	if m == nil {
		return endpointFields{}, false
	}
	get := func(name string) string { return m[g.index[name]] }

	return endpointFields{
		YearOpen:        get("yearopen"),
		LongYear:        get("longyear"),
		Year:            get("year"),
		YearPrecision:   get("yearprecision"),
		YearEnd:         get("yearend"),
		MonthOpen:       get("monthopen"),
		Month:           get("month"),
		MonthEnd:        get("monthend"),
		SeasonQualifier: get("seasonqualifier"),
		DayOpen:         get("dayopen"),
		Day:             get("day"),
		DayEnd:          get("dayend"),
		Hour:            get("hour"),
		Minute:          get("minute"),
		Second:          get("second"),
		TZUTC:           get("tzutc"),
		TZSign:          get("tzsign"),
		TZHour:          get("tzhour"),
		TZMinute:        get("tzminute"),
	}, true
}

// yearDigits returns the year text and whether it used the long "y" form.
func (f endpointFields) yearDigits() (string, bool) {
	if f.LongYear != "" {
		return f.LongYear, true
	}
	return f.Year, false
}
