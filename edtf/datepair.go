package edtf

import (
	"strings"
)

const (
	intervalSeparator = "/"
	rangeSeparator    = ".."
)

// DatePair is an interval (start/end), a discrete range (start..end) or a
// single date (End unused).
type DatePair struct {
	Start   Date
	End     Date
	IsRange bool
}

// PairKind names the shape of a DatePair.
type PairKind string

const (
	PairSingle   PairKind = "single"
	PairInterval PairKind = "interval"
	PairRange    PairKind = "range"
)

// ParsePair parses an interval, a range or a single date.
func ParsePair(s string) DatePair {
	p, _ := parsePair(s)
	return p
}

// parsePair also reports the first endpoint error and its byte offset.
func parsePair(s string) (DatePair, endpointError) {
	if i := strings.Index(s, intervalSeparator); i > 0 {
		return joinEndpoints(s, i, len(intervalSeparator), false)
	}
	if i := strings.Index(s, rangeSeparator); i >= 0 {
		return joinEndpoints(s, i, len(rangeSeparator), true)
	}
	start, err := parseDate(s)
	return DatePair{Start: start}, endpointError{err: err, text: s}
}

func joinEndpoints(s string, at, width int, isRange bool) (DatePair, endpointError) {
	start, serr := parseDate(s[:at])
	end, eerr := parseDate(s[at+width:])
	p := DatePair{Start: start, End: end, IsRange: isRange}
	if serr != nil {
		return p, endpointError{err: serr, text: s[:at]}
	}
	return p, endpointError{err: eerr, text: s[at+width:], offset: at + width}
}

// endpointError locates a failed endpoint inside a larger expression.
type endpointError struct {
	err    error
	text   string
	offset int
}

// Kind reports whether the pair is a single date, an interval or a range.
func (p DatePair) Kind() PairKind {
	switch {
	case p.IsRange:
		return PairRange
	case p.End.Status == StatusUnused:
		return PairSingle
	}
	return PairInterval
}

// IsOpenEnded reports whether either side is open, or missing from a range.
func (p DatePair) IsOpenEnded() bool {
	if p.Start.Status == StatusOpen || p.End.Status == StatusOpen {
		return true
	}
	return p.IsRange && (p.Start.Status == StatusUnused || p.End.Status == StatusUnused)
}

// Valid reports whether neither endpoint is invalid and at least one holds
// a value.
func (p DatePair) Valid() bool {
	if p.Start.Status == StatusInvalid || p.End.Status == StatusInvalid {
		return false
	}
	return p.Start.Status != StatusUnused || p.End.Status != StatusUnused
}

// String renders start..end for ranges and start/end for intervals. The
// separator is dropped when an interval's end renders empty.
func (p DatePair) String() string {
	start := p.Start.String()
	end := p.End.String()
	if p.IsRange {
		return start + rangeSeparator + end
	}
	if end == "" {
		return start
	}
	return start + intervalSeparator + end
}
