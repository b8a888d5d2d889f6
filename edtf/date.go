package edtf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/edtf/errors"
)

// Keywords accepted in place of a date.
const (
	KeywordOpen    = "open"
	KeywordUnknown = "unknown"
)

// Date is a single EDTF endpoint.
//
// A Month value of Spring through Winter encodes a season; such a Date never
// carries a day or a time. TimeZoneOffset is in minutes east of UTC and is
// only meaningful when HasTimeZoneOffset is set or the offset is non-zero.
type Date struct {
	Status            Status
	Year              DatePart
	Month             DatePart
	Day               DatePart
	SeasonQualifier   string
	Hour              int
	Minute            int
	Second            int
	HasTime           bool
	TimeZoneOffset    int
	HasTimeZoneOffset bool
}

// ParseDate parses one endpoint. It never fails; malformed input yields a
// Date with StatusInvalid.
func ParseDate(s string) Date {
	d, _ := parseDate(s)
	return d
}

// parseDate is ParseDate with the reason for an invalid result.
func parseDate(s string) (Date, error) {
	switch s {
	case "":
		return Date{}, nil
	case KeywordOpen:
		return Date{Status: StatusOpen}, nil
	case KeywordUnknown:
		return Date{Status: StatusUnknown}, nil
	}

	f, ok := matchEndpoint(s)
	if !ok {
		return Date{Status: StatusInvalid}, errSyntax
	}
	d, err := buildDate(f)
	if err != nil {
		return Date{Status: StatusInvalid}, err
	}
	return d, nil
}

var errSyntax = errors.New("does not match the EDTF grammar")

func buildDate(f endpointFields) (Date, error) {
	q, err := resolveQualification(f)
	if err != nil {
		return Date{}, err
	}

	d := Date{Status: StatusNormal}

	text, _ := f.yearDigits()
	if d.Year, err = parseDatePart(text, true); err != nil {
		return Date{}, errors.Wrap(err, "year")
	}
	if f.YearPrecision != "" {
		if err := d.Year.applyPrecision(f.YearPrecision, writtenWidth(text, d.Year)); err != nil {
			return Date{}, errors.Wrap(err, "year")
		}
	}
	d.Year.IsUncertain = q.uncertain.has(levelYear)
	d.Year.IsApproximate = q.approximate.has(levelYear)

	if f.Month == "" {
		return d, nil
	}
	if d.Month, err = parseDatePart(f.Month, false); err != nil {
		return Date{}, errors.Wrap(err, "month")
	}
	d.Month.IsUncertain = q.uncertain.has(levelMonth)
	d.Month.IsApproximate = q.approximate.has(levelMonth)

	if d.Month.Value >= seasonThreshold {
		d.SeasonQualifier = f.SeasonQualifier
		return d, nil
	}
	if f.SeasonQualifier != "" {
		return Date{}, errors.Newf("qualifier %q on month %s, which is not a season", f.SeasonQualifier, f.Month)
	}

	if f.Day == "" {
		return d, nil
	}
	if d.Day, err = parseDatePart(f.Day, false); err != nil {
		return Date{}, errors.Wrap(err, "day")
	}
	d.Day.IsUncertain = q.uncertain.has(levelDay)
	d.Day.IsApproximate = q.approximate.has(levelDay)

	if f.Hour == "" {
		return d, nil
	}
	d.HasTime = true
	d.Hour, _ = strconv.Atoi(f.Hour)
	d.Minute, _ = strconv.Atoi(f.Minute)
	d.Second, _ = strconv.Atoi(f.Second)

	switch {
	case f.TZUTC != "":
		d.HasTimeZoneOffset = true
	case f.TZSign != "":
		h, _ := strconv.Atoi(f.TZHour)
		m, _ := strconv.Atoi(f.TZMinute)
		if m >= 60 {
			return Date{}, errors.Newf("time zone minutes %s out of range", f.TZMinute)
		}
		d.TimeZoneOffset = h*60 + m
		if f.TZSign == "-" {
			d.TimeZoneOffset = -d.TimeZoneOffset
		}
		d.HasTimeZoneOffset = true
	}
	return d, nil
}

// depth is the finest populated level of a normal date.
func (d Date) depth() level {
	switch {
	case d.Day.HasValue && !d.IsSeason():
		return levelDay
	case d.Month.HasValue:
		return levelMonth
	}
	return levelYear
}

// IsSeason reports whether the month holds a season value.
func (d Date) IsSeason() bool {
	return d.Month.HasValue && d.Month.Value >= seasonThreshold
}

// Season names the season for Spring through Winter, or "" otherwise.
func (d Date) Season() string {
	if !d.IsSeason() {
		return ""
	}
	return seasonNames[d.Month.Value]
}

// Precision is the finest component the date specifies.
func (d Date) Precision() Precision {
	if d.Status != StatusNormal {
		return PrecisionNone
	}
	switch {
	case d.IsSeason():
		return PrecisionSeason
	case d.hasTimeText():
		return PrecisionTime
	case d.Day.HasValue:
		return PrecisionDay
	case d.Month.HasValue:
		return PrecisionMonth
	}
	return PrecisionYear
}

// IsQualified reports whether any component is uncertain or approximate.
func (d Date) IsQualified() bool {
	for _, p := range []DatePart{d.Year, d.Month, d.Day} {
		if p.IsUncertain || p.IsApproximate {
			return true
		}
	}
	return false
}

func (d Date) hasTimeText() bool {
	return d.Day.HasValue && (d.HasTime || d.Hour != 0 || d.Minute != 0 || d.Second != 0)
}

// String renders the date in canonical EDTF. Unused and Invalid dates, and
// Normal dates without a year, render as the empty string.
func (d Date) String() string {
	switch d.Status {
	case StatusOpen:
		return KeywordOpen
	case StatusUnknown:
		return KeywordUnknown
	case StatusNormal:
		if !d.Year.HasValue {
			return ""
		}
	default:
		return ""
	}

	var b strings.Builder
	depth := d.depth()
	writeQualified(&b, d, depth)

	if d.IsSeason() {
		if d.SeasonQualifier != "" {
			b.WriteByte('^')
			b.WriteString(d.SeasonQualifier)
		}
		return b.String()
	}
	if depth < levelDay || !d.hasTimeText() {
		return b.String()
	}

	fmt.Fprintf(&b, "T%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
	switch {
	case d.TimeZoneOffset == 0 && d.HasTimeZoneOffset:
		b.WriteByte('Z')
	case d.TimeZoneOffset != 0:
		sign := byte('+')
		off := d.TimeZoneOffset
		if off < 0 {
			sign, off = '-', -off
		}
		b.WriteByte(sign)
		fmt.Fprintf(&b, "%02d:%02d", off/60, off%60)
	}
	return b.String()
}
