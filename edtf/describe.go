package edtf

import (
	"fmt"
)

// PartView is the structured form of a DatePart.
type PartView struct {
	Text                string `json:"text" yaml:"text"`
	Value               int64  `json:"value" yaml:"value"`
	Uncertain           bool   `json:"uncertain,omitempty" yaml:"uncertain,omitempty"`
	Approximate         bool   `json:"approximate,omitempty" yaml:"approximate,omitempty"`
	UnspecifiedMask     uint64 `json:"unspecified_mask,omitempty" yaml:"unspecified_mask,omitempty"`
	InsignificantDigits uint8  `json:"insignificant_digits,omitempty" yaml:"insignificant_digits,omitempty"`
}

// DateView is the structured form of a Date.
type DateView struct {
	Status          string    `json:"status" yaml:"status"`
	Text            string    `json:"text,omitempty" yaml:"text,omitempty"`
	Precision       string    `json:"precision,omitempty" yaml:"precision,omitempty"`
	Year            *PartView `json:"year,omitempty" yaml:"year,omitempty"`
	Month           *PartView `json:"month,omitempty" yaml:"month,omitempty"`
	Day             *PartView `json:"day,omitempty" yaml:"day,omitempty"`
	Season          string    `json:"season,omitempty" yaml:"season,omitempty"`
	SeasonQualifier string    `json:"season_qualifier,omitempty" yaml:"season_qualifier,omitempty"`
	Time            string    `json:"time,omitempty" yaml:"time,omitempty"`
	TimeZoneOffset  *int      `json:"tz_offset_minutes,omitempty" yaml:"tz_offset_minutes,omitempty"`
}

// PairView is the structured form of a DatePair.
type PairView struct {
	Kind  PairKind `json:"kind" yaml:"kind"`
	Text  string   `json:"text" yaml:"text"`
	Start DateView `json:"start" yaml:"start"`
	End   DateView `json:"end" yaml:"end"`
}

// ListView is the structured form of a whole expression.
type ListView struct {
	Input      string     `json:"input" yaml:"input"`
	Normalized string     `json:"normalized" yaml:"normalized"`
	Mode       string     `json:"mode" yaml:"mode"`
	Valid      bool       `json:"valid" yaml:"valid"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
	Items      []PairView `json:"items" yaml:"items"`
}

// Describe parses s and returns its structured view. Invalid input is
// described rather than rejected; Valid and Error say what went wrong.
func Describe(s string) ListView {
	l, err := Parse(s)
	v := ListView{
		Input:      s,
		Normalized: l.String(),
		Mode:       l.Mode.String(),
		Valid:      err == nil,
		Items:      make([]PairView, 0, l.Len()),
	}
	if err != nil {
		v.Error = err.Error()
	}
	for _, p := range l.items {
		v.Items = append(v.Items, describePair(p))
	}
	return v
}

func describePair(p DatePair) PairView {
	return PairView{
		Kind:  p.Kind(),
		Text:  p.String(),
		Start: describeDate(p.Start),
		End:   describeDate(p.End),
	}
}

func describeDate(d Date) DateView {
	v := DateView{Status: d.Status.String(), Text: d.String()}
	if d.Status != StatusNormal {
		return v
	}
	v.Precision = d.Precision().String()
	v.Year = describePart(d.Year, 4)
	if d.Month.HasValue {
		v.Month = describePart(d.Month, 2)
	}
	if d.IsSeason() {
		v.Season = d.Season()
		v.SeasonQualifier = d.SeasonQualifier
		return v
	}
	if d.Day.HasValue {
		v.Day = describePart(d.Day, 2)
	}
	if d.hasTimeText() {
		v.Time = fmt.Sprintf("%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
		if d.HasTimeZoneOffset || d.TimeZoneOffset != 0 {
			off := d.TimeZoneOffset
			v.TimeZoneOffset = &off
		}
	}
	return v
}

func describePart(p DatePart, pad int) *PartView {
	return &PartView{
		Text:                p.digits(pad),
		Value:               p.Value,
		Uncertain:           p.IsUncertain,
		Approximate:         p.IsApproximate,
		UnspecifiedMask:     p.UnspecifiedMask,
		InsignificantDigits: p.InsignificantDigits,
	}
}
