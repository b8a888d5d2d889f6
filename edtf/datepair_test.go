package edtf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		input   string
		kind    PairKind
		start   Status
		end     Status
		isRange bool
		output  string
	}{
		{"1964/2008", PairInterval, StatusNormal, StatusNormal, false, "1964/2008"},
		{"2004-06/2006-08", PairInterval, StatusNormal, StatusNormal, false, "2004-06/2006-08"},
		{"2004-02-01/2005-02-08", PairInterval, StatusNormal, StatusNormal, false, "2004-02-01/2005-02-08"},
		{"unknown/2006", PairInterval, StatusUnknown, StatusNormal, false, "unknown/2006"},
		{"2004-01-01/open", PairInterval, StatusNormal, StatusOpen, false, "2004-01-01/open"},
		{"1984~/2004-06", PairInterval, StatusNormal, StatusNormal, false, "1984~/2004-06"},
		{"1667..1672", PairRange, StatusNormal, StatusNormal, true, "1667..1672"},
		{"1760-12..", PairRange, StatusNormal, StatusUnused, true, "1760-12.."},
		{"..1760-12-03", PairRange, StatusUnused, StatusNormal, true, "..1760-12-03"},
		{"2004-06-11", PairSingle, StatusNormal, StatusUnused, false, "2004-06-11"},
		{"2004/", PairSingle, StatusNormal, StatusUnused, false, "2004"},
		{"/2004", PairSingle, StatusInvalid, StatusUnused, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParsePair(tt.input)
			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, tt.start, p.Start.Status)
			assert.Equal(t, tt.end, p.End.Status)
			assert.Equal(t, tt.isRange, p.IsRange)
			assert.Equal(t, tt.output, p.String())
		})
	}
}

func TestParsePair_IntervalEndpoints(t *testing.T) {
	p := ParsePair("2004-06/2006-08")
	assert.Equal(t, int64(2004), p.Start.Year.Value)
	assert.Equal(t, int64(6), p.Start.Month.Value)
	assert.Equal(t, int64(2006), p.End.Year.Value)
	assert.Equal(t, int64(8), p.End.Month.Value)

	// a negative start year is not mistaken for a separator
	p = ParsePair("-0999/0010")
	assert.Equal(t, int64(-999), p.Start.Year.Value)
	assert.Equal(t, int64(10), p.End.Year.Value)
}

func TestDatePair_Predicates(t *testing.T) {
	assert.True(t, ParsePair("2004-01-01/open").IsOpenEnded())
	assert.True(t, ParsePair("1760-12..").IsOpenEnded())
	assert.False(t, ParsePair("1964/2008").IsOpenEnded())
	assert.False(t, ParsePair("unknown/2006").IsOpenEnded())

	assert.True(t, ParsePair("1964/2008").Valid())
	assert.True(t, ParsePair("..1760").Valid())
	assert.False(t, ParsePair("..").Valid())
	assert.False(t, ParsePair("1964/20z8").Valid())
	assert.False(t, DatePair{}.Valid())
}
