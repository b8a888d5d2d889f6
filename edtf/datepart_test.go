package edtf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/edtf/errors"
)

func TestParseDatePart(t *testing.T) {
	tests := []struct {
		digits   string
		extended bool
		expected DatePart
	}{
		{"2004", true, DatePart{Value: 2004, HasValue: true}},
		{"-0999", true, DatePart{Value: -999, HasValue: true}},
		{"199u", true, DatePart{Value: 1990, HasValue: true, UnspecifiedMask: 0b1}},
		{"1u9u", true, DatePart{Value: 1090, HasValue: true, UnspecifiedMask: 0b101}},
		{"19xx", true, DatePart{Value: 1900, HasValue: true, InsignificantDigits: 2}},
		{"17e7", true, DatePart{Value: 170000000, HasValue: true}},
		{"-17e7", true, DatePart{Value: -170000000, HasValue: true}},
		{"uu", false, DatePart{Value: 0, HasValue: true, UnspecifiedMask: 0b11}},
		{"06", false, DatePart{Value: 6, HasValue: true}},
	}

	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			p, err := parseDatePart(tt.digits, tt.extended)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestParseDatePart_Errors(t *testing.T) {
	_, err := parseDatePart("9223372036854775808", true)
	assert.True(t, errors.Is(err, ErrOverflow))

	_, err = parseDatePart("1e19", true)
	assert.True(t, errors.Is(err, ErrOverflow))

	_, err = parseDatePart("92233720368547759e2", true)
	assert.True(t, errors.Is(err, ErrOverflow))

	_, err = parseDatePart("1x", false)
	assert.Error(t, err)

	for _, digits := range []string{"1x50", "x999", "19x0", "19xu", "-1x00"} {
		_, err = parseDatePart(digits, true)
		assert.Error(t, err, digits)
	}

	p, err := parseDatePart("-19xx", true)
	require.NoError(t, err)
	assert.Equal(t, int64(-1900), p.Value)
	assert.Equal(t, uint8(2), p.InsignificantDigits)

	p, err = parseDatePart("9223372036854775807", true)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), p.Value)
}

func TestDatePart_Format(t *testing.T) {
	tests := []struct {
		name     string
		part     DatePart
		pad      int
		expected string
	}{
		{"padded year", DatePart{Value: 33, HasValue: true}, 4, "0033"},
		{"negative padded year", DatePart{Value: -999, HasValue: true}, 4, "-0999"},
		{"month", DatePart{Value: 6, HasValue: true}, 2, "06"},
		{"unspecified", DatePart{Value: 1990, HasValue: true, UnspecifiedMask: 1}, 4, "199u"},
		{"masked", DatePart{Value: 1960, HasValue: true, InsignificantDigits: 1}, 4, "196x"},
		{"long year", DatePart{Value: 170000002, HasValue: true}, 4, "y170000002"},
		{"long negative year", DatePart{Value: -170000002, HasValue: true}, 4, "y-170000002"},
		{"significant digits", DatePart{Value: 171010000, HasValue: true, InsignificantDigits: 6}, 4, "y171010000p3"},
		{"qualified", DatePart{Value: 1984, HasValue: true, IsUncertain: true, IsApproximate: true}, 4, "1984?~"},
		{"min int64", DatePart{Value: math.MinInt64, HasValue: true}, 4, "y-9223372036854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.part.Format(tt.pad))
		})
	}
}

func TestDatePart_FormatQualified(t *testing.T) {
	p := DatePart{Value: 6, HasValue: true, IsUncertain: true, IsApproximate: true}
	assert.Equal(t, "06?~", p.FormatQualified(2, false, false))
	assert.Equal(t, "06~", p.FormatQualified(2, true, false))
	assert.Equal(t, "06?", p.FormatQualified(2, false, true))
	assert.Equal(t, "06", p.FormatQualified(2, true, true))
}

func TestApplyPrecision(t *testing.T) {
	p := DatePart{Value: 1950, HasValue: true}
	require.NoError(t, p.applyPrecision("2", 4))
	assert.Equal(t, uint8(2), p.InsignificantDigits)

	require.NoError(t, p.applyPrecision("7", 4))
	assert.Equal(t, uint8(0), p.InsignificantDigits)
}
