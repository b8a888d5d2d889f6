package edtf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/edtf/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ErrorKind
		endpoint string
		offset   int
	}{
		{"garbage", "not-a-date", ErrorKindSyntax, "not-a-date", 0},
		{"stray close", "2004-06-11)", ErrorKindParenthesis, "2004-06-11)", 0},
		{"unclosed in end", "1984/(2004", ErrorKindParenthesis, "(2004", 5},
		{"overflow", "y1e30", ErrorKindOverflow, "y1e30", 0},
		{"unterminated list", "[1984, 2004", ErrorKindList, "[1984, 2004", 11},
		{"empty", "", ErrorKindEmpty, "", 0},
		{"empty item", "[1984,,2004]", ErrorKindEmpty, "", 6},
		{"bad item", "[1667, 1668x]", ErrorKindSyntax, "1668x", 7},
		{"foreign character", "2004-06-1!", ErrorKindSyntax, "2004-06-1!", 9},
		{"bare range", "..", ErrorKindSyntax, "..", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.endpoint, pe.Endpoint)
			assert.Equal(t, tt.offset, pe.Offset)
			assert.NotEmpty(t, pe.Suggestions)
			assert.True(t, errors.Is(err, errors.ErrInvalidExpression))
			assert.True(t, errors.IsInvalidExpression(err))
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	inputs := []string{
		"2001-02-03", "1984?~", "2004-(06)?-11", "unknown/2006", "2004-01-01/open",
		"[1667, 1668, 1670..1672]", "{1960, 1961-12}", "y17101e4p3", "2001-21^north",
		"..1760-12-03",
	}
	for _, input := range inputs {
		assert.NoError(t, Validate(input), input)
	}
}

func TestParse_ReturnsListOnError(t *testing.T) {
	l, err := Parse("[1667, 16x]")
	require.Error(t, err)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, StatusNormal, l.At(0).Start.Status)
	assert.Equal(t, StatusInvalid, l.At(1).Start.Status)
}

func TestParseError_Format(t *testing.T) {
	err := Validate("2004-06-1!")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))

	plain := pe.FormatError(ErrorContextPlain)
	assert.NotContains(t, plain, "\x1b[")
	assert.Contains(t, plain, `invalid EDTF date "2004-06-1!"`)
	assert.Contains(t, plain, "syntax at offset 9")
	assert.Contains(t, plain, `character '!' is not part of EDTF`)
	assert.Equal(t, plain, pe.Error())

	terminal := pe.FormatError(ErrorContextTerminal)
	assert.Contains(t, terminal, "2004-06-1!")
	assert.Contains(t, terminal, "Suggestions:")
	lines := strings.Split(terminal, "\n")
	caret := -1
	for _, line := range lines {
		if i := strings.Index(line, "^"); i >= 0 {
			caret = i
		}
	}
	// two spaces of indent then the offset
	assert.GreaterOrEqual(t, caret, 2+9)
}

func TestParseError_ListSuggestion(t *testing.T) {
	var pe *ParseError
	require.True(t, errors.As(Validate("{1960, 1961"), &pe))
	assert.Contains(t, pe.Suggestions, `close the list with "}"`)
	assert.Contains(t, pe.Error(), "unterminated list")
}
