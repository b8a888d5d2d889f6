package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "endpoint %d", 2)

	assert.Equal(t, "endpoint 2: original", wrapped.Error())
	assert.True(t, Is(wrapped, original))
	assert.Equal(t, "original", UnwrapAll(wrapped).Error())
}

func TestHintsAndDetails(t *testing.T) {
	err := WithHint(New("unclosed list"), `close the list with "]"`)
	err = WithDetailf(err, "input: %s", "[1667, 1668")

	assert.Equal(t, []string{`close the list with "]"`}, GetAllHints(err))
	assert.Equal(t, []string{"input: [1667, 1668"}, GetAllDetails(err))
	assert.Equal(t, "unclosed list", err.Error())
}

func TestSecondaryErrorKeepsPrimaryMessage(t *testing.T) {
	cause := New("value out of range")
	err := WithSecondaryError(Wrapf(ErrInvalidExpression, "%s", "overflow"), cause)

	assert.Equal(t, "overflow: invalid EDTF expression", err.Error())
	assert.True(t, IsInvalidExpression(err))
	assert.Contains(t, fmt.Sprintf("%+v", err), "value out of range")
}

func TestAssertionFailed(t *testing.T) {
	err := AssertionFailedf("writeStructured called with %q", "xml")

	assert.True(t, HasAssertionFailure(err))
	assert.Contains(t, err.Error(), `writeStructured called with "xml"`)
	assert.False(t, HasAssertionFailure(New("plain")))
}

func TestStackTrace(t *testing.T) {
	assert.NotNil(t, GetStack(New("with stack")))
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"invalid expression", Wrap(ErrInvalidExpression, "1984-13"), IsInvalidExpression, true},
		{"not found wrapped", NewNotFoundError("catalog entry %s", "abc"), IsNotFoundError, true},
		{"not found by message", New("entry not found"), IsNotFoundError, true},
		{"invalid request", NewInvalidRequestError("unknown key %q", "x"), IsInvalidRequestError, true},
		{"wrap invalid request", WrapInvalidRequest(New("bad format"), "am set"), IsInvalidRequestError, true},
		{"wrap not found", WrapNotFound(New("missing"), "catalog get"), IsNotFoundError, true},
		{"unrelated", New("disk full"), IsInvalidExpression, false},
		{"nil", nil, IsNotFoundError, false},
		{"nil expression", nil, IsInvalidExpression, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFoundError("catalog entry %s", "abc")
	require.Error(t, err)
	assert.Equal(t, "catalog entry abc: not found", err.Error())
	assert.True(t, IsAny(err, ErrInvalidRequest, ErrNotFound))
}
