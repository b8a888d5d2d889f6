package edtf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pterm/pterm"

	"github.com/teranos/edtf/errors"
)

// ErrorKind categorizes validation failures for programmatic handling
type ErrorKind string

const (
	ErrorKindSyntax      ErrorKind = "syntax"      // endpoint does not match the grammar
	ErrorKindParenthesis ErrorKind = "parenthesis" // unbalanced '(' and ')'
	ErrorKindOverflow    ErrorKind = "overflow"    // component does not fit in int64
	ErrorKindList        ErrorKind = "list"        // '[' or '{' without its closer
	ErrorKindEmpty       ErrorKind = "empty"       // nothing to parse
)

// ErrorContext selects how a ParseError is rendered.
type ErrorContext int

const (
	ErrorContextPlain    ErrorContext = iota // logs, JSON, catalog rows
	ErrorContextTerminal                     // colored, with a caret under the failure
)

// alphabet is every character that may appear in an EDTF expression,
// season qualifiers aside.
const alphabet = "0123456789-:TZ+~?uxyep()[]{}./, "

// ParseError explains why an expression is not valid EDTF.
type ParseError struct {
	Err         error     // wraps errors.ErrInvalidExpression
	Kind        ErrorKind // failure category
	Input       string    // whole expression
	Endpoint    string    // endpoint text that failed, if any
	Offset      int       // byte offset of the failure in Input
	Suggestions []string  // possible fixes
}

// Error implements the error interface using the plain rendering.
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// Unwrap for errors.Is/As compatibility
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError renders the error for the given context.
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextTerminal {
		return e.formatTerminal()
	}
	return e.formatPlain()
}

func (e *ParseError) message() string {
	switch e.Kind {
	case ErrorKindEmpty:
		if strings.TrimSpace(e.Input) == "" {
			return "empty EDTF expression"
		}
		return fmt.Sprintf("empty item in %q", e.Input)
	case ErrorKindList:
		return fmt.Sprintf("unterminated list in %q", e.Input)
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("invalid EDTF date %q", e.Endpoint)
	}
	return fmt.Sprintf("invalid EDTF expression %q", e.Input)
}

func (e *ParseError) formatPlain() string {
	msg := e.message()
	if e.Kind != ErrorKindEmpty {
		msg += fmt.Sprintf(" (%s at offset %d)", e.Kind, e.Offset)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, "; "))
	}
	return msg
}

func (e *ParseError) formatTerminal() string {
	var b strings.Builder
	b.WriteString(pterm.Red(e.message()))

	if e.Input != "" {
		b.WriteString("\n\n  ")
		b.WriteString(e.Input)
		b.WriteString("\n  ")
		b.WriteString(strings.Repeat(" ", e.Offset))
		b.WriteString(pterm.Yellow("^ " + string(e.Kind)))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(pterm.Green("Suggestions:"))
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// Parse parses a full expression and returns a *ParseError when any part
// of it is invalid. The list is returned either way.
func Parse(s string) (DatePairList, error) {
	l, lerr := parseList(s)
	if strings.TrimSpace(s) == "" {
		return l, newParseError(ErrorKindEmpty, s, listError{})
	}
	if lerr.unclosed {
		return l, newParseError(ErrorKindList, s, lerr)
	}
	if lerr.err != nil {
		return l, newParseError(kindOf(lerr.err), s, lerr)
	}
	for _, p := range l.items {
		if !p.Valid() {
			return l, newParseError(ErrorKindSyntax, s, listError{endpointError: endpointError{text: p.String()}})
		}
	}
	return l, nil
}

// Validate reports whether s is a valid EDTF expression.
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnbalanced):
		return ErrorKindParenthesis
	case errors.Is(err, ErrOverflow):
		return ErrorKindOverflow
	case errors.Is(err, errEmptyItem):
		return ErrorKindEmpty
	}
	return ErrorKindSyntax
}

func newParseError(kind ErrorKind, input string, le listError) *ParseError {
	e := &ParseError{
		Kind:     kind,
		Input:    input,
		Endpoint: le.text,
		Offset:   le.offset,
	}

	cause := le.err
	if cause == nil {
		cause = errors.New(string(kind))
	}
	e.Err = errors.WithSecondaryError(
		errors.Wrapf(errors.ErrInvalidExpression, "%s", kind), cause)

	if i := strings.IndexFunc(le.text, outsideAlphabet); i >= 0 && kind == ErrorKindSyntax {
		e.Offset = le.offset + i
		r, _ := utf8.DecodeRuneInString(le.text[i:])
		e.Suggestions = append(e.Suggestions, fmt.Sprintf("character %q is not part of EDTF", r))
	}

	switch kind {
	case ErrorKindSyntax:
		e.Suggestions = append(e.Suggestions, "dates are written YYYY, YYYY-MM or YYYY-MM-DD, optionally followed by Thh:mm:ss")
	case ErrorKindParenthesis:
		e.Suggestions = append(e.Suggestions, "every '(' needs a matching ')' inside the same date")
	case ErrorKindOverflow:
		e.Suggestions = append(e.Suggestions, "years must fit in a signed 64-bit integer")
	case ErrorKindList:
		closer := "]"
		if strings.HasPrefix(input, "{") {
			closer = "}"
		}
		e.Suggestions = append(e.Suggestions, fmt.Sprintf("close the list with %q", closer))
	case ErrorKindEmpty:
		e.Suggestions = append(e.Suggestions, "remove the stray separator or supply a date")
	}
	return e
}

func outsideAlphabet(r rune) bool {
	return !strings.ContainsRune(alphabet, r)
}
