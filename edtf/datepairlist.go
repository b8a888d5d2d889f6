package edtf

import (
	"strings"

	"github.com/teranos/edtf/errors"
)

const itemSeparator = ","

var errEmptyItem = errors.New("empty list item")

var listBrackets = map[ListMode][2]byte{
	OneOfASet: {'[', ']'},
	Multiple:  {'{', '}'},
}

// DatePairList is an ordered list of pairs, either one of a set ("[...]")
// or multiple dates ("{...}"). Unbracketed input parses as a one-of-a-set
// list with a single item.
type DatePairList struct {
	Mode  ListMode
	items []DatePair
}

// NewList builds a list from pairs.
func NewList(mode ListMode, pairs ...DatePair) DatePairList {
	return DatePairList{Mode: mode, items: append([]DatePair(nil), pairs...)}
}

// ParseList parses a full EDTF expression.
func ParseList(s string) DatePairList {
	l, _ := parseList(s)
	return l
}

// listError describes the first failure met while parsing a list.
type listError struct {
	endpointError
	unclosed bool
}

func (e listError) failed() bool {
	return e.unclosed || e.err != nil
}

func parseList(s string) (DatePairList, listError) {
	var l DatePairList
	if s == "" {
		return l, listError{}
	}

	body := s
	offset := 0
	switch s[0] {
	case '{':
		l.Mode = Multiple
		fallthrough
	case '[':
		closer := listBrackets[l.Mode][1]
		if len(s) < 2 || s[len(s)-1] != closer {
			l.items = []DatePair{{Start: Date{Status: StatusInvalid}}}
			return l, listError{unclosed: true, endpointError: endpointError{text: s, offset: len(s)}}
		}
		body = s[1 : len(s)-1]
		offset = 1
	}

	if strings.TrimSpace(body) == "" && body != s {
		return l, listError{}
	}

	var first listError
	for _, item := range strings.Split(body, itemSeparator) {
		trimmed := strings.TrimSpace(item)
		lead := strings.Index(item, trimmed)
		p, perr := parsePair(trimmed)
		if trimmed == "" {
			perr.err = errEmptyItem
		}
		if perr.err != nil && first.err == nil {
			perr.offset += offset + lead
			first.endpointError = perr
		}
		l.items = append(l.items, p)
		offset += len(item) + len(itemSeparator)
	}
	return l, first
}

// Len returns the number of items.
func (l DatePairList) Len() int { return len(l.items) }

// At returns item i. It panics when i is out of range, like a slice index.
func (l DatePairList) At(i int) DatePair { return l.items[i] }

// Items returns a copy of the items.
func (l DatePairList) Items() []DatePair {
	return append([]DatePair(nil), l.items...)
}

// Add appends a pair.
func (l *DatePairList) Add(p DatePair) {
	l.items = append(l.items, p)
}

// Equal reports whether both lists have the same mode and items.
func (l DatePairList) Equal(o DatePairList) bool {
	if l.Mode != o.Mode || len(l.items) != len(o.items) {
		return false
	}
	for i := range l.items {
		if l.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// Valid reports whether every item is valid.
func (l DatePairList) Valid() bool {
	for _, p := range l.items {
		if !p.Valid() {
			return false
		}
	}
	return true
}

// String renders the list. A one-of-a-set list holding exactly one
// non-range item is written bare; an empty one is the empty string.
func (l DatePairList) String() string {
	if l.Mode == OneOfASet {
		switch {
		case len(l.items) == 0:
			return ""
		case len(l.items) == 1 && !l.items[0].IsRange:
			return l.items[0].String()
		}
	}

	parts := make([]string, len(l.items))
	for i, p := range l.items {
		parts[i] = p.String()
	}
	b := listBrackets[l.Mode]
	return string(b[0]) + strings.Join(parts, itemSeparator+" ") + string(b[1])
}
