package edtf

import (
	"github.com/teranos/edtf/errors"
)

// MarshalText renders the canonical EDTF form, so Date encodes as a JSON
// or YAML string.
func (d Date) MarshalText() ([]byte, error) {
	if d.Status == StatusInvalid {
		return nil, errors.Wrap(errors.ErrInvalidExpression, "marshal invalid date")
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses one endpoint.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := parseDate(string(text))
	if err != nil {
		return errors.WithSecondaryError(
			errors.Wrapf(errors.ErrInvalidExpression, "date %q", text), err)
	}
	*d = parsed
	return nil
}

// MarshalText renders the canonical EDTF form.
func (p DatePair) MarshalText() ([]byte, error) {
	if p.Start.Status == StatusInvalid || p.End.Status == StatusInvalid {
		return nil, errors.Wrap(errors.ErrInvalidExpression, "marshal invalid pair")
	}
	return []byte(p.String()), nil
}

// UnmarshalText parses an interval, range or single date.
func (p *DatePair) UnmarshalText(text []byte) error {
	parsed, perr := parsePair(string(text))
	if perr.err != nil {
		return errors.WithSecondaryError(
			errors.Wrapf(errors.ErrInvalidExpression, "pair %q", text), perr.err)
	}
	*p = parsed
	return nil
}

// MarshalText renders the canonical EDTF form.
func (l DatePairList) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.Wrap(errors.ErrInvalidExpression, "marshal invalid list")
	}
	return []byte(l.String()), nil
}

// UnmarshalText parses a full expression. Empty text yields an empty list.
func (l *DatePairList) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*l = DatePairList{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
