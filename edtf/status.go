package edtf

import (
	"fmt"

	"github.com/teranos/edtf/errors"
)

// Status describes what kind of value a Date holds.
type Status int

const (
	StatusUnused  Status = iota // no value was supplied
	StatusOpen                  // "open" interval endpoint
	StatusUnknown               // "unknown" interval endpoint
	StatusInvalid               // input did not match the grammar
	StatusNormal                // a parsed calendar date
)

var statusNames = map[Status]string{
	StatusUnused:  "unused",
	StatusOpen:    "open",
	StatusUnknown: "unknown",
	StatusInvalid: "invalid",
	StatusNormal:  "normal",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return errors.Newf("unknown status %q", text)
}

// ListMode tells whether a DatePairList means "one of" or "all of" its items.
type ListMode int

const (
	OneOfASet ListMode = iota // [a, b]
	Multiple                  // {a, b}
)

func (m ListMode) String() string {
	if m == Multiple {
		return "multiple"
	}
	return "one-of-a-set"
}

// MarshalText renders the mode name.
func (m ListMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (m *ListMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "multiple":
		*m = Multiple
	case "one-of-a-set", "":
		*m = OneOfASet
	default:
		return errors.Newf("unknown list mode %q", text)
	}
	return nil
}

// Season month values. A Date whose month holds one of these carries a
// season instead of a calendar month.
const (
	Spring = 21
	Summer = 22
	Autumn = 23
	Winter = 24
)

// seasonThreshold is the smallest month value treated as a season.
const seasonThreshold = 20

var seasonNames = map[int64]string{
	Spring: "spring",
	Summer: "summer",
	Autumn: "autumn",
	Winter: "winter",
}

// Precision is the finest component a Date specifies.
type Precision int

const (
	PrecisionNone Precision = iota
	PrecisionYear
	PrecisionSeason
	PrecisionMonth
	PrecisionDay
	PrecisionTime
)

func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionSeason:
		return "season"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionTime:
		return "time"
	}
	return "none"
}
