package edtf

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/teranos/edtf/errors"
)

// DatePart is one fuzzy date component: a year, a month or a day.
//
// UnspecifiedMask marks digits written as 'u'; bit 0 is the least
// significant decimal digit of |Value|. InsignificantDigits counts the
// trailing digits written as 'x' (or excluded by a pN suffix). Masked and
// unspecified positions are stored as zero in Value.
type DatePart struct {
	Value               int64
	HasValue            bool
	IsUncertain         bool
	IsApproximate       bool
	UnspecifiedMask     uint64
	InsignificantDigits uint8
}

// maxYearWidth is the widest year written without the 'y' prefix.
const maxYearWidth = 4

// ErrOverflow is returned when a component does not fit in 64 bits.
var ErrOverflow = errors.New("date component overflows int64")

// parseDatePart builds a DatePart from its digit text. Scientific notation
// and 'x' masking are only honoured when extended is set, which is the
// case for years. Only a trailing run of 'x' masks digits.
func parseDatePart(digits string, extended bool) (DatePart, error) {
	if extended {
		if i := strings.IndexByte(digits, 'e'); i >= 0 {
			return parseScientific(digits[:i], digits[i+1:])
		}
	}

	var (
		part   DatePart
		buf    = []byte(digits)
		pos    int
		masked = true // still inside the trailing run of 'x'
	)
	for i := len(buf) - 1; i >= 0; i-- {
		c := buf[i]
		if c == '-' || c == '+' {
			continue
		}
		if c != 'x' {
			masked = false
		}
		switch c {
		case 'x':
			if !extended {
				return DatePart{}, errors.Newf("masked digit in %q", digits)
			}
			if !masked {
				return DatePart{}, errors.Newf("masked digits must be trailing in %q", digits)
			}
			if part.InsignificantDigits == math.MaxUint8 {
				return DatePart{}, errors.Wrapf(ErrOverflow, "too many masked digits in %q", digits)
			}
			part.InsignificantDigits++
			buf[i] = '0'
		case 'u':
			if pos >= 64 {
				return DatePart{}, errors.Wrapf(ErrOverflow, "unspecified digit beyond position 64 in %q", digits)
			}
			part.UnspecifiedMask |= 1 << uint(pos)
			buf[i] = '0'
		}
		pos++
	}

	v, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return DatePart{}, errors.Wrapf(ErrOverflow, "%q", digits)
		}
		return DatePart{}, errors.Wrapf(err, "parse digits %q", digits)
	}
	part.Value = v
	part.HasValue = true
	return part, nil
}

// parseScientific evaluates mantissa × 10^exponent without overflowing.
func parseScientific(mantissa, exponent string) (DatePart, error) {
	m, err := strconv.ParseInt(mantissa, 10, 64)
	if err != nil {
		return DatePart{}, errors.Wrapf(ErrOverflow, "mantissa %q", mantissa)
	}
	e, err := strconv.ParseUint(exponent, 10, 8)
	if err != nil {
		return DatePart{}, errors.Wrapf(ErrOverflow, "exponent %q", exponent)
	}
	v := m
	for i := uint64(0); i < e; i++ {
		if v > math.MaxInt64/10 || v < math.MinInt64/10 {
			return DatePart{}, errors.Wrapf(ErrOverflow, "%se%s", mantissa, exponent)
		}
		v *= 10
	}
	return DatePart{Value: v, HasValue: true}, nil
}

// applyPrecision marks everything past the first significant digits of a
// component written width characters wide as insignificant. A precision
// wider than the number clears the count.
func (p *DatePart) applyPrecision(significant string, width int) error {
	n, err := strconv.Atoi(significant)
	if err != nil {
		return errors.Wrapf(ErrOverflow, "precision %q", significant)
	}
	insig := width - n
	switch {
	case insig < 0:
		insig = 0
	case insig > math.MaxUint8:
		insig = math.MaxUint8
	}
	p.InsignificantDigits = uint8(insig)
	return nil
}

// writtenWidth is the number of digit positions the text occupied.
func writtenWidth(digits string, p DatePart) int {
	if strings.ContainsRune(digits, 'e') {
		return len(magnitude(p.Value))
	}
	return len(strings.TrimLeft(digits, "-+"))
}

// magnitude renders |v| in decimal, safe for math.MinInt64.
func magnitude(v int64) string {
	u := uint64(v)
	if v < 0 {
		u = uint64(-(v + 1)) + 1
	}
	return strconv.FormatUint(u, 10)
}

// digits renders the component without qualification markers: zero padded
// to at least pad characters, masked positions as 'x', unspecified
// positions as 'u', the sign, and the 'y' prefix when the body is wider
// than a four digit year. When the insignificant positions hold non-zero
// digits the full value is written with a pN suffix instead of 'x'.
func (p DatePart) digits(pad int) string {
	abs := magnitude(p.Value)
	width := pad
	if len(abs) > width {
		width = len(abs)
	}
	if hi := bits.Len64(p.UnspecifiedMask); hi > width {
		width = hi
	}
	if int(p.InsignificantDigits) > width {
		width = int(p.InsignificantDigits)
	}

	body := []byte(strings.Repeat("0", width-len(abs)) + abs)
	precision := ""
	if n := int(p.InsignificantDigits); n > 0 {
		tail := string(body[width-n:])
		if strings.Trim(tail, "0") == "" && !p.unspecifiedBelow(n) {
			for i := 0; i < n; i++ {
				body[width-1-i] = 'x'
			}
		} else {
			precision = "p" + strconv.Itoa(width-n)
		}
	}
	for b := 0; b < width && b < 64; b++ {
		if p.UnspecifiedMask&(1<<uint(b)) != 0 {
			body[width-1-b] = 'u'
		}
	}

	out := string(body)
	if p.Value < 0 {
		out = "-" + out
	}
	if width > maxYearWidth {
		out = "y" + out
	}
	return out + precision
}

// unspecifiedBelow reports whether any of the n lowest digits is 'u'.
func (p DatePart) unspecifiedBelow(n int) bool {
	if n >= 64 {
		return p.UnspecifiedMask != 0
	}
	return p.UnspecifiedMask&(1<<uint(n)-1) != 0
}

// Format renders the component padded to pad digits followed by its own
// markers.
func (p DatePart) Format(pad int) string {
	return p.FormatQualified(pad, false, false)
}

// FormatQualified is Format with the '?' or '~' marker suppressed when an
// enclosing component already carries it.
func (p DatePart) FormatQualified(pad int, suppressUncertain, suppressApproximate bool) string {
	return p.digits(pad) + marks(p.IsUncertain && !suppressUncertain, p.IsApproximate && !suppressApproximate)
}

// String renders the component with no padding.
func (p DatePart) String() string {
	return p.Format(0)
}

func marks(uncertain, approximate bool) string {
	switch {
	case uncertain && approximate:
		return "?~"
	case uncertain:
		return "?"
	case approximate:
		return "~"
	}
	return ""
}
