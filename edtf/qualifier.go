package edtf

import (
	"strings"

	"github.com/teranos/edtf/errors"
)

// ErrUnbalanced is returned when an endpoint's parentheses do not pair up.
var ErrUnbalanced = errors.New("unbalanced parentheses")

type level int

const (
	levelYear level = iota
	levelMonth
	levelDay
	levelCount
	levelNone level = -1
)

// component is a set of levels, used for the reach of a marker.
type component uint8

const (
	compY component = 1 << levelYear
	compM component = 1 << levelMonth
	compD component = 1 << levelDay
)

func (c component) has(l level) bool { return c&(1<<l) != 0 }

// qualification is the resolved '?' and '~' sets of an endpoint.
type qualification struct {
	uncertain, approximate component
}

// scopeTracker follows parentheses across the year, month and day zones of
// one endpoint. A ')' closes the innermost group still open, day first.
type scopeTracker struct {
	opened     [levelCount]int
	closed     [levelCount]int
	justClosed level
	q          qualification
}

func newScopeTracker() *scopeTracker {
	return &scopeTracker{justClosed: levelNone}
}

func (t *scopeTracker) open(l level, parens string) {
	t.opened[l] += len(parens)
}

func (t *scopeTracker) close() error {
	for l := levelDay; l >= levelYear; l-- {
		if t.opened[l] > t.closed[l] {
			t.closed[l]++
			t.justClosed = l
			return nil
		}
	}
	return ErrUnbalanced
}

// protected reports whether a group at l was closed before the current
// zone began; flags from finer zones no longer reach it.
func (t *scopeTracker) protected(l level) bool {
	return t.closed[l] > 0
}

// zone consumes the marker run that follows the digits of l. reach returns
// the levels a flag reaches given the most recent close.
func (t *scopeTracker) zone(l level, end string) error {
	var protected [levelCount]bool
	for c := levelYear; c < l; c++ {
		protected[c] = t.protected(c)
	}
	t.justClosed = levelNone

	reach := func() component {
		r := component(1) << l
		for c := l - 1; c >= levelYear; c-- {
			if protected[c] {
				continue
			}
			// a ')' that sealed a level finer than c keeps the flag off c
			if t.justClosed != levelNone && t.justClosed > c {
				continue
			}
			r |= 1 << c
		}
		return r
	}

	for _, ch := range end {
		switch ch {
		case ')':
			if err := t.close(); err != nil {
				return err
			}
		case '?':
			t.q.uncertain |= reach()
		case '~':
			t.q.approximate |= reach()
		}
	}
	return nil
}

func (t *scopeTracker) balanced() bool {
	return t.opened == t.closed
}

// resolveQualification runs the zones of an endpoint in order and returns
// which components are uncertain and approximate.
func resolveQualification(f endpointFields) (qualification, error) {
	t := newScopeTracker()

	t.open(levelYear, f.YearOpen)
	if err := t.zone(levelYear, f.YearEnd); err != nil {
		return qualification{}, err
	}
	if f.Month != "" {
		t.open(levelMonth, f.MonthOpen)
		if err := t.zone(levelMonth, f.MonthEnd); err != nil {
			return qualification{}, err
		}
	}
	if f.Day != "" {
		t.open(levelDay, f.DayOpen)
		if err := t.zone(levelDay, f.DayEnd); err != nil {
			return qualification{}, err
		}
	}
	if !t.balanced() {
		return qualification{}, ErrUnbalanced
	}
	return t.q, nil
}

// Formatting is the inverse problem: choose parentheses and marker
// positions so that parsing the output yields the same qualification.

type slot int

const (
	slotYear       slot = iota // after the year digits
	slotMonthInner             // after the month digits, inside any group
	slotMonthOuter             // after the ')' of a month group
	slotDayInner               // after the day digits, inside any group
	slotDayOuter               // after the innermost ')' following the day
	slotCount
)

// layout is one parenthesis arrangement and the component set each marker
// slot reaches under it. A zero reach means the slot is not available.
type layout struct {
	monthGroup bool // "(MM)"
	dayGroup   bool // "(DD)"
	spanGroup  bool // "(MM-DD)"
	reach      [slotCount]component
}

// dayLayouts is in preference order. The last entry can express every
// combination, so the search always succeeds.
var dayLayouts = []layout{
	{reach: [slotCount]component{slotYear: compY, slotMonthInner: compY | compM, slotDayInner: compY | compM | compD}},
	{dayGroup: true, reach: [slotCount]component{slotYear: compY, slotMonthInner: compY | compM, slotDayInner: compY | compM | compD, slotDayOuter: compD}},
	{monthGroup: true, reach: [slotCount]component{slotYear: compY, slotMonthInner: compY | compM, slotMonthOuter: compM, slotDayInner: compY | compD}},
	{spanGroup: true, reach: [slotCount]component{slotYear: compY, slotMonthInner: compY | compM, slotDayInner: compY | compM | compD, slotDayOuter: compM | compD}},
	{monthGroup: true, dayGroup: true, reach: [slotCount]component{slotYear: compY, slotMonthInner: compY | compM, slotMonthOuter: compM, slotDayInner: compY | compD, slotDayOuter: compD}},
}

var monthLayouts = []layout{
	{reach: [slotCount]component{slotYear: compY, slotMonthInner: compY | compM}},
	{monthGroup: true, reach: [slotCount]component{slotYear: compY, slotMonthInner: compY | compM, slotMonthOuter: compM}},
}

var yearLayouts = []layout{
	{reach: [slotCount]component{slotYear: compY}},
}

// cover returns the fewest slots of l whose reaches union to exactly want.
func (l layout) cover(want component) ([]slot, bool) {
	if want == 0 {
		return nil, true
	}
	var usable []slot
	for s := slot(0); s < slotCount; s++ {
		if r := l.reach[s]; r != 0 && r&^want == 0 {
			usable = append(usable, s)
		}
	}

	var best []slot
	for subset := 1; subset < 1<<len(usable); subset++ {
		var (
			union  component
			picked []slot
		)
		for i, s := range usable {
			if subset&(1<<i) != 0 {
				union |= l.reach[s]
				picked = append(picked, s)
			}
		}
		if union == want && (best == nil || len(picked) < len(best)) {
			best = picked
		}
	}
	return best, best != nil
}

// placement is the chosen layout and the markers written at each slot.
type placement struct {
	layout
	uncertain, approximate [slotCount]bool
}

func (p placement) markers(s slot) string {
	return marks(p.uncertain[s], p.approximate[s])
}

// place picks the first layout able to express q.
func place(q qualification, depth level) placement {
	candidates := yearLayouts
	switch depth {
	case levelMonth:
		candidates = monthLayouts
	case levelDay:
		candidates = dayLayouts
	}

	for _, l := range candidates {
		us, okU := l.cover(q.uncertain)
		as, okA := l.cover(q.approximate)
		if !okU || !okA {
			continue
		}
		p := placement{layout: l}
		for _, s := range us {
			p.uncertain[s] = true
		}
		for _, s := range as {
			p.approximate[s] = true
		}
		return p
	}
	// unreachable: the final layout of each list covers every set
	return placement{layout: candidates[len(candidates)-1]}
}

// qualificationOf collects the flags of the populated parts of d.
func qualificationOf(d Date, depth level) qualification {
	var q qualification
	parts := [levelCount]DatePart{d.Year, d.Month, d.Day}
	for l := levelYear; l <= depth; l++ {
		if parts[l].IsUncertain {
			q.uncertain |= 1 << l
		}
		if parts[l].IsApproximate {
			q.approximate |= 1 << l
		}
	}
	return q
}

// writeQualified renders year, month and day digits with the markers and
// parentheses of the placement.
func writeQualified(b *strings.Builder, d Date, depth level) {
	p := place(qualificationOf(d, depth), depth)

	b.WriteString(d.Year.digits(4))
	b.WriteString(p.markers(slotYear))
	if depth < levelMonth {
		return
	}

	b.WriteByte('-')
	if p.monthGroup || p.spanGroup {
		b.WriteByte('(')
	}
	b.WriteString(d.Month.digits(2))
	b.WriteString(p.markers(slotMonthInner))
	if p.monthGroup {
		b.WriteByte(')')
		b.WriteString(p.markers(slotMonthOuter))
	}
	if depth == levelMonth {
		return
	}

	b.WriteByte('-')
	if p.dayGroup {
		b.WriteByte('(')
	}
	b.WriteString(d.Day.digits(2))
	b.WriteString(p.markers(slotDayInner))
	if p.dayGroup || p.spanGroup {
		b.WriteByte(')')
		b.WriteString(p.markers(slotDayOuter))
	}
}
