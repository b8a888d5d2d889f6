// Package edtf parses and formats Extended Date/Time Format expressions.
//
// EDTF extends ISO 8601 with markers for uncertainty (?) and approximation
// (~), unspecified digits (u), masked precision (x), open and unknown
// interval endpoints, seasons and years beyond four digits. Levels 0, 1 and
// 2 of the format are recognised.
//
// Three value types mirror the grammar:
//
//	Date          one endpoint: 2004-06-11, 1984?~, 19xx, open
//	DatePair      an interval (1964/2008) or a range (1667..1672)
//	DatePairList  a set of pairs: [1667, 1668] or {1960, 1961-12}
//
// Parsing never panics and never returns an error. Malformed input is
// reported through StatusInvalid; use Validate when a diagnostic is needed.
//
//	d := edtf.ParseDate("2004-(06)?-11")
//	d.Month.IsUncertain // true
//	d.Year.IsUncertain  // false
//	d.String()          // "2004-(06)?-11"
//
// All values are safe for concurrent use; the grammar is compiled once on
// first use.
package edtf
