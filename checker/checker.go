// Package checker runs EDTF expressions from files and reports which ones
// meet their expectations.
//
// Two input shapes are supported. A plain text file holds one expression per
// line; blank lines and lines starting with '#' are skipped, and a line
// starting with '!' is expected to be invalid:
//
//	1984?
//	2004-06~-11
//	! 1984-13-45
//
// A TOML manifest (.toml) lists cases with an expected outcome and,
// optionally, the expected canonical form:
//
//	[[case]]
//	expr = "2004-(06)?-11"
//	normalized = "2004-(06)?-11"
//
//	[[case]]
//	expr = "[1667, 1668"
//	expect = "list"
package checker

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/teranos/edtf/edtf"
	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
	"github.com/teranos/edtf/sym"
)

// Expectations a case may declare
const (
	ExpectValid   = "valid"
	ExpectInvalid = "invalid"
)

// Result statuses
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// Result is the outcome of one expression
type Result struct {
	File       string         `json:"file,omitempty" yaml:"file,omitempty"`
	Line       int            `json:"line" yaml:"line"`
	Expression string         `json:"expression" yaml:"expression"`
	Status     string         `json:"status" yaml:"status"`
	Kind       edtf.ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Normalized string         `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Pass       bool           `json:"pass" yaml:"pass"`
	Message    string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// Summary aggregates a run
type Summary struct {
	File     string        `json:"file,omitempty" yaml:"file,omitempty"`
	Total    int           `json:"total" yaml:"total"`
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Results  []Result      `json:"results" yaml:"results"`
}

// OK reports whether every case passed
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Failures returns the failing results
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Pass {
			out = append(out, r)
		}
	}
	return out
}

func (s *Summary) add(r Result) {
	s.Total++
	if r.Pass {
		s.Passed++
	} else {
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Options controls a run
type Options struct {
	FailFast bool               // stop at the first failing case
	Logger   *zap.SugaredLogger // nil uses the "check" component logger
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.ComponentLogger("check")
}

// Case is one manifest entry
type Case struct {
	Expr       string `toml:"expr"`
	Expect     string `toml:"expect"`     // valid (default), invalid, or an error kind
	Normalized string `toml:"normalized"` // expected canonical form, if set
}

// Manifest is a TOML file of cases
type Manifest struct {
	Cases []Case `toml:"case"`
}

// Evaluate runs one case. line is reported back in the result.
func Evaluate(c Case, line int) Result {
	r := Result{Line: line, Expression: c.Expr}
	expect := strings.ToLower(strings.TrimSpace(c.Expect))
	if expect == "" {
		expect = ExpectValid
	}

	list, err := edtf.Parse(c.Expr)
	if err != nil {
		r.Status = StatusInvalid
		r.Message = err.Error()
		var pe *edtf.ParseError
		if errors.As(err, &pe) {
			r.Kind = pe.Kind
		}
	} else {
		r.Status = StatusValid
		r.Normalized = list.String()
	}

	switch expect {
	case ExpectValid:
		r.Pass = r.Status == StatusValid
		if r.Pass && c.Normalized != "" && r.Normalized != c.Normalized {
			r.Pass = false
			r.Message = "normalized to " + quote(r.Normalized) + ", expected " + quote(c.Normalized)
		}
	case ExpectInvalid:
		r.Pass = r.Status == StatusInvalid
		if !r.Pass {
			r.Message = "expected invalid, normalized to " + quote(r.Normalized)
		}
	default:
		r.Pass = r.Status == StatusInvalid && string(r.Kind) == expect
		if !r.Pass {
			got := string(r.Kind)
			if r.Status == StatusValid {
				got = StatusValid
			}
			r.Message = "expected " + expect + " error, got " + got
		}
	}
	return r
}

func quote(s string) string {
	return `"` + s + `"`
}

// CheckLines evaluates one expression per line of r.
func CheckLines(ctx context.Context, r io.Reader, opts Options) (Summary, error) {
	start := time.Now()
	log := logger.LoggerFromContext(ctx, opts.logger())

	var sum Summary
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		c := Case{Expr: text}
		if rest, ok := strings.CutPrefix(text, "!"); ok {
			c = Case{Expr: strings.TrimSpace(rest), Expect: ExpectInvalid}
		}

		res := Evaluate(c, line)
		sum.add(res)
		logResult(log, res)
		if !res.Pass && opts.FailFast {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, errors.Wrap(err, "failed to read expressions")
	}

	sum.Duration = time.Since(start)
	return sum, nil
}

// LoadManifest reads a TOML manifest. Unknown keys are rejected so a typo
// does not silently drop an expectation.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.NewInvalidRequestError("manifest %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &m, nil
}

// CheckManifest evaluates every case of m. Result lines are 1-based case
// numbers.
func CheckManifest(ctx context.Context, m *Manifest, opts Options) (Summary, error) {
	start := time.Now()
	log := logger.LoggerFromContext(ctx, opts.logger())

	var sum Summary
	for i, c := range m.Cases {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res := Evaluate(c, i+1)
		sum.add(res)
		logResult(log, res)
		if !res.Pass && opts.FailFast {
			break
		}
	}
	sum.Duration = time.Since(start)
	return sum, nil
}

// CheckFile runs path as a manifest when it ends in .toml and as a line
// file otherwise.
func CheckFile(ctx context.Context, path string, opts Options) (Summary, error) {
	ctx = logger.WithFile(ctx, path)

	var (
		sum Summary
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var m *Manifest
		if m, err = LoadManifest(path); err != nil {
			return Summary{File: path}, err
		}
		sum, err = CheckManifest(ctx, m, opts)
	} else {
		f, openErr := os.Open(path)
		if openErr != nil {
			return Summary{File: path}, errors.Wrapf(openErr, "failed to open %s", path)
		}
		defer f.Close()
		sum, err = CheckLines(ctx, f, opts)
	}

	sum.File = path
	for i := range sum.Results {
		sum.Results[i].File = path
	}

	logger.LoggerFromContext(ctx, opts.logger()).Infow("Check finished",
		logger.FieldSymbol, sym.SO,
		logger.FieldCount, sum.Total,
		logger.FieldPassed, sum.Passed,
		logger.FieldFailed, sum.Failed,
		logger.FieldDurationMS, sum.Duration.Milliseconds())
	return sum, err
}

func logResult(log *zap.SugaredLogger, r Result) {
	fields := []interface{}{
		logger.FieldLine, r.Line,
		logger.FieldExpression, r.Expression,
		logger.FieldStatus, r.Status,
	}
	if r.Normalized != "" {
		fields = append(fields, logger.FieldNormalized, r.Normalized)
	}
	if r.Pass {
		log.Debugw("Expression checked", fields...)
		return
	}
	if r.Kind != "" {
		fields = append(fields, logger.FieldKind, string(r.Kind))
	}
	log.Warnw("Expectation failed", fields...)
}
