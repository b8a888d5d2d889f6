package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme.
type palette struct {
	fg        string
	time      string
	component string
	accent    string // expressions
	number    string
	good      string
	warn      string
	warnBg    string
	bad       string
	badBg     string
}

var themes = map[string]palette{
	// Everforest Dark: natural forest greens
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		component: "\x1b[38;5;208m",
		accent:    "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		good:      "\x1b[38;5;108m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		bad:       "\x1b[38;5;167m",
		badBg:     "\x1b[48;5;52m",
	},
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		component: "\x1b[38;5;214m",
		accent:    "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		good:      "\x1b[38;5;142m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		bad:       "\x1b[38;5;167m",
		badBg:     "\x1b[48;5;88m",
	},
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown names are
// ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

// Theme returns the active theme name.
func Theme() string {
	return currentTheme
}

func colors() palette {
	return themes[currentTheme]
}

// minimalEncoder is a compact console encoder:
//
//	13:04:35  catalog  expression stored  "2004-06?" valid catalog_id=5f0c…
type minimalEncoder struct {
	zapcore.Encoder // base encoder for With() field accumulation
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if badge := levelBadge(ent.Level, c); badge != "" {
		final.AppendString("  ")
		final.AppendString(badge)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.component)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if rendered := renderFields(fields, c); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

func levelBadge(level zapcore.Level, c palette) string {
	switch level {
	case zapcore.DebugLevel, zapcore.InfoLevel:
		return ""
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	}
	return colorBold + c.badBg + c.bad + level.CapitalString() + colorReset
}

// renderFields writes every field. Expressions and statuses get their own
// formatting; everything else is key=value in a stable order.
func renderFields(fields []zapcore.Field, c palette) string {
	m := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(m)
	}

	var lead, rest []string
	if v, ok := m.Fields[FieldExpression]; ok {
		lead = append(lead, c.accent+fmt.Sprintf("%q", fmt.Sprint(v))+colorReset)
		delete(m.Fields, FieldExpression)
	}
	if v, ok := m.Fields[FieldStatus]; ok {
		lead = append(lead, statusColor(fmt.Sprint(v), c)+fmt.Sprint(v)+colorReset)
		delete(m.Fields, FieldStatus)
	}
	if v, ok := m.Fields[FieldDurationMS]; ok {
		lead = append(lead, c.number+fmt.Sprint(v)+colorReset+"ms")
		delete(m.Fields, FieldDurationMS)
	}

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		// stack traces from errorVerbose belong in JSON output only
		if strings.HasSuffix(k, "Verbose") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rest = append(rest, k+"="+c.number+fmt.Sprint(m.Fields[k])+colorReset)
	}

	return strings.Join(append(lead, rest...), " ")
}

func statusColor(status string, c palette) string {
	switch status {
	case "valid", "pass", "ok":
		return c.good
	case "invalid", "fail":
		return c.bad
	}
	return c.fg
}
