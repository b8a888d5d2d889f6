// Package sym defines the glyphs edtf prints in the CLI and attaches to log
// lines. They are stable across commands, logs and documentation.
package sym

// Command glyphs. Each top-level command has one.
const (
	AT      = "✦" // at: parse and render an expression
	IS      = "=" // is: canonical form of an expression
	AS      = "+" // as: validate, assert an expression is well formed
	SO      = "⟶" // so: check a manifest of expectations
	DB      = "⊔" // catalog storage
	AM      = "≡" // am: configuration
	Watch   = "✿" // file watcher re-running a check
	Version = "⍟"
)

// Result markers.
const (
	Valid   = "✓"
	Invalid = "✗"
	Open    = "‥" // open-ended endpoint
	Unknown = "?"
)

// entry binds a glyph to its command and description.
type entry struct {
	glyph       string
	command     string
	label       string
	description string
}

var registry = []entry{
	{AT, "parse", "Parse", "Break an expression into its dates and parts"},
	{IS, "normalize", "Normalize", "Print the canonical form of an expression"},
	{AS, "validate", "Validate", "Report whether an expression is well formed"},
	{SO, "check", "Check", "Run a file of expressions or a manifest of expectations"},
	{DB, "catalog", "Catalog", "Store and recall named expressions"},
	{AM, "am", "Configuration", "Show and change settings"},
	{Version, "version", "Version", "Print build information"},
}

// SymbolToCommand maps glyph strings to their command names.
var SymbolToCommand = make(map[string]string, len(registry))

// CommandToSymbol maps command names to their glyphs.
var CommandToSymbol = make(map[string]string, len(registry))

// CommandDescriptions provides one-line help for each command.
var CommandDescriptions = make(map[string]string, len(registry))

func init() {
	for _, e := range registry {
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.label + ": " + e.description
	}
}

// PaletteOrder is the order commands are listed in help output.
var PaletteOrder = []string{AT, IS, AS, SO, DB, AM}

// Glyph returns the glyph for a command name, or "" if there is none.
func Glyph(command string) string {
	return CommandToSymbol[command]
}

// Mark returns Valid or Invalid.
func Mark(ok bool) string {
	if ok {
		return Valid
	}
	return Invalid
}
