package logger

// OutputCategory defines a category of output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information the CLI prints regardless of severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // parsed or normalized expressions
	OutputErrors                           // diagnostics with suggestions
	OutputUserStatus                       // final pass/fail summary

	// Level 1 (-v)
	OutputProgress // per-file progress while checking
	OutputConfig   // which config files were merged

	// Level 2 (-vv)
	OutputTiming // elapsed time per command
	OutputParse  // per-expression parse details

	// Level 3 (-vvv)
	OutputSQLQueries  // catalog statements
	OutputWatchEvents // raw file system events
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:     VerbosityUser,
	OutputErrors:      VerbosityUser,
	OutputUserStatus:  VerbosityUser,
	OutputProgress:    VerbosityInfo,
	OutputConfig:      VerbosityInfo,
	OutputTiming:      VerbosityDebug,
	OutputParse:       VerbosityDebug,
	OutputSQLQueries:  VerbosityTrace,
	OutputWatchEvents: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:     "results",
	OutputErrors:      "errors",
	OutputUserStatus:  "status",
	OutputProgress:    "progress",
	OutputConfig:      "config",
	OutputTiming:      "timing",
	OutputParse:       "parse",
	OutputSQLQueries:  "sql",
	OutputWatchEvents: "watch",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
