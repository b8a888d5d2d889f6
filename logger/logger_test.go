package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/edtf/sym"
)

// observe swaps the global logger for an in-memory one for the duration of
// the test.
func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := Logger
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = prev })
	return logs
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{"JSON output mode", true, VerbosityUser},
		{"Console output mode", false, VerbosityUser},
		{"Console debug", false, VerbosityDebug},
	}

	prev := Logger
	defer func() { Logger = prev; JSONOutput = false }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.Equal(t, VerbosityToLevel(tt.verbosity) == zapcore.DebugLevel,
				Logger.Desugar().Core().Enabled(zapcore.DebugLevel))
			Cleanup()
		})
	}
}

func TestInitialize_ThemeFromEnv(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev; SetTheme("everforest") }()

	t.Setenv(ThemeEnv, "gruvbox")
	require.NoError(t, Initialize(false, VerbosityUser))
	assert.Equal(t, "gruvbox", Theme())
}

func TestDefaultLoggerIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Infow("test", "key", "value")
		Warnw("test", "key", "value")
		Errorw("test", "key", "value")
		Debugw("test", "key", "value")
		DBInfow("stored")
		Cleanup()
	})
}

func TestNilLoggerIsSafe(t *testing.T) {
	prev := Logger
	Logger = nil
	defer func() { Logger = prev }()

	assert.NotPanics(t, func() {
		Infow("test")
		Errorw("test")
		CheckInfow("test")
		Cleanup()
	})
}

func TestLoggingFunctions(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	Infow("info", FieldExpression, "1984?")
	Warnw("warn")
	Errorw("error")
	Debugw("debug")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "1984?", entries[0].ContextMap()[FieldExpression])
	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
}

func TestSymbolHelpers(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	DBInfow("expression stored", FieldCatalogID, "abc")
	CheckWarnw("expectation failed")
	AMInfow("config loaded")
	SymbolInfow(sym.Watch, "file changed")
	AddDBSymbol(Logger).Infow("instance")

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, sym.DB, entries[0].ContextMap()[FieldSymbol])
	assert.Equal(t, "abc", entries[0].ContextMap()[FieldCatalogID])
	assert.Equal(t, sym.SO, entries[1].ContextMap()[FieldSymbol])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, sym.AM, entries[2].ContextMap()[FieldSymbol])
	assert.Equal(t, sym.Watch, entries[3].ContextMap()[FieldSymbol])
	assert.Equal(t, sym.DB, entries[4].ContextMap()[FieldSymbol])
}

func TestLoggerFromContext(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	ctx := WithFile(WithComponent(context.Background(), "check"), "dates.txt")
	assert.Equal(t, []interface{}{FieldComponent, "check", FieldFile, "dates.txt"}, FieldsFromContext(ctx))

	LoggerFromContext(ctx, nil).Infow("checked")
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "check", fields[FieldComponent])
	assert.Equal(t, "dates.txt", fields[FieldFile])

	assert.Empty(t, FieldsFromContext(context.Background()))
	assert.Same(t, Logger, LoggerFromContext(context.Background(), nil))
}

func TestComponentLogger(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	ComponentLogger("catalog").Infow("opened")
	assert.Equal(t, "catalog", logs.All()[0].LoggerName)
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))

	assert.Equal(t, "Info (-v)", LevelName(VerbosityInfo))
	assert.Equal(t, "Trace (-vvv+)", LevelName(5))
	assert.Equal(t, "Unknown", LevelName(-2))
}

func TestShouldOutput(t *testing.T) {
	tests := []struct {
		category OutputCategory
		minLevel int
	}{
		{OutputResults, VerbosityUser},
		{OutputErrors, VerbosityUser},
		{OutputProgress, VerbosityInfo},
		{OutputConfig, VerbosityInfo},
		{OutputTiming, VerbosityDebug},
		{OutputSQLQueries, VerbosityTrace},
		{OutputWatchEvents, VerbosityTrace},
		{OutputCategory(99), VerbosityTrace},
	}
	for _, tt := range tests {
		t.Run(CategoryName(tt.category), func(t *testing.T) {
			if tt.minLevel > 0 {
				assert.False(t, ShouldOutput(tt.minLevel-1, tt.category))
			}
			assert.True(t, ShouldOutput(tt.minLevel, tt.category))
		})
	}
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
}
