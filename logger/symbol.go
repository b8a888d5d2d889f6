package logger

import (
	"go.uber.org/zap"

	"github.com/teranos/edtf/sym"
)

// Symbol-aware logging helpers. The glyph goes in a structured field, not in
// the message, so logs stay queryable by symbol.
//
//	logger.DBInfow("expression stored", logger.FieldCatalogID, id)

// DBInfow logs an info message with the catalog symbol (⊔)
func DBInfow(msg string, keysAndValues ...interface{}) {
	symbolw(Logger.Infow, sym.DB, msg, keysAndValues)
}

// DBDebugw logs a debug message with the catalog symbol (⊔)
func DBDebugw(msg string, keysAndValues ...interface{}) {
	symbolw(Logger.Debugw, sym.DB, msg, keysAndValues)
}

// CheckInfow logs an info message with the check symbol (⟶)
func CheckInfow(msg string, keysAndValues ...interface{}) {
	symbolw(Logger.Infow, sym.SO, msg, keysAndValues)
}

// CheckWarnw logs a warning with the check symbol (⟶)
func CheckWarnw(msg string, keysAndValues ...interface{}) {
	symbolw(Logger.Warnw, sym.SO, msg, keysAndValues)
}

// AMInfow logs an info message with the config symbol (≡)
func AMInfow(msg string, keysAndValues ...interface{}) {
	symbolw(Logger.Infow, sym.AM, msg, keysAndValues)
}

// SymbolInfow logs with any symbol
func SymbolInfow(symbol, msg string, keysAndValues ...interface{}) {
	symbolw(Logger.Infow, symbol, msg, keysAndValues)
}

func symbolw(log func(string, ...interface{}), symbol, msg string, keysAndValues []interface{}) {
	if Logger == nil {
		return
	}
	fields := append([]interface{}{FieldSymbol, symbol}, keysAndValues...)
	log(msg, fields...)
}

// WithSymbol returns the global logger with the given symbol as a field.
func WithSymbol(symbol string) *zap.SugaredLogger {
	return Logger.With(FieldSymbol, symbol)
}

// AddDBSymbol wraps an instance logger with the catalog symbol (⊔)
func AddDBSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.DB)
}

// AddWatchSymbol wraps an instance logger with the watcher symbol (✿)
func AddWatchSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Watch)
}
