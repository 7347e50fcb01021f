package common

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// GetNewLogger creates a console logger writing to stderr
func GetNewLogger() *Logger {
	return NewLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// NewLogger creates a logger writing to w
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// NopLogger returns a logger which discards everything
func NopLogger() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// OrNop returns l or a discarding logger if l is nil
func OrNop(l *Logger) *Logger {
	if l == nil {
		return NopLogger()
	}
	return l
}

// SetLevel changes the minimal level of the messages being written
func (l *Logger) SetLevel(debug bool) {
	if debug {
		l.Logger = l.Logger.Level(zerolog.DebugLevel)
		return
	}
	l.Logger = l.Logger.Level(zerolog.InfoLevel)
}
