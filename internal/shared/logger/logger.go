package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"oneshot/internal/shared/types"
)

// Init initializes the global zerolog logger. Logs go to out (stderr when nil)
// so that stdout carries only the received message.
func Init(cfg types.LogConf, out io.Writer) zerolog.Level {
	if out == nil {
		out = os.Stderr
	}

	level := ParseLevel(cfg.Level, out)

	// Force all timestamps to be in UTC.
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	_, isFile := out.(*os.File)
	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !isFile,
		TimeFormat: "2006-01-02 15:04:05",
	}

	log.Logger = zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	Debug().Msgf("logger initialized with level: %s", level.String())
	return level
}

// ParseLevel maps a config level to zerolog, falling back to info with a notice on w.
func ParseLevel(s string, w io.Writer) zerolog.Level {
	levelStr := strings.ToLower(strings.TrimSpace(s))
	if levelStr == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || level == zerolog.NoLevel {
		if w != nil {
			fmt.Fprintf(w, "Unknown log level '%s', defaulting to 'info'\n", levelStr)
		}
		return zerolog.InfoLevel
	}
	return level
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Event is a wrapper for a zerolog event.
type Event struct {
	*zerolog.Event
}

// Debug starts a new message with debug level.
func Debug() *Event {
	return &Event{log.Debug()}
}

// Info starts a new message with info level.
func Info() *Event {
	return &Event{log.Info()}
}

// Warn starts a new message with warning level.
func Warn() *Event {
	return &Event{log.Warn()}
}

// Error starts a new message with error level.
func Error() *Event {
	return &Event{log.Error()}
}

// Str adds a string field to the event.
func (e *Event) Str(key, value string) *Event {
	e.Event = e.Event.Str(key, value)
	return e
}

// Int adds an integer field to the event.
func (e *Event) Int(key string, value int) *Event {
	e.Event = e.Event.Int(key, value)
	return e
}

// Err adds an error field to the event.
func (e *Event) Err(err error) *Event {
	e.Event = e.Event.Err(err)
	return e
}

// Msgf sends the event with a formatted message.
func (e *Event) Msgf(format string, v ...interface{}) {
	e.Event.Msgf(format, v...)
}
