package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogMode string

// Available logging modes
const (
	LogModeDefault LogMode = "default"
	LogModeJSON    LogMode = "json"
)

const (
	sessionIDFieldName = "Session"
	jobIDFieldName     = "JobID"
)

var stderr = struct{ io.Writer }{os.Stderr}

func init() { //nolint:gochecknoinits // init with zerolog is idiomatic
	level, err := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	mode, err := ParseLogMode(os.Getenv("LOG_TYPE"))
	if err != nil {
		mode = LogModeDefault
	}
	configureLogging(level, mode)
}

// ParseLogMode accepts "default" and "json", case insensitive.
func ParseLogMode(s string) (LogMode, error) {
	switch LogMode(strings.ToLower(strings.TrimSpace(s))) {
	case LogModeDefault, "":
		return LogModeDefault, nil
	case LogModeJSON:
		return LogModeJSON, nil
	}
	return "", fmt.Errorf("%q is an invalid log-mode (valid modes: %q)", s, []LogMode{LogModeDefault, LogModeJSON})
}

// ParseLogLevel maps a level name to a zerolog level. An empty name is info.
func ParseLogLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}

// ConfigureLogging installs the global logger for the given level and mode.
func ConfigureLogging(level, mode string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	m, err := ParseLogMode(mode)
	if err != nil {
		return err
	}
	configureLogging(lvl, m)
	return nil
}

type tTesting interface {
	zerolog.TestingLog
	Cleanup(f func())
}

// ConfigureTestLogging allows logs to be associated with individual tests
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	oldLevel := zerolog.GlobalLevel()
	configureLogging(zerolog.DebugLevel, LogModeDefault, zerolog.ConsoleTestWriter(t))
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
		zerolog.SetGlobalLevel(oldLevel)
	})
}

func configureLogging(level zerolog.Level, mode LogMode, loggingOptions ...func(w *zerolog.ConsoleWriter)) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd())

	defaultLogging := func(w *zerolog.ConsoleWriter) {
		w.Out = stderr
		w.NoColor = !isTerminal
		w.TimeFormat = "15:04:05.999 |"
		w.PartsOrder = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		}

		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}

		w.FormatFieldValue = func(i interface{}) string {
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}

	zerolog.CallerMarshalFunc = marshalCaller

	var useLogWriter io.Writer
	if mode == LogModeJSON {
		useLogWriter = stderr
	} else {
		loggingOptions = append([]func(w *zerolog.ConsoleWriter){defaultLogging}, loggingOptions...)
		useLogWriter = zerolog.NewConsoleWriter(loggingOptions...)
	}

	log.Logger = zerolog.New(useLogWriter).With().Timestamp().Caller().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// marshalCaller keeps the last two path elements of the source file.
func marshalCaller(_ uintptr, file string, line int) string {
	short := file

	separatorCount := 2
	countedSeparators := 0

	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			countedSeparators += 1
			if countedSeparators >= separatorCount {
				short = file[i+1:]
				break
			}
		}
	}
	return short + ":" + strconv.Itoa(line)
}

// ContextWithSessionLogger returns a context whose logger tags every line
// with the deploy session id.
func ContextWithSessionLogger(ctx context.Context, sessionID string) context.Context {
	l := log.With().Str(sessionIDFieldName, sessionID).Logger()
	return l.WithContext(ctx)
}

// ContextWithJobLogger adds the grid cell id to the context logger.
func ContextWithJobLogger(ctx context.Context, jobID string) context.Context {
	l := log.Ctx(ctx).With().Str(jobIDFieldName, jobID).Logger()
	return l.WithContext(ctx)
}
