package flags

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/tcpspsuite/gridsubmit/cmd/util/output"
	"github.com/tcpspsuite/gridsubmit/pkg/logger"
	"github.com/tcpspsuite/gridsubmit/pkg/scheduler"
)

// A Parser turns the command line string into a native value.
type Parser[T any] func(string) (T, error)

// A Stringer renders the current value for help output.
type Stringer[T any] func(*T) string

// ValueFlag is a pflag.Value for any type with a parser and a stringer.
type ValueFlag[T any] struct {
	// A pointer to a variable that will be set by this flag.
	value *T

	// A Parser to turn the command line string into a native value.
	parser Parser[T]

	// A Stringer to turn the default value for the flag back into a native
	// string, to be printed as help.
	stringer Stringer[T]

	// How the value should be described in the help string. (e.g. string, int)
	typeStr string
}

// Set implements pflag.Value
func (s *ValueFlag[T]) Set(input string) error {
	value, err := s.parser(input)
	if err != nil {
		return err
	}
	*s.value = value
	return nil
}

// String implements pflag.Value
func (s *ValueFlag[T]) String() string {
	return s.stringer(s.value)
}

// Type implements pflag.Value
func (s *ValueFlag[T]) Type() string {
	return s.typeStr
}

var _ pflag.Value = (*ValueFlag[int])(nil)

func LoggingFlag(value *logger.LogMode) *ValueFlag[logger.LogMode] {
	return &ValueFlag[logger.LogMode]{
		value:    value,
		parser:   logger.ParseLogMode,
		stringer: func(p *logger.LogMode) string { return string(*p) },
		typeStr:  "logging-mode",
	}
}

func SchedulerKindFlag(value *scheduler.Kind) *ValueFlag[scheduler.Kind] {
	return &ValueFlag[scheduler.Kind]{
		value:    value,
		parser:   scheduler.ParseKind,
		stringer: func(k *scheduler.Kind) string { return string(*k) },
		typeStr:  "scheduler",
	}
}

func OutputFormatFlag(value *output.OutputFormat) *ValueFlag[output.OutputFormat] {
	return &ValueFlag[output.OutputFormat]{
		value: value,
		parser: func(s string) (output.OutputFormat, error) {
			o := output.OutputFormat(s)
			if !lo.Contains(output.AllFormats, o) {
				return "", fmt.Errorf("should be one of %q", output.AllFormats)
			}
			return o, nil
		},
		stringer: func(o *output.OutputFormat) string { return string(*o) },
		typeStr:  "format",
	}
}
