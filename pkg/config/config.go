package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/tcpspsuite/gridsubmit/pkg/scheduler"
)

const (
	environmentVariablePrefix = "GRIDSUBMIT"
	inferConfigTypes          = true
	configType                = "yaml"
)

var (
	environmentVariableReplace = strings.NewReplacer(".", "_")
	configDecoderHook          = viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())
)

// Load reads defaults, then the config file at path if path is not empty,
// then GRIDSUBMIT_* environment variables, and decodes the result.
func Load(path string) (GridSubmitConfig, error) {
	viper.SetEnvPrefix(environmentVariablePrefix)
	viper.SetTypeByDefaultValue(inferConfigTypes)
	viper.SetEnvKeyReplacer(environmentVariableReplace)
	for key, value := range Default {
		viper.SetDefault(key, value)
	}

	if path != "" {
		viper.SetConfigFile(path)
		viper.SetConfigType(configType)
		if err := viper.ReadInConfig(); err != nil {
			return GridSubmitConfig{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	viper.AutomaticEnv()

	var out GridSubmitConfig
	if err := viper.Unmarshal(&out, configDecoderHook); err != nil {
		return GridSubmitConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return out, nil
}

// Set overrides a single key, e.g. from a command line flag.
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// Reset clears all configuration, useful for testing.
func Reset() {
	viper.Reset()
}

// Getenv wraps os.Getenv and retrieves the value of the environment variable named by the config key.
func Getenv(key string) string {
	return os.Getenv(KeyAsEnvVar(key))
}

// KeyAsEnvVar returns the environment variable corresponding to a config key
func KeyAsEnvVar(key string) string {
	return strings.ToUpper(
		fmt.Sprintf("%s_%s", environmentVariablePrefix, environmentVariableReplace.Replace(key)),
	)
}

// Validate reports every invalid setting at once.
func (c GridSubmitConfig) Validate() error {
	var mErr multierror.Error
	if _, err := scheduler.ParseKind(c.Scheduler.Kind); err != nil {
		mErr.Errors = append(mErr.Errors, err)
	}
	if c.Scheduler.Queues.Short == "" || c.Scheduler.Queues.Long == "" {
		mErr.Errors = append(mErr.Errors, errors.New("both scheduler queue names must be set"))
	}
	if c.Script.Shell == "" {
		mErr.Errors = append(mErr.Errors, errors.New("script shell must be set"))
	}
	if c.Defaults.CPUsPerNode <= 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("invalid default cpus per node: %d", c.Defaults.CPUsPerNode))
	}
	if c.Defaults.MBPerCPU <= 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("invalid default memory per cpu: %dMB", c.Defaults.MBPerCPU))
	}
	return mErr.ErrorOrNil()
}

// SchedulerOptions maps the scheduler section onto adapter options.
func (c GridSubmitConfig) SchedulerOptions() scheduler.Options {
	return scheduler.Options{
		Binary:     c.Scheduler.Binary,
		NotifyMail: c.Scheduler.NotifyMail,
		Queues: scheduler.QueueNames{
			Short: c.Scheduler.Queues.Short,
			Long:  c.Scheduler.Queues.Long,
		},
	}
}
