// Package sanity checks a workload description before anything is submitted
// and lets the operator decide whether to go on despite problems.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"

	"github.com/tcpspsuite/gridsubmit/pkg/confirm"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

// Check runs every pre-submission check and returns one finding per
// violation. It never changes anything on disk.
func Check(p Params) []models.ValidationFinding {
	var findings []models.ValidationFinding
	add := func(format string, args ...any) {
		findings = append(findings, models.NewWarning(fmt.Sprintf(format, args...)))
	}

	switch {
	case p.InstanceDir != nil && p.InstanceFile != nil:
		add("Specified both %s and %s", FlagInstanceDir, FlagInstanceFile)
	case p.InstanceDir != nil:
		if !isDir(*p.InstanceDir) {
			add("Instance directory %q seems not to be a directory", *p.InstanceDir)
		}
	case p.InstanceFile != nil:
		if !isRegularFile(*p.InstanceFile) {
			add("Instance file %q seems not to be a file", *p.InstanceFile)
		} else if err := validateJSON(*p.InstanceFile); err != nil {
			add("%s seems not to be valid JSON: %v", *p.InstanceFile, err)
		}
	default:
		add("No input specified, need one of %s or %s", FlagInstanceDir, FlagInstanceFile)
	}

	configParsed := false
	switch {
	case p.ConfigFile == nil:
		add("No config file specified (%s)", FlagConfigFile)
	case !isRegularFile(*p.ConfigFile):
		add("Config file %q seems not to be a file", *p.ConfigFile)
	default:
		if err := validateJSON(*p.ConfigFile); err != nil {
			add("%s seems not to be valid JSON: %v", *p.ConfigFile, err)
		} else {
			configParsed = true
		}
	}

	if p.Parallelism == nil {
		add("Looks like you have not specified %s", FlagParallelism)
	}
	if p.UniqueKey == nil {
		add("Looks like you have not specified %s", FlagUniqueKey)
	}

	if configParsed && p.ConfigSchema != "" {
		if msg := validateAgainstSchema(*p.ConfigFile, p.ConfigSchema); msg != "" {
			add("%s", msg)
		}
	}

	return findings
}

// Validator surfaces findings to an operator through a Confirmer.
type Validator struct {
	confirmer confirm.Confirmer
}

func NewValidator(c confirm.Confirmer) *Validator {
	return &Validator{confirmer: c}
}

// Run checks p and asks for confirmation of every finding in order. The first
// declined finding aborts with models.ErrConfirmationDeclined.
func (v *Validator) Run(ctx context.Context, p Params) error {
	for _, f := range Check(p) {
		log.Ctx(ctx).Warn().Str("severity", string(f.Severity)).Msg(f.Message)
		if !v.confirmer.Confirm(f.Message) {
			return models.Declined(f.Message)
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func validateJSON(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err = gojsonschema.NewBytesLoader(b).LoadJSON(); err != nil {
		return err
	}
	// LoadJSON stops after the first value.
	dec := json.NewDecoder(bytes.NewReader(b))
	var v any
	if err = dec.Decode(&v); err != nil {
		return err
	}
	if _, err = dec.Token(); err != io.EOF {
		return fmt.Errorf("extra data after the JSON value at offset %d", dec.InputOffset())
	}
	return nil
}

func validateAgainstSchema(docPath, schemaPath string) string {
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Sprintf("Config schema %q could not be read: %v", schemaPath, err)
	}
	doc, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Sprintf("Config file %q could not be read: %v", docPath, err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Sprintf("Config file %q could not be checked against %q: %v", docPath, schemaPath, err)
	}
	if result.Valid() {
		return ""
	}
	msg := fmt.Sprintf("Config file %q does not match schema %q:", docPath, schemaPath)
	for _, desc := range result.Errors() {
		msg += fmt.Sprintf("\n- %s", desc)
	}
	return msg
}
