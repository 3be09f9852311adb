//go:build unit || !integration

package sanity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tcpspsuite/gridsubmit/pkg/confirm"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

type ValidatorSuite struct {
	suite.Suite
	dir string
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ValidatorSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ptr(s string) *string { return &s }

// validParams passes every check.
func (s *ValidatorSuite) validParams() Params {
	return Params{
		InstanceFile: ptr(s.writeFile("instance.json", `{"jobs": []}`)),
		ConfigFile:   ptr(s.writeFile("config.json", `{"solver": "ilp"}`)),
		Parallelism:  ptr("16"),
		UniqueKey:    ptr("run-1"),
	}
}

func (s *ValidatorSuite) TestValidParamsHaveNoFindings() {
	s.Empty(Check(s.validParams()))
}

func (s *ValidatorSuite) TestInstanceDirectory() {
	p := s.validParams()
	p.InstanceFile = nil
	p.InstanceDir = ptr(s.dir)
	s.Empty(Check(p))

	p.InstanceDir = ptr(filepath.Join(s.dir, "missing"))
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "not to be a directory")
}

func (s *ValidatorSuite) TestBothInputsGiveExactlyOneFinding() {
	p := s.validParams()
	p.InstanceDir = ptr(filepath.Join(s.dir, "missing"))
	p.InstanceFile = ptr(filepath.Join(s.dir, "missing.json"))
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "both -d and -f")
}

func (s *ValidatorSuite) TestNoInput() {
	p := s.validParams()
	p.InstanceFile = nil
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "No input specified")
}

func (s *ValidatorSuite) TestMissingInstanceFile() {
	p := s.validParams()
	p.InstanceFile = ptr(filepath.Join(s.dir, "nope.json"))
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "not to be a file")
}

func (s *ValidatorSuite) TestMalformedConfig() {
	p := s.validParams()
	p.ConfigFile = ptr(s.writeFile("broken.json", "{not json"))
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "not to be valid JSON")
	s.True(findings[0].Blocking)
}

func (s *ValidatorSuite) TestMalformedInstanceFile() {
	p := s.validParams()
	p.InstanceFile = ptr(s.writeFile("broken-instance.json", `{"jobs": [`))
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "broken-instance.json seems not to be valid JSON")
}

func (s *ValidatorSuite) TestInstanceDirectoryIsARegularFile() {
	p := s.validParams()
	p.InstanceDir = p.InstanceFile
	p.InstanceFile = nil
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "not to be a directory")
}

func (s *ValidatorSuite) TestTrailingDataIsNotValidJSON() {
	for i, content := range []string{`{} {not json`, `{"a":1}}`, `{}]`, `[1,2] garbage`, `{} {}`} {
		name := fmt.Sprintf("trailing-%d.json", i)

		p := s.validParams()
		p.ConfigFile = ptr(s.writeFile(name, content))
		findings := Check(p)
		s.Require().Len(findings, 1, "config %q", content)
		s.Contains(findings[0].Message, "not to be valid JSON")

		p = s.validParams()
		p.InstanceFile = ptr(s.writeFile(name, content))
		findings = Check(p)
		s.Require().Len(findings, 1, "instance %q", content)
		s.Contains(findings[0].Message, "not to be valid JSON")
	}
}

func (s *ValidatorSuite) TestTrailingWhitespaceIsValid() {
	p := s.validParams()
	p.ConfigFile = ptr(s.writeFile("newline.json", "{\"solver\": \"ilp\"}\n\n  \t"))
	s.Empty(Check(p))
}

func (s *ValidatorSuite) TestEmptyObjectConfigIsValid() {
	p := s.validParams()
	p.ConfigFile = ptr(s.writeFile("empty.json", "{}"))
	s.Empty(Check(p))
}

func (s *ValidatorSuite) TestMissingConfigParallelismAndKey() {
	p := s.validParams()
	p.ConfigFile = nil
	p.Parallelism = nil
	p.UniqueKey = nil
	s.Len(Check(p), 3)
}

func (s *ValidatorSuite) TestConfigSchema() {
	schema := s.writeFile("schema.json", `{
		"type": "object",
		"required": ["solver"],
		"properties": {"solver": {"type": "string"}}
	}`)

	p := s.validParams()
	p.ConfigSchema = schema
	s.Empty(Check(p))

	p.ConfigFile = ptr(s.writeFile("wrong.json", `{"solver": 3}`))
	findings := Check(p)
	s.Require().Len(findings, 1)
	s.Contains(findings[0].Message, "does not match schema")

	// a config that does not parse is reported once, not again by the schema check
	p.ConfigFile = ptr(s.writeFile("broken.json", "{"))
	s.Len(Check(p), 1)
}

func (s *ValidatorSuite) TestRunAcceptsAllFindings() {
	p := s.validParams()
	p.Parallelism = nil
	p.UniqueKey = nil
	answers := &confirm.Scripted{Answers: []bool{true, true}}
	s.NoError(NewValidator(answers).Run(context.Background(), p))
	s.Len(answers.Prompts, 2)
}

func (s *ValidatorSuite) TestRunStopsAtFirstDecline() {
	p := s.validParams()
	p.Parallelism = nil
	p.UniqueKey = nil
	answers := &confirm.Scripted{Answers: []bool{false, true}}
	err := NewValidator(answers).Run(context.Background(), p)
	s.ErrorIs(err, models.ErrConfirmationDeclined)
	s.Len(answers.Prompts, 1)
}

func (s *ValidatorSuite) TestRunWithoutFindingsDoesNotPrompt() {
	answers := &confirm.Scripted{}
	s.NoError(NewValidator(answers).Run(context.Background(), s.validParams()))
	s.Empty(answers.Prompts)
}

func TestParamsFromSolverArgs(t *testing.T) {
	p := ParamsFromSolverArgs([]string{"-f", "inst.json", "-c", "cfg.json", "-p", "8", "--verbose", "-u"})
	if p.InstanceFile == nil || *p.InstanceFile != "inst.json" {
		t.Fatalf("instance file not extracted: %v", p.InstanceFile)
	}
	if p.ConfigFile == nil || *p.ConfigFile != "cfg.json" {
		t.Fatalf("config file not extracted: %v", p.ConfigFile)
	}
	if p.Parallelism == nil || *p.Parallelism != "8" {
		t.Fatalf("parallelism not extracted: %v", p.Parallelism)
	}
	if p.UniqueKey != nil {
		t.Fatalf("trailing -u without value must be unset, got %q", *p.UniqueKey)
	}
	if p.InstanceDir != nil {
		t.Fatalf("instance dir must be unset")
	}
}
