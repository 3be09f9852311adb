//go:build unit || !integration

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tcpspsuite/gridsubmit/pkg/config"
	"github.com/tcpspsuite/gridsubmit/pkg/logger"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

type RootSuite struct {
	suite.Suite
}

func TestRootSuite(t *testing.T) {
	suite.Run(t, new(RootSuite))
}

func (s *RootSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	s.T().Cleanup(config.Reset)
}

func (s *RootSuite) execute(args ...string) (string, error) {
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (s *RootSuite) TestPlanJSON() {
	out, err := s.execute("plan", "--work-dir", "/work", "--solver-bin", "/opt/solver",
		"--hchunks", "2", "--vchunks", "2", "--job-id", "exp7", "--output", "json", "--", "-p", "8")
	s.Require().NoError(err)

	var jobs []models.JobSpec
	s.Require().NoError(json.Unmarshal([]byte(out), &jobs))
	s.Require().Len(jobs, 4)
	s.Equal(jobs[0].ID, jobs[1].DependsOn)
	s.Equal([]string{
		"/opt/solver", "-p", "8",
		"-s", "/work/storage_hchunk_1.sqlite3", "--partition-count", "2", "--partition-number", "1",
	}, jobs[3].Command)
	s.NoFileExists(jobs[0].Artifacts.ScriptPath)
}

func (s *RootSuite) TestPlanTable() {
	out, err := s.execute("plan", "--solver-bin", "/opt/solver", "--hchunks", "1", "--vchunks", "2", "--no-style")
	s.Require().NoError(err)
	s.Contains(strings.ToUpper(out), "DEPENDS ON")
	s.Contains(out, "storage_hchunk_0.sqlite3")
}

func (s *RootSuite) TestValidate() {
	dir := s.T().TempDir()
	instance := filepath.Join(dir, "instance.json")
	cfg := filepath.Join(dir, "config.json")
	s.Require().NoError(os.WriteFile(instance, []byte(`{}`), 0o644))
	s.Require().NoError(os.WriteFile(cfg, []byte(`{}`), 0o644))

	out, err := s.execute("validate", "--", "-f", instance, "-c", cfg, "-p", "4", "-u", "k")
	s.Require().NoError(err)
	s.Contains(out, "No problems found")

	out, err = s.execute("validate", "--output", "json", "--", "-d", dir, "-f", instance)
	s.Require().ErrorContains(err, "sanity check finding")
	var findings []models.ValidationFinding
	s.Require().NoError(json.Unmarshal([]byte(out), &findings))
	s.Equal("Specified both -d and -f", findings[0].Message)
}

func (s *RootSuite) TestListWithoutLedger() {
	_, err := s.execute("list", "--work-dir", s.T().TempDir())
	s.ErrorContains(err, "no submissions recorded")
}

func (s *RootSuite) TestListAfterDeploy() {
	dir := s.T().TempDir()
	work := filepath.Join(dir, "work")
	instance := filepath.Join(dir, "instance.json")
	cfg := filepath.Join(dir, "config.json")
	s.Require().NoError(os.WriteFile(instance, []byte(`{}`), 0o644))
	s.Require().NoError(os.WriteFile(cfg, []byte(`{}`), 0o644))

	_, err := s.execute("deploy", "--work-dir", work, "--solver-bin", "/opt/solver",
		"--time-per-step", "90000", "--hchunks", "1", "--vchunks", "2", "--dry-run", "--yes",
		"--", "-f", instance, "-c", cfg, "-p", "4", "-u", "k")
	s.Require().NoError(err)

	out, err := s.execute("list", "--work-dir", work, "--output", "json")
	s.Require().NoError(err)
	var records []models.SubmissionRecord
	s.Require().NoError(json.Unmarshal([]byte(out), &records))
	s.Require().Len(records, 2)
	s.Equal(models.JobHandle("dry-0"), records[1].DependsOn)

	_, err = s.execute("list", "--work-dir", work, "--session", "unknown")
	s.ErrorContains(err, "unknown session")
}

func (s *RootSuite) TestConfigFileIsApplied() {
	path := filepath.Join(s.T().TempDir(), "gridsubmit.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("scheduler:\n  kind: lsf\n"), 0o644))
	_, err := s.execute("--config", path, "version")
	s.ErrorContains(err, "invalid configuration")
}

func (s *RootSuite) TestVersion() {
	out, err := s.execute("version", "--output", "yaml")
	s.Require().NoError(err)
	s.Contains(out, "GitVersion: v")
}

func (s *RootSuite) TestInvalidLogMode() {
	_, err := s.execute("--log-mode", "xml", "version")
	s.Error(err)
}

func (s *RootSuite) TestNodeRunUsesSchedulerEnvironment() {
	solver, err := exec.LookPath("true")
	if err != nil {
		s.T().Skip("no true binary available")
	}
	s.T().Setenv(system.EnvSlurmNodeID, "1")
	s.T().Setenv(system.EnvSlurmJobNodes, "2")
	s.T().Setenv(system.EnvSlurmJobID, "42")
	s.T().Setenv(system.EnvSlurmNodeName, "node02")
	out := s.T().TempDir()

	_, err = s.execute("node-run", "--output-dir", out, "--solver-bin", solver, "--run-id", "exp", "--", "-c", "cfg.json")
	s.Require().NoError(err)

	info, err := os.ReadFile(filepath.Join(out, "exp-1__node02-42__info.txt"))
	s.Require().NoError(err)
	s.Contains(string(info), "--partition-count 2 --partition-number 1")
}

func (s *RootSuite) TestNodeRunOutsideAllocation() {
	for _, key := range []string{system.EnvSlurmNodeID, system.EnvSlurmJobNodes} {
		s.T().Setenv(key, "")
	}
	_, err := s.execute("node-run", "--output-dir", s.T().TempDir(), "--solver-bin", "/opt/solver", "--run-id", "exp")
	s.ErrorContains(err, "only works inside a Slurm allocation")
}
