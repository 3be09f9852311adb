//go:build unit || !integration

package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/walltime"
)

type call struct {
	name string
	args []string
}

// recordingRunner remembers every command and replies with a fixed output.
type recordingRunner struct {
	calls  []call
	output string
	err    error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	return r.output, r.err
}

type AdapterSuite struct {
	suite.Suite
	runner *recordingRunner
	req    SubmitRequest
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterSuite))
}

func (s *AdapterSuite) SetupTest() {
	s.runner = &recordingRunner{output: "4711\n"}
	w, q := walltime.Encode(90061)
	s.req = SubmitRequest{
		ScriptPath: "/work/run_hchunk_0_vchunk_1.sh",
		Name:       "hchunk_1_of_2__vchunk_2_of_3",
		WorkDir:    "/work",
		Resources:  models.NewResourceRequest(16, 4000, w, q),
	}
}

func (s *AdapterSuite) opts() Options {
	return Options{Runner: s.runner, Queues: DefaultQueueNames}
}

func (s *AdapterSuite) TestMoabArgs() {
	m := NewMoab(Options{Runner: s.runner, Queues: DefaultQueueNames, NotifyMail: "ops@example.org"})
	s.req.DependsOn = "4710"
	handle, err := m.Submit(context.Background(), s.req)
	s.Require().NoError(err)
	s.Equal(models.JobHandle("4711"), handle)

	s.Require().Len(s.runner.calls, 1)
	s.Equal("msub", s.runner.calls[0].name)
	s.Equal([]string{
		"-d", "/work",
		"-m", "bea", "-M", "ops@example.org",
		"-l", "nodes=1:ppn=16",
		"-l", "walltime=1:01:01:01",
		"-l", "pmem=4000MB",
		"-N", "hchunk_1_of_2__vchunk_2_of_3",
		"-q", "singlenode",
		"-l", "depend=afterany:4710",
		"/work/run_hchunk_0_vchunk_1.sh",
	}, s.runner.calls[0].args)
}

func (s *AdapterSuite) TestMoabWithoutDependency() {
	args := NewMoab(s.opts()).Args(s.req)
	for _, a := range args {
		s.NotContains(a, "depend=")
	}
	s.Equal("/work/run_hchunk_0_vchunk_1.sh", args[len(args)-1])
	s.NotContains(args, "-M")
}

func (s *AdapterSuite) TestSlurmArgs() {
	s.runner.output = "81234;cluster-a\n"
	s.req.DependsOn = "81233"
	handle, err := NewSlurm(s.opts()).Submit(context.Background(), s.req)
	s.Require().NoError(err)
	s.Equal(models.JobHandle("81234"), handle)
	s.Equal("sbatch", s.runner.calls[0].name)
	s.Equal([]string{
		"--parsable",
		"-D", "/work",
		"-J", "hchunk_1_of_2__vchunk_2_of_3",
		"--nodes=1",
		"--ntasks=1",
		"--cpus-per-task=16",
		"--mem-per-cpu=4000M",
		"--time=1-01:01:01",
		"--partition=singlenode",
		"--dependency=afterany:81233",
		"/work/run_hchunk_0_vchunk_1.sh",
	}, s.runner.calls[0].args)
}

func (s *AdapterSuite) TestPBSArgsLongQueue() {
	w, q := walltime.Encode(4 * 86400)
	s.req.Resources = models.NewResourceRequest(8, 2000, w, q)
	s.req.DependsOn = "12.server"
	s.runner.output = "13.server\n"

	handle, err := NewPBS(s.opts()).Submit(context.Background(), s.req)
	s.Require().NoError(err)
	s.Equal(models.JobHandle("13.server"), handle)
	s.Equal("qsub", s.runner.calls[0].name)
	s.Equal([]string{
		"-d", "/work",
		"-N", "hchunk_1_of_2__vchunk_2_of_3",
		"-l", "nodes=1:ppn=8",
		"-l", "walltime=96:00:00",
		"-l", "pmem=2000mb",
		"-q", "verylong",
		"-W", "depend=afterany:12.server",
		"/work/run_hchunk_0_vchunk_1.sh",
	}, s.runner.calls[0].args)
}

func (s *AdapterSuite) TestBinaryOverride() {
	opts := s.opts()
	opts.Binary = "/usr/local/bin/sbatch-wrapper"
	_, err := NewSlurm(opts).Submit(context.Background(), s.req)
	s.Require().NoError(err)
	s.Equal("/usr/local/bin/sbatch-wrapper", s.runner.calls[0].name)
}

func (s *AdapterSuite) TestEmptyHandleIsAnError() {
	s.runner.output = "  \n"
	for _, c := range []Client{NewMoab(s.opts()), NewSlurm(s.opts()), NewPBS(s.opts())} {
		_, err := c.Submit(context.Background(), s.req)
		s.ErrorIs(err, ErrEmptyHandle)
	}
}

func (s *AdapterSuite) TestRunnerErrorIsWrapped() {
	cause := errors.New("exit status 1: queue closed")
	s.runner.err = cause
	_, err := NewMoab(s.opts()).Submit(context.Background(), s.req)
	s.ErrorIs(err, cause)
	s.ErrorContains(err, "msub")
}

func (s *AdapterSuite) TestDryRun() {
	d := NewDryRun(3)
	ctx := context.Background()
	h0, err := d.Submit(ctx, s.req)
	s.Require().NoError(err)
	h1, err := d.Submit(ctx, s.req)
	s.Require().NoError(err)
	s.Equal(models.JobHandle("dry-0"), h0)
	s.Equal(models.JobHandle("dry-1"), h1)

	_, err = d.Submit(ctx, s.req)
	s.Error(err)
	s.Len(d.Requests(), 3)
	s.Empty(s.runner.calls)
}

func (s *AdapterSuite) TestNew() {
	for _, k := range Kinds() {
		c, err := New(k, Options{Runner: s.runner})
		s.Require().NoError(err)
		s.NotNil(c)
	}
	_, err := New("lsf", Options{})
	s.Error(err)

	c, err := New(KindPBS, Options{Runner: s.runner})
	s.Require().NoError(err)
	s.Contains(c.(*PBS).Args(s.req), "singlenode", "default queue names apply")
}

func TestExecRunner(t *testing.T) {
	out, err := NewExecRunner().Run(context.Background(), "sh", "-c", "echo 4711")
	if err != nil || out != "4711\n" {
		t.Fatalf("unexpected result %q, %v", out, err)
	}
	_, err = NewExecRunner().Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("stderr should be part of the error, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" SLURM ")
	if err != nil || k != KindSlurm {
		t.Fatalf("ParseKind(SLURM) = %q, %v", k, err)
	}
	if _, err := ParseKind("lsf"); err == nil {
		t.Fatal("expected an error for an unknown scheduler")
	}
}
