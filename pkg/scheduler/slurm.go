package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

const slurmBinary = "sbatch"

// Slurm submits with sbatch --parsable, which prints "jobid[;cluster]".
type Slurm struct {
	opts Options
}

func NewSlurm(opts Options) *Slurm {
	return &Slurm{opts: opts}
}

func (s *Slurm) Args(req SubmitRequest) []string {
	r := req.Resources
	args := []string{
		"--parsable",
		"-D", req.WorkDir,
		"-J", req.Name,
		fmt.Sprintf("--nodes=%d", r.NodeCount),
		"--ntasks=1",
		fmt.Sprintf("--cpus-per-task=%d", r.CPUsPerNode),
		fmt.Sprintf("--mem-per-cpu=%dM", r.MemPerCPUMB),
		"--time=" + r.Walltime.SlurmString(),
		"--partition=" + s.opts.Queues.Name(r.Queue),
	}
	if s.opts.NotifyMail != "" {
		args = append(args, "--mail-type=ALL", "--mail-user="+s.opts.NotifyMail)
	}
	if req.DependsOn != "" {
		args = append(args, "--dependency=afterany:"+req.DependsOn.String())
	}
	return append(args, req.ScriptPath)
}

func (s *Slurm) Submit(ctx context.Context, req SubmitRequest) (models.JobHandle, error) {
	return submit(ctx, s.opts.Runner, parseSlurmHandle, binaryOr(s.opts, slurmBinary), s.Args(req))
}

func parseSlurmHandle(out string) string {
	id, _, _ := strings.Cut(strings.TrimSpace(out), ";")
	return strings.TrimSpace(id)
}
