package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

const moabBinary = "msub"

// Moab submits with msub. It prints the job id on stdout.
type Moab struct {
	opts Options
}

func NewMoab(opts Options) *Moab {
	return &Moab{opts: opts}
}

func (m *Moab) Args(req SubmitRequest) []string {
	r := req.Resources
	args := []string{"-d", req.WorkDir}
	if m.opts.NotifyMail != "" {
		args = append(args, "-m", "bea", "-M", m.opts.NotifyMail)
	}
	args = append(args,
		"-l", fmt.Sprintf("nodes=%d:ppn=%d", r.NodeCount, r.CPUsPerNode),
		"-l", "walltime="+r.Walltime.MoabString(),
		"-l", fmt.Sprintf("pmem=%dMB", r.MemPerCPUMB),
		"-N", req.Name,
		"-q", m.opts.Queues.Name(r.Queue),
	)
	if req.DependsOn != "" {
		args = append(args, "-l", "depend=afterany:"+req.DependsOn.String())
	}
	return append(args, req.ScriptPath)
}

func (m *Moab) Submit(ctx context.Context, req SubmitRequest) (models.JobHandle, error) {
	return submit(ctx, m.opts.Runner, strings.TrimSpace, binaryOr(m.opts, moabBinary), m.Args(req))
}
