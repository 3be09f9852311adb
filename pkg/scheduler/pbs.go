package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

const pbsBinary = "qsub"

// PBS submits to PBS/Torque with qsub.
type PBS struct {
	opts Options
}

func NewPBS(opts Options) *PBS {
	return &PBS{opts: opts}
}

func (p *PBS) Args(req SubmitRequest) []string {
	r := req.Resources
	args := []string{
		"-d", req.WorkDir,
		"-N", req.Name,
		"-l", fmt.Sprintf("nodes=%d:ppn=%d", r.NodeCount, r.CPUsPerNode),
		"-l", "walltime=" + r.Walltime.PBSString(),
		"-l", fmt.Sprintf("pmem=%dmb", r.MemPerCPUMB),
		"-q", p.opts.Queues.Name(r.Queue),
	}
	if p.opts.NotifyMail != "" {
		args = append(args, "-m", "abe", "-M", p.opts.NotifyMail)
	}
	if req.DependsOn != "" {
		args = append(args, "-W", "depend=afterany:"+req.DependsOn.String())
	}
	return append(args, req.ScriptPath)
}

func (p *PBS) Submit(ctx context.Context, req SubmitRequest) (models.JobHandle, error) {
	return submit(ctx, p.opts.Runner, strings.TrimSpace, binaryOr(p.opts, pbsBinary), p.Args(req))
}
