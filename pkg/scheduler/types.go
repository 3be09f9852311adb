// Package scheduler submits run scripts to a batch scheduler and returns the
// handles it assigns.
package scheduler

//go:generate mockgen --source types.go --destination mocks.go --package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

// Kind names a scheduler adapter.
type Kind string

const (
	KindMoab   Kind = "moab"
	KindSlurm  Kind = "slurm"
	KindPBS    Kind = "pbs"
	KindDryRun Kind = "dryrun"
)

// Kinds lists every adapter New can build.
func Kinds() []Kind {
	return []Kind{KindMoab, KindSlurm, KindPBS, KindDryRun}
}

// ParseKind parses an adapter name, case insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown scheduler %q (valid: %q)", s, Kinds())
}

// ErrEmptyHandle is returned when a scheduler accepted a job without
// printing its id.
var ErrEmptyHandle = errors.New("scheduler returned an empty job handle")

// SubmitRequest is one job handed to the scheduler.
type SubmitRequest struct {
	ScriptPath string
	Name       string
	WorkDir    string
	Resources  models.ResourceRequest
	// DependsOn is the handle this job waits for, in after-any mode. Empty
	// for the first step of a column.
	DependsOn models.JobHandle
}

// Client submits one job at a time.
type Client interface {
	Submit(ctx context.Context, req SubmitRequest) (models.JobHandle, error)
}

// QueueNames maps queue classes to the queue names of a site.
type QueueNames struct {
	Short string
	Long  string
}

// Name returns the site queue for class q.
func (n QueueNames) Name(q models.Queue) string {
	if q == models.QueueLong {
		return n.Long
	}
	return n.Short
}

// DefaultQueueNames are the queue names of the cluster the tool grew up on.
var DefaultQueueNames = QueueNames{Short: "singlenode", Long: "verylong"}

// Options configure every adapter.
type Options struct {
	// Binary overrides the submit command, e.g. a wrapper around sbatch.
	Binary     string
	NotifyMail string
	Queues     QueueNames
	Runner     CommandRunner

	// DryRunFailAt makes the dry-run adapter fail its n-th call, counting
	// from one. Zero disables it.
	DryRunFailAt int
}

// New builds the adapter for kind.
func New(kind Kind, opts Options) (Client, error) {
	if opts.Runner == nil {
		opts.Runner = NewExecRunner()
	}
	if opts.Queues == (QueueNames{}) {
		opts.Queues = DefaultQueueNames
	}
	switch kind {
	case KindMoab:
		return NewMoab(opts), nil
	case KindSlurm:
		return NewSlurm(opts), nil
	case KindPBS:
		return NewPBS(opts), nil
	case KindDryRun:
		return NewDryRun(opts.DryRunFailAt), nil
	default:
		return nil, fmt.Errorf("unknown scheduler %q", kind)
	}
}

func binaryOr(opts Options, fallback string) string {
	if opts.Binary != "" {
		return opts.Binary
	}
	return fallback
}

// submit runs the scheduler command and turns its stdout into a handle.
func submit(ctx context.Context, runner CommandRunner, parse func(string) string, name string, args []string) (models.JobHandle, error) {
	out, err := runner.Run(ctx, name, args...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	handle := models.JobHandle(parse(out))
	if handle == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmptyHandle)
	}
	return handle, nil
}
