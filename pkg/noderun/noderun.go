// Package noderun runs one partition of the solver on a node of a
// multi-node Slurm allocation.
package noderun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tcpspsuite/gridsubmit/pkg/planner"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

// Request is what the operator passes to node-run.
type Request struct {
	OutputDir string
	SolverBin string
	RunID     string
	// Parallelism is forwarded as -p when positive.
	Parallelism int
	Args        []string
}

func (r Request) Validate() error {
	switch {
	case r.OutputDir == "":
		return errors.New("output dir is required")
	case r.SolverBin == "":
		return errors.New("solver binary is required")
	case r.RunID == "":
		return errors.New("run id is required")
	}
	return nil
}

// Invocation is the resolved command for this node.
type Invocation struct {
	StoragePath string
	InfoPath    string
	Command     []string
}

// Prepare resolves the partition this node runs from the allocation.
func Prepare(rc system.RunContext, req Request) (Invocation, error) {
	if err := req.Validate(); err != nil {
		return Invocation{}, err
	}
	if !rc.HasPartition() {
		return Invocation{}, fmt.Errorf("%s and %s must be set, node-run only works inside a Slurm allocation",
			system.EnvSlurmNodeID, system.EnvSlurmJobNodes)
	}

	prefix := filepath.Join(req.OutputDir, fmt.Sprintf("%s-%d__", req.RunID, rc.NodeID))
	storage := prefix + "storage.sqlite3"

	cmd := []string{
		req.SolverBin,
		planner.FlagStorage, storage,
		planner.FlagPartitionCount, strconv.Itoa(rc.JobNodes),
		planner.FlagPartitionNumber, strconv.Itoa(rc.NodeID),
		"-r", req.RunID,
	}
	if req.Parallelism > 0 {
		cmd = append(cmd, "-p", strconv.Itoa(req.Parallelism))
	}
	cmd = append(cmd, req.Args...)

	return Invocation{
		StoragePath: storage,
		InfoPath:    prefix + fmt.Sprintf("%s-%s__info.txt", rc.NodeName, rc.JobID),
		Command:     cmd,
	}, nil
}

// WriteInfo records what this node is about to run, followed by the
// environment sorted by key.
func WriteInfo(w io.Writer, rc system.RunContext, req Request, inv Invocation, environ []string) error {
	env := append([]string(nil), environ...)
	sort.Strings(env)

	var b strings.Builder
	fmt.Fprintf(&b, "Run ID: %s\n", req.RunID)
	fmt.Fprintf(&b, "Job ID: %s\n", rc.JobID)
	fmt.Fprintf(&b, "Node ID: %d / Node Name: %s\n", rc.NodeID, rc.NodeName)
	fmt.Fprintf(&b, "Node List: %s\n", rc.NodeList)
	fmt.Fprintf(&b, "Command: %s\n", strings.Join(inv.Command, " "))
	fmt.Fprintf(&b, "Slurm NProcs: %d / Slurm NTasks: %d / Slurm NCPUs: %d\n", rc.NProcs, rc.NTasks, rc.CPUsOnNode)
	fmt.Fprintf(&b, "Slurm Mem-per-CPU: %s\n", rc.MemPerCPU)
	b.WriteString("\n -------- Environment Dump ----------\n\n")
	for _, kv := range env {
		key, value, _ := strings.Cut(kv, "=")
		fmt.Fprintf(&b, "%s: \t%s\n", key, value)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Runner executes the solver in the foreground.
type Runner struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Environ func() []string
}

func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr, Environ: os.Environ}
}

// Run writes the info file, runs the solver and returns its exit code. The
// error is only set when the solver could not be started at all.
func (r *Runner) Run(ctx context.Context, rc system.RunContext, req Request) (int, error) {
	inv, err := Prepare(rc, req)
	if err != nil {
		return -1, err
	}
	if err := system.EnsureDir(req.OutputDir); err != nil {
		return -1, err
	}

	info, err := os.Create(inv.InfoPath)
	if err != nil {
		return -1, fmt.Errorf("creating info file: %w", err)
	}
	err = WriteInfo(info, rc, req, inv, r.Environ())
	if closeErr := info.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return -1, fmt.Errorf("writing info file %s: %w", inv.InfoPath, err)
	}

	log.Ctx(ctx).Info().
		Int("node_id", rc.NodeID).
		Int("node_count", rc.JobNodes).
		Str("storage", inv.StoragePath).
		Msg("starting solver")

	cmd := exec.CommandContext(ctx, inv.Command[0], inv.Command[1:]...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("running %s: %w", inv.Command[0], err)
	}
	return 0, nil
}
