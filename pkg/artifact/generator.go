// Package artifact renders the shell script each grid cell runs on its
// compute node.
package artifact

import (
	"fmt"
	"os"
	"strings"

	"github.com/c2h5oh/datasize"
	"mvdan.cc/sh/v3/syntax"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

const (
	DefaultShell = "/bin/bash"
	scriptMode   = 0o755
)

// Options shape the preamble shared by every script of a run.
type Options struct {
	Shell string
	// MemoryCeiling becomes the virtual memory ulimit. Zero leaves it unset.
	MemoryCeiling datasize.ByteSize
	// Bootstrap is inserted verbatim, e.g. environment module loads.
	Bootstrap string
}

type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	if opts.Shell == "" {
		opts.Shell = DefaultShell
	}
	return &Generator{opts: opts}
}

// CommandLine is the solver invocation with its output redirected to the
// cell log.
func (g *Generator) CommandLine(job models.JobSpec) (string, error) {
	words := make([]string, 0, len(job.Command))
	for _, arg := range job.Command {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quoting argument %q of %s: %w", arg, job.ID, err)
		}
		words = append(words, q)
	}
	logPath, err := quote(job.Artifacts.LogPath)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s > %s 2>&1", strings.Join(words, " "), logPath), nil
}

// Render builds the complete script and checks that it parses.
func (g *Generator) Render(job models.JobSpec) (string, error) {
	if len(job.Command) == 0 {
		return "", fmt.Errorf("job %s has no command", job.ID)
	}
	cmdLine, err := g.CommandLine(job)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#!%s\n\n", g.opts.Shell)
	if g.opts.MemoryCeiling > 0 {
		fmt.Fprintf(&b, "ulimit -v %d\n\n", uint64(g.opts.MemoryCeiling.KBytes()))
	}
	if bootstrap := strings.TrimSpace(g.opts.Bootstrap); bootstrap != "" {
		b.WriteString(bootstrap)
		b.WriteString("\n\n")
	}
	b.WriteString("ulimit -a\n\n")

	dumps := []struct{ cmd, path string }{
		{"env", job.Artifacts.EnvPath},
		{"cat /proc/cpuinfo", job.Artifacts.CPUInfoPath},
		{"cat /proc/meminfo", job.Artifacts.MemInfoPath},
	}
	wrote := false
	for _, d := range dumps {
		if d.path == "" {
			continue
		}
		target, err := quote(d.path)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s > %s\n", d.cmd, target)
		wrote = true
	}
	if wrote {
		b.WriteString("\n")
	}
	b.WriteString(cmdLine)
	b.WriteString("\n")

	// dmesg after the run shows whether the kernel killed the solver
	if job.Artifacts.DmesgPath != "" {
		target, err := quote(job.Artifacts.DmesgPath)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\ndmesg > %s\n", target)
	}

	script := b.String()
	if err := system.CheckBashSyntax([]string{script}); err != nil {
		return "", fmt.Errorf("generated script for %s does not parse: %w", job.ID, err)
	}
	return script, nil
}

// Write renders the script and stores it executable at the cell script path.
func (g *Generator) Write(job models.JobSpec) (string, error) {
	script, err := g.Render(job)
	if err != nil {
		return "", err
	}
	path := job.Artifacts.ScriptPath
	if path == "" {
		return "", fmt.Errorf("job %s has no script path", job.ID)
	}
	if err := os.WriteFile(path, []byte(script), scriptMode); err != nil {
		return "", fmt.Errorf("writing run script %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, scriptMode); err != nil {
		return "", fmt.Errorf("making %s executable: %w", path, err)
	}
	return path, nil
}

func quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quoting %q: %w", s, err)
	}
	return q, nil
}
