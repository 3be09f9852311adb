package plan

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tcpspsuite/gridsubmit/cmd/util/flags/cliflags"
	"github.com/tcpspsuite/gridsubmit/cmd/util/output"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/planner"
)

type PlanOptions struct {
	WorkDir    string
	SolverBin  string
	HChunks    int
	VChunks    int
	JobID      string
	OutputOpts output.OutputOptions
}

func NewPlanOptions() *PlanOptions {
	return &PlanOptions{
		WorkDir:    ".",
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	o := NewPlanOptions()

	planCmd := &cobra.Command{
		Use:   "plan [flags] -- [solver args...]",
		Short: "Print the grid deploy would submit, without writing or submitting anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, args)
		},
	}

	fset := pflag.NewFlagSet("plan", pflag.ContinueOnError)
	fset.StringVar(&o.WorkDir, "work-dir", o.WorkDir, "Directory the scripts and storage files would live in.")
	fset.StringVar(&o.SolverBin, "solver-bin", o.SolverBin, "Path of the solver executable.")
	fset.IntVar(&o.HChunks, "hchunks", o.HChunks, "Number of independent partitions.")
	fset.IntVar(&o.VChunks, "vchunks", o.VChunks, "Number of sequential steps per partition.")
	fset.StringVar(&o.JobID, "job-id", o.JobID, "Label used in job names and IDs.")
	planCmd.Flags().AddFlagSet(fset)
	planCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&o.OutputOpts))
	for _, name := range []string{"solver-bin", "hchunks", "vchunks"} {
		if err := planCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("DEVELOPER ERROR: %s", err))
		}
	}
	return planCmd
}

var planColumns = []output.TableColumn[models.JobSpec]{
	{
		ColumnConfig: table.ColumnConfig{Name: "id"},
		Value:        func(j models.JobSpec) string { return j.ID },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "name"},
		Value:        func(j models.JobSpec) string { return j.Name },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "depends on"},
		Value:        func(j models.JobSpec) string { return j.DependsOn },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "storage"},
		Value:        func(j models.JobSpec) string { return j.StoragePath },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "command", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		Value:        func(j models.JobSpec) string { return strings.Join(j.Command, " ") },
	},
}

func (o *PlanOptions) Run(cmd *cobra.Command, solverArgs []string) error {
	plan, err := planner.Plan(planner.Request{
		HChunks:     o.HChunks,
		VChunks:     o.VChunks,
		BaseCommand: append([]string{o.SolverBin}, solverArgs...),
		Label:       o.JobID,
		WorkDir:     o.WorkDir,
	})
	if err != nil {
		return err
	}
	return output.Output(cmd, planColumns, o.OutputOpts, plan.Jobs())
}
