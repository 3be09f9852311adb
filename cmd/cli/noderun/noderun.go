package noderun

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcpspsuite/gridsubmit/cmd/util"
	"github.com/tcpspsuite/gridsubmit/pkg/logger"
	"github.com/tcpspsuite/gridsubmit/pkg/noderun"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

type NodeRunOptions struct {
	noderun.Request
}

func NewCmd() *cobra.Command {
	o := &NodeRunOptions{}

	nodeRunCmd := &cobra.Command{
		Use:   "node-run [flags] -- [solver args...]",
		Short: "Run the partition of this node inside a multi-node Slurm allocation",
		Long: `Run one solver partition per node of a Slurm allocation. Start it with one
task per node, e.g. srun --ntasks-per-node=1 gridsubmit node-run ...

Node SLURM_NODEID runs partition SLURM_NODEID of SLURM_JOB_NUM_NODES. The exit
status is the one of the solver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Args = args
			code, err := o.Run(cmd.Context(), util.GetRunContext(cmd.Context()))
			if err != nil {
				return err
			}
			if code != 0 {
				util.Fatal(cmd, fmt.Errorf("solver exited with status %d", code), code)
			}
			return nil
		},
	}
	nodeRunCmd.Flags().StringVar(&o.OutputDir, "output-dir", o.OutputDir, "Directory for storage and info files.")
	nodeRunCmd.Flags().StringVar(&o.SolverBin, "solver-bin", o.SolverBin, "Path of the solver executable.")
	nodeRunCmd.Flags().StringVar(&o.RunID, "run-id", o.RunID, "Identifier shared by all nodes of the run.")
	nodeRunCmd.Flags().IntVar(&o.Parallelism, "parallelism", o.Parallelism, "Passed to the solver as -p when positive.")
	for _, name := range []string{"output-dir", "solver-bin", "run-id"} {
		if err := nodeRunCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("DEVELOPER ERROR: %s", err))
		}
	}
	return nodeRunCmd
}

func (o *NodeRunOptions) Run(ctx context.Context, rc system.RunContext) (int, error) {
	ctx = logger.ContextWithJobLogger(ctx, rc.JobID)
	return noderun.NewRunner().Run(ctx, rc, o.Request)
}
