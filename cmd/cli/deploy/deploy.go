package deploy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tcpspsuite/gridsubmit/cmd/util"
	"github.com/tcpspsuite/gridsubmit/cmd/util/flags"
	"github.com/tcpspsuite/gridsubmit/cmd/util/flags/cliflags"
	"github.com/tcpspsuite/gridsubmit/cmd/util/output"
	"github.com/tcpspsuite/gridsubmit/pkg/artifact"
	"github.com/tcpspsuite/gridsubmit/pkg/config"
	"github.com/tcpspsuite/gridsubmit/pkg/confirm"
	"github.com/tcpspsuite/gridsubmit/pkg/ledger/boltdb"
	"github.com/tcpspsuite/gridsubmit/pkg/logger"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/planner"
	"github.com/tcpspsuite/gridsubmit/pkg/sanity"
	"github.com/tcpspsuite/gridsubmit/pkg/scheduler"
	"github.com/tcpspsuite/gridsubmit/pkg/submitter"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
	"github.com/tcpspsuite/gridsubmit/pkg/walltime"
)

const sanityHeader = "!!!!!!!!!! Sanity Check Error !!!!!!!!!!!!"

var (
	deployLong = `Plan a grid of hchunks x vchunks jobs, write one run script per cell and
submit them so that the steps of each column run one after the other.

Everything after -- is handed to the solver unchanged.`

	//nolint:lll
	deployExample = `# Split a run into 4 independent partitions of 10 steps of 12 hours each
gridsubmit deploy --work-dir /work/exp7 --solver-bin /opt/solver \
  --time-per-step 43200 --hchunks 4 --vchunks 10 --job-id exp7 -- \
  -f /data/instance.json -c /data/config.json -p 16 -u exp7

# See what would be submitted without talking to a scheduler
gridsubmit deploy --dry-run --yes --work-dir /tmp/exp --solver-bin /opt/solver \
  --time-per-step 3600 --hchunks 2 --vchunks 2 -- -f instance.json -c config.json -p 4 -u key`
)

type DeployOptions struct {
	WorkDir      string
	SolverBin    string
	CPUsPerNode  int
	MBPerCPU     int
	TimePerStep  int64
	HChunks      int
	VChunks      int
	JobID        string
	Scheduler    scheduler.Kind
	DryRun       bool
	DryRunFailAt int
	Yes          bool
	ConfigSchema string
	OutputOpts   output.OutputOptions
}

func NewDeployOptions() *DeployOptions {
	return &DeployOptions{
		CPUsPerNode: 16,
		MBPerCPU:    4000,
		OutputOpts:  output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	o := NewDeployOptions()

	deployCmd := &cobra.Command{
		Use:     "deploy [flags] -- [solver args...]",
		Short:   "Plan, write and submit a grid of chained solver jobs",
		Long:    deployLong,
		Example: deployExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd, args)
		},
	}

	fset := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
	fset.StringVar(&o.WorkDir, "work-dir", o.WorkDir, "Directory for scripts, logs, storage files and the ledger. Created if missing.")
	fset.StringVar(&o.SolverBin, "solver-bin", o.SolverBin, "Path of the solver executable.")
	fset.IntVar(&o.CPUsPerNode, "cpus-per-node", o.CPUsPerNode, "CPUs requested per job.")
	fset.IntVar(&o.MBPerCPU, "mb-per-cpu", o.MBPerCPU, "Memory per CPU in MB.")
	fset.Int64Var(&o.TimePerStep, "time-per-step", o.TimePerStep, "Walltime of every step in seconds.")
	fset.IntVar(&o.HChunks, "hchunks", o.HChunks, "Number of independent partitions.")
	fset.IntVar(&o.VChunks, "vchunks", o.VChunks, "Number of sequential steps per partition.")
	fset.StringVar(&o.JobID, "job-id", o.JobID, "Label used in job names and IDs to tell runs apart.")
	fset.Var(flags.SchedulerKindFlag(&o.Scheduler), "scheduler",
		fmt.Sprintf("Scheduler to submit to, one of %q. Defaults to scheduler.kind from the configuration.", scheduler.Kinds()))
	fset.BoolVar(&o.DryRun, "dry-run", o.DryRun, "Write scripts and record handles without submitting anything.")
	fset.IntVar(&o.DryRunFailAt, "dry-run-fail-at", o.DryRunFailAt, "With --dry-run, reject the n-th submission (1-based).")
	fset.BoolVar(&o.Yes, "yes", o.Yes, "Answer yes to every confirmation.")
	fset.StringVar(&o.ConfigSchema, "config-schema", o.ConfigSchema, "JSON schema the solver config file (-c) must match.")
	_ = fset.MarkHidden("dry-run-fail-at")

	deployCmd.Flags().AddFlagSet(fset)
	deployCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&o.OutputOpts))
	for _, name := range []string{"work-dir", "solver-bin", "time-per-step", "hchunks", "vchunks"} {
		if err := deployCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("DEVELOPER ERROR: %s", err))
		}
	}

	return deployCmd
}

var summaryColumns = []output.TableColumn[models.SubmissionRecord]{
	{
		ColumnConfig: table.ColumnConfig{Name: "job"},
		Value:        func(r models.SubmissionRecord) string { return r.JobID },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "hchunk"},
		Value:        func(r models.SubmissionRecord) string { return fmt.Sprint(r.HChunk) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "vchunk"},
		Value:        func(r models.SubmissionRecord) string { return fmt.Sprint(r.VChunk) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "handle"},
		Value:        func(r models.SubmissionRecord) string { return r.Handle.String() },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "depends on"},
		Value:        func(r models.SubmissionRecord) string { return r.DependsOn.String() },
	},
}

// confirmer prompts on stderr. Every prompt of a run reads from the same in.
func (o *DeployOptions) confirmer(cmd *cobra.Command, in *bufio.Reader, header string) confirm.Confirmer {
	if o.Yes {
		return confirm.Always(true)
	}
	return confirm.NewTerminal(in, cmd.ErrOrStderr(), header)
}

func (o *DeployOptions) resources(cfg config.GridSubmitConfig, cmd *cobra.Command) (models.ResourceRequest, error) {
	if o.TimePerStep <= 0 {
		return models.ResourceRequest{}, fmt.Errorf("--time-per-step must be positive, got %d", o.TimePerStep)
	}
	cpus, mb := o.CPUsPerNode, o.MBPerCPU
	if !cmd.Flags().Changed("cpus-per-node") {
		cpus = cfg.Defaults.CPUsPerNode
	}
	if !cmd.Flags().Changed("mb-per-cpu") {
		mb = cfg.Defaults.MBPerCPU
	}
	wt, queue, err := walltime.EncodeChecked(o.TimePerStep)
	if err != nil {
		return models.ResourceRequest{}, err
	}
	res := models.NewResourceRequest(cpus, mb, wt, queue)
	return res, res.Validate()
}

func (o *DeployOptions) schedulerKind(cfg config.GridSubmitConfig) (scheduler.Kind, error) {
	switch {
	case o.DryRun:
		return scheduler.KindDryRun, nil
	case o.Scheduler != "":
		return o.Scheduler, nil
	default:
		return scheduler.ParseKind(cfg.Scheduler.Kind)
	}
}

// Run executes the whole deploy pipeline with the solver args in solverArgs.
func (o *DeployOptions) Run(ctx context.Context, cmd *cobra.Command, solverArgs []string) error {
	cfg, err := util.GetConfig(ctx)
	if err != nil {
		return err
	}
	res, err := o.resources(cfg, cmd)
	if err != nil {
		return err
	}
	kind, err := o.schedulerKind(cfg)
	if err != nil {
		return err
	}

	if rc := util.GetRunContext(ctx); rc.InsideJob() {
		log.Ctx(ctx).Warn().Str("job", rc.ActiveJobID()).
			Msg("running inside a batch job, submitted jobs will be children of this allocation")
	}

	in := bufio.NewReader(cmd.InOrStdin())
	params := sanity.ParamsFromSolverArgs(solverArgs)
	params.ConfigSchema = o.ConfigSchema
	if err = sanity.NewValidator(o.confirmer(cmd, in, sanityHeader)).Run(ctx, params); err != nil {
		return err
	}

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
	if plan.IsEmpty() {
		log.Ctx(ctx).Warn().Int("hchunks", o.HChunks).Int("vchunks", o.VChunks).Msg("grid is empty, nothing to submit")
		return nil
	}

	opts := cfg.SchedulerOptions()
	opts.DryRunFailAt = o.DryRunFailAt
	client, err := scheduler.New(kind, opts)
	if err != nil {
		return err
	}

	if err = system.EnsureDir(o.WorkDir); err != nil {
		return err
	}
	store, err := boltdb.OpenInWorkDir(o.WorkDir)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(context.Background()); closeErr != nil {
			log.Ctx(ctx).Warn().Err(closeErr).Msg("failed to close ledger")
		}
	}()

	sessionID := uuid.NewString()
	ctx = logger.ContextWithSessionLogger(ctx, sessionID)
	log.Ctx(ctx).Info().
		Str("scheduler", string(kind)).
		Int("jobs", plan.Len()).
		Str("walltime", res.Walltime.String()).
		Str("queue", res.Queue.String()).
		Msg("deploying grid")

	sub := submitter.NewSubmitter(submitter.SubmitterParams{
		Client: client,
		Scripts: artifact.NewGenerator(artifact.Options{
			Shell:         cfg.Script.Shell,
			MemoryCeiling: cfg.Script.MemoryCeiling,
			Bootstrap:     cfg.Script.Bootstrap,
		}),
		Confirmer: o.confirmer(cmd, in, ""),
		Recorder:  store,
		SessionID: sessionID,
		WorkDir:   o.WorkDir,
	})

	start := time.Now()
	records, submitErr := sub.Submit(ctx, plan, res)
	if len(records) > 0 {
		if err = output.Output(cmd, summaryColumns, o.OutputOpts, records); err != nil {
			return errors.Join(submitErr, err)
		}
	}
	if submitErr != nil {
		return submitErr
	}

	log.Ctx(ctx).Info().
		Int("submitted", len(records)).
		Dur("took", time.Since(start)).
		Str("ceiling", cfg.Script.MemoryCeiling.HR()).
		Msg("grid submitted")
	return nil
}
