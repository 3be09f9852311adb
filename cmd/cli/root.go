package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/tcpspsuite/gridsubmit/cmd/cli/deploy"
	"github.com/tcpspsuite/gridsubmit/cmd/cli/list"
	"github.com/tcpspsuite/gridsubmit/cmd/cli/noderun"
	"github.com/tcpspsuite/gridsubmit/cmd/cli/plan"
	"github.com/tcpspsuite/gridsubmit/cmd/cli/validate"
	"github.com/tcpspsuite/gridsubmit/cmd/cli/version"
	"github.com/tcpspsuite/gridsubmit/cmd/util"
	"github.com/tcpspsuite/gridsubmit/cmd/util/flags"
	"github.com/tcpspsuite/gridsubmit/pkg/config"
	"github.com/tcpspsuite/gridsubmit/pkg/logger"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

type spanKeyType struct{}

var spanKey = spanKeyType{}

type RootOptions struct {
	ConfigFile string
	LogLevel   string
	LogMode    logger.LogMode
}

func NewRootCmd() *cobra.Command {
	opts := &RootOptions{LogLevel: os.Getenv("LOG_LEVEL"), LogMode: logger.LogModeDefault}
	if mode, err := logger.ParseLogMode(os.Getenv("LOG_TYPE")); err == nil {
		opts.LogMode = mode
	}

	rootCmd := &cobra.Command{
		Use:   "gridsubmit",
		Short: "Partition a solver run into a grid of chained batch jobs",
		Long: `Partition a long running solver into a grid of batch jobs.

Every one of the hchunks independent columns is split into vchunks steps that
run strictly one after the other, each step resuming from the storage file of
its column. The jobs are submitted to Moab, Slurm or PBS.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-mode") {
				if err := logger.ConfigureLogging(opts.LogLevel, string(opts.LogMode)); err != nil {
					return err
				}
			}

			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx = util.WithConfig(ctx, cfg)
			ctx = util.WithRunContext(ctx, system.CurrentRunContext())

			var names []string
			for root := cmd; root.HasParent(); root = root.Parent() {
				names = append([]string{root.Name()}, names...)
			}
			ctx, span := system.Span(ctx, "gridsubmit", strings.Join(names, "."))
			ctx = context.WithValue(ctx, spanKey, span)

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if span, ok := ctx.Value(spanKey).(trace.Span); ok {
				span.End()
			}
		},
	}

	rootCmd.AddCommand(deploy.NewCmd())
	rootCmd.AddCommand(plan.NewCmd())
	rootCmd.AddCommand(validate.NewCmd())
	rootCmd.AddCommand(list.NewCmd())
	rootCmd.AddCommand(noderun.NewCmd())
	rootCmd.AddCommand(version.NewCmd())

	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", opts.ConfigFile,
		`Path to a YAML configuration file. Settings can also be given as GRIDSUBMIT_* environment variables.`)
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel,
		`Log level: 'trace', 'debug', 'info', 'warn' or 'error'. Defaults to LOG_LEVEL.`)
	rootCmd.PersistentFlags().Var(flags.LoggingFlag(&opts.LogMode), "log-mode",
		`Log format: 'default' or 'json'. Defaults to LOG_TYPE.`)

	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	rootCmd := NewRootCmd()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		util.Fatal(rootCmd, err, 1)
	}
}
