package list

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tcpspsuite/gridsubmit/cmd/util/flags/cliflags"
	"github.com/tcpspsuite/gridsubmit/cmd/util/output"
	"github.com/tcpspsuite/gridsubmit/pkg/ledger"
	"github.com/tcpspsuite/gridsubmit/pkg/ledger/boltdb"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

type ListOptions struct {
	WorkDir    string
	Session    string
	OutputOpts output.OutputOptions
}

func NewListOptions() *ListOptions {
	return &ListOptions{
		WorkDir:    ".",
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	o := NewListOptions()

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the jobs submitted from a work dir",
		Long: `List the scheduler handles recorded by deploy in the ledger of a work dir,
for all deploy sessions or just one. Use the handles to cancel jobs by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.Run(cmd.Context(), cmd)
		},
	}
	listCmd.Flags().StringVar(&o.WorkDir, "work-dir", o.WorkDir, "Work dir holding the ledger.")
	listCmd.Flags().StringVar(&o.Session, "session", o.Session, "Only list the records of this deploy session.")
	listCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&o.OutputOpts))
	return listCmd
}

var listColumns = []output.TableColumn[models.SubmissionRecord]{
	{
		ColumnConfig: table.ColumnConfig{Name: "session", WidthMax: 8, WidthMaxEnforcer: func(col string, maxLen int) string {
			if len(col) <= maxLen {
				return col
			}
			return col[:maxLen]
		}},
		Value: func(r models.SubmissionRecord) string { return r.SessionID },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "submitted"},
		Value:        func(r models.SubmissionRecord) string { return r.SubmittedAt.Format(time.DateTime) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "job"},
		Value:        func(r models.SubmissionRecord) string { return r.JobID },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "handle"},
		Value:        func(r models.SubmissionRecord) string { return r.Handle.String() },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "depends on"},
		Value:        func(r models.SubmissionRecord) string { return r.DependsOn.String() },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "script"},
		Value:        func(r models.SubmissionRecord) string { return r.ScriptPath },
	},
}

func (o *ListOptions) Run(ctx context.Context, cmd *cobra.Command) error {
	dbPath := ledger.PathInWorkDir(o.WorkDir)
	exists, err := system.PathExists(dbPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no submissions recorded in %s", o.WorkDir)
	}
	store, err := boltdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(context.Background()); closeErr != nil {
			log.Ctx(ctx).Warn().Err(closeErr).Msg("failed to close ledger")
		}
	}()

	sessions := []string{o.Session}
	if o.Session == "" {
		if sessions, err = store.Sessions(ctx); err != nil {
			return err
		}
	}

	var records []models.SubmissionRecord
	for _, session := range sessions {
		rs, err := store.List(ctx, session)
		if err != nil {
			return err
		}
		records = append(records, rs...)
	}
	return output.Output(cmd, listColumns, o.OutputOpts, records)
}
