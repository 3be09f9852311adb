package validate

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tcpspsuite/gridsubmit/cmd/util/flags/cliflags"
	"github.com/tcpspsuite/gridsubmit/cmd/util/output"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/sanity"
)

type ValidateOptions struct {
	ConfigSchema string
	OutputOpts   output.OutputOptions
}

func NewValidateOptions() *ValidateOptions {
	return &ValidateOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	o := NewValidateOptions()

	validateCmd := &cobra.Command{
		Use:   "validate [flags] -- [solver args...]",
		Short: "Run the pre-submission checks on solver arguments and print every finding",
		Example: `gridsubmit validate -- -f /data/instance.json -c /data/config.json -p 16 -u exp7
gridsubmit validate --config-schema schema.json --output json -- -d /data/instances -c config.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, args)
		},
	}
	validateCmd.Flags().StringVar(&o.ConfigSchema, "config-schema", o.ConfigSchema,
		"JSON schema the solver config file (-c) must match.")
	validateCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&o.OutputOpts))
	return validateCmd
}

var findingColumns = []output.TableColumn[models.ValidationFinding]{
	{
		ColumnConfig: table.ColumnConfig{Name: "severity"},
		Value:        func(f models.ValidationFinding) string { return string(f.Severity) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "finding"},
		Value:        func(f models.ValidationFinding) string { return f.Message },
	},
}

func (o *ValidateOptions) Run(cmd *cobra.Command, solverArgs []string) error {
	params := sanity.ParamsFromSolverArgs(solverArgs)
	params.ConfigSchema = o.ConfigSchema

	findings := sanity.Check(params)
	if len(findings) == 0 {
		cmd.Println("No problems found.")
		return nil
	}
	if err := output.Output(cmd, findingColumns, o.OutputOpts, findings); err != nil {
		return err
	}
	return fmt.Errorf("%d sanity check finding(s)", len(findings))
}
