package version

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tcpspsuite/gridsubmit/cmd/util/flags/cliflags"
	"github.com/tcpspsuite/gridsubmit/cmd/util/output"
	"github.com/tcpspsuite/gridsubmit/pkg/version"
)

type VersionOptions struct {
	OutputOpts output.OutputOptions
}

func NewVersionOptions() *VersionOptions {
	return &VersionOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	oV := NewVersionOptions()

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of gridsubmit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return oV.Run(cmd)
		},
	}
	versionCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&oV.OutputOpts))
	return versionCmd
}

var versionColumns = []output.TableColumn[version.BuildVersionInfo]{
	{
		ColumnConfig: table.ColumnConfig{Name: "version"},
		Value:        func(v version.BuildVersionInfo) string { return v.GitVersion },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "commit"},
		Value:        func(v version.BuildVersionInfo) string { return v.GitCommit },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "go"},
		Value:        func(v version.BuildVersionInfo) string { return v.GoVersion },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "platform"},
		Value:        func(v version.BuildVersionInfo) string { return v.GOOS + "/" + v.GOARCH },
	},
}

func (oV *VersionOptions) Run(cmd *cobra.Command) error {
	return output.Output(cmd, versionColumns, oV.OutputOpts, []version.BuildVersionInfo{version.Get()})
}
