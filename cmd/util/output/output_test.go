//go:build unit || !integration

package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string `json:"ID"`
	Handle string `json:"Handle"`
}

var columns = []TableColumn[row]{
	{ColumnConfig: table.ColumnConfig{Name: "id"}, Value: func(r row) string { return r.ID }},
	{ColumnConfig: table.ColumnConfig{Name: "handle"}, Value: func(r row) string { return r.Handle }},
}

func render(t *testing.T, opts OutputOptions) string {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, Output(cmd, columns, opts, []row{{ID: "hchunk_0_vchunk_0", Handle: "4711"}}))
	return buf.String()
}

func TestOutputFormats(t *testing.T) {
	csv := render(t, OutputOptions{Format: CSVFormat})
	assert.Contains(t, csv, "hchunk_0_vchunk_0,4711")

	assert.JSONEq(t, `[{"ID":"hchunk_0_vchunk_0","Handle":"4711"}]`, render(t, OutputOptions{Format: JSONFormat}))
	assert.Equal(t, "- Handle: \"4711\"\n  ID: hchunk_0_vchunk_0\n", render(t, OutputOptions{Format: YAMLFormat}))

	tbl := render(t, OutputOptions{Format: TableFormat, NoStyle: true})
	assert.Contains(t, tbl, "hchunk_0_vchunk_0")
	assert.Contains(t, tbl, "4711")
}

func TestOutputInvalidFormat(t *testing.T) {
	cmd := &cobra.Command{}
	assert.Error(t, Output(cmd, columns, OutputOptions{Format: "xml"}, []row{}))
}
