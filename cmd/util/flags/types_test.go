//go:build unit || !integration

package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcpspsuite/gridsubmit/cmd/util/output"
	"github.com/tcpspsuite/gridsubmit/pkg/scheduler"
)

func TestSchedulerKindFlag(t *testing.T) {
	kind := scheduler.KindMoab
	f := SchedulerKindFlag(&kind)
	assert.Equal(t, "moab", f.String())
	require.NoError(t, f.Set("Slurm"))
	assert.Equal(t, scheduler.KindSlurm, kind)

	require.Error(t, f.Set("lsf"))
	assert.Equal(t, scheduler.KindSlurm, kind, "a rejected value must not overwrite the current one")
}

func TestOutputFormatFlag(t *testing.T) {
	format := output.TableFormat
	f := OutputFormatFlag(&format)
	require.NoError(t, f.Set("yaml"))
	assert.Equal(t, output.YAMLFormat, format)
	assert.Error(t, f.Set("xml"))
	assert.Equal(t, "format", f.Type())
}
