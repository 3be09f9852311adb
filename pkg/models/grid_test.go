//go:build unit || !integration

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(i int, ids ...string) []JobSpec {
	col := make([]JobSpec, len(ids))
	for v, id := range ids {
		col[v] = JobSpec{HChunk: i, VChunk: v, ID: id, StoragePath: "s" + string(rune('0'+i)), Command: []string{"solver"}}
		if v > 0 {
			col[v].DependsOn = ids[v-1]
		}
	}
	return col
}

func TestGridPlanValidate(t *testing.T) {
	p := NewGridPlan(2, 2, [][]JobSpec{column(0, "a0", "a1"), column(1, "b0", "b1")})
	require.NoError(t, p.Validate())
	assert.Equal(t, 4, p.Len())
	assert.False(t, p.IsEmpty())

	cell, ok := p.Cell(1, 1)
	require.True(t, ok)
	assert.Equal(t, "b1", cell.ID)
	_, ok = p.Cell(2, 0)
	assert.False(t, ok)
}

func TestGridPlanValidateBrokenChain(t *testing.T) {
	col := column(0, "a0", "a1")
	col[1].DependsOn = ""
	p := NewGridPlan(1, 2, [][]JobSpec{col})
	assert.ErrorContains(t, p.Validate(), "must depend on")
}

func TestGridPlanValidateDuplicateIDs(t *testing.T) {
	p := NewGridPlan(2, 1, [][]JobSpec{column(0, "x"), column(1, "x")})
	assert.ErrorContains(t, p.Validate(), "duplicate job id")
}

func TestGridPlanValidateCount(t *testing.T) {
	p := NewGridPlan(2, 2, [][]JobSpec{column(0, "a0", "a1")})
	assert.ErrorContains(t, p.Validate(), "expected 4")
}

func TestGridPlanValidateNegativeDims(t *testing.T) {
	assert.Error(t, NewGridPlan(-1, 2, nil).Validate())
	assert.NoError(t, NewGridPlan(0, 0, nil).Validate())
}

func TestNilPlanIsEmpty(t *testing.T) {
	var p *GridPlan
	assert.True(t, p.IsEmpty())
}

func TestResourceRequestValidate(t *testing.T) {
	r := NewResourceRequest(16, 4000, WalltimeDuration{Hours: 1}, QueueShort)
	require.NoError(t, r.Validate())

	bad := ResourceRequest{NodeCount: 2, Queue: "medium"}
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"node count", "cpus per node", "memory per cpu", "walltime", "queue"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestParseQueue(t *testing.T) {
	q, err := ParseQueue(" Long ")
	require.NoError(t, err)
	assert.Equal(t, QueueLong, q)

	_, err = ParseQueue("medium")
	assert.Error(t, err)
}

func TestSubmissionFailureUnwraps(t *testing.T) {
	cause := assert.AnError
	err := error(&SubmissionFailure{JobID: "hchunk_0_vchunk_1", VChunk: 1, Submitted: 1, Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "hchunk_0_vchunk_1")
	assert.ErrorIs(t, Declined("go?"), ErrConfirmationDeclined)
}
