package models

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// GridPlan is the H×V collection of cells, ordered column by column.
// It is built once and never mutated; progress lives in SubmissionRecords.
type GridPlan struct {
	hchunks int
	vchunks int
	// columns[i][v] is the cell at hchunk i, vchunk v.
	columns [][]JobSpec
}

// NewGridPlan wraps already built columns. Callers hand over ownership.
func NewGridPlan(hchunks, vchunks int, columns [][]JobSpec) *GridPlan {
	return &GridPlan{hchunks: hchunks, vchunks: vchunks, columns: columns}
}

func (p *GridPlan) HChunks() int { return p.hchunks }
func (p *GridPlan) VChunks() int { return p.vchunks }

// Len is the number of cells in the plan.
func (p *GridPlan) Len() int {
	n := 0
	for _, col := range p.columns {
		n += len(col)
	}
	return n
}

// IsEmpty reports a plan with no cells. Submitting it is a no-op.
func (p *GridPlan) IsEmpty() bool {
	return p == nil || p.Len() == 0
}

// Column returns a copy of the cells of hchunk i in step order.
func (p *GridPlan) Column(i int) []JobSpec {
	if i < 0 || i >= len(p.columns) {
		return nil
	}
	out := make([]JobSpec, 0, len(p.columns[i]))
	for _, j := range p.columns[i] {
		out = append(out, j.Copy())
	}
	return out
}

// Columns returns the number of columns actually present.
func (p *GridPlan) Columns() int {
	return len(p.columns)
}

// Cell returns the cell at (i, v).
func (p *GridPlan) Cell(i, v int) (JobSpec, bool) {
	if i < 0 || i >= len(p.columns) || v < 0 || v >= len(p.columns[i]) {
		return JobSpec{}, false
	}
	return p.columns[i][v].Copy(), true
}

// Jobs returns every cell, column by column.
func (p *GridPlan) Jobs() []JobSpec {
	out := make([]JobSpec, 0, p.Len())
	for i := range p.columns {
		out = append(out, p.Column(i)...)
	}
	return out
}

// Validate checks the structural invariants of the grid.
func (p *GridPlan) Validate() error {
	var mErr multierror.Error
	if p.hchunks < 0 || p.vchunks < 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("invalid grid dimensions %dx%d", p.hchunks, p.vchunks))
		return mErr.ErrorOrNil()
	}
	if p.IsEmpty() {
		return nil
	}
	if got, want := p.Len(), p.hchunks*p.vchunks; got != want {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("grid has %d cells, expected %d", got, want))
	}
	seen := make(map[string]struct{}, p.Len())
	for i, col := range p.columns {
		for v, j := range col {
			if _, dup := seen[j.ID]; dup {
				mErr.Errors = append(mErr.Errors, fmt.Errorf("duplicate job id %q", j.ID))
			}
			seen[j.ID] = struct{}{}
			if j.HChunk != i || j.VChunk != v {
				mErr.Errors = append(mErr.Errors, fmt.Errorf("job %q is at (%d,%d) but claims (%d,%d)", j.ID, i, v, j.HChunk, j.VChunk))
			}
			switch {
			case v == 0 && j.DependsOn != "":
				mErr.Errors = append(mErr.Errors, fmt.Errorf("job %q is a first step but depends on %q", j.ID, j.DependsOn))
			case v > 0 && j.DependsOn != col[v-1].ID:
				mErr.Errors = append(mErr.Errors, fmt.Errorf("job %q must depend on %q, got %q", j.ID, col[v-1].ID, j.DependsOn))
			}
			if j.StoragePath != col[0].StoragePath {
				mErr.Errors = append(mErr.Errors, fmt.Errorf("job %q does not share the column storage path", j.ID))
			}
		}
	}
	return mErr.ErrorOrNil()
}
