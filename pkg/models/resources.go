package models

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ResourceRequest is what every grid cell asks the scheduler for. Allocations
// are always a single node.
type ResourceRequest struct {
	NodeCount   int              `json:"NodeCount"`
	CPUsPerNode int              `json:"CPUsPerNode"`
	MemPerCPUMB int              `json:"MemPerCPUMB"`
	Walltime    WalltimeDuration `json:"Walltime"`
	Queue       Queue            `json:"Queue"`
}

// NewResourceRequest returns a one-node request.
func NewResourceRequest(cpusPerNode, memPerCPUMB int, walltime WalltimeDuration, queue Queue) ResourceRequest {
	return ResourceRequest{
		NodeCount:   1,
		CPUsPerNode: cpusPerNode,
		MemPerCPUMB: memPerCPUMB,
		Walltime:    walltime,
		Queue:       queue,
	}
}

func (r ResourceRequest) Validate() error {
	var mErr multierror.Error
	if r.NodeCount != 1 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("node count must be 1, got %d", r.NodeCount))
	}
	if r.CPUsPerNode <= 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("invalid cpus per node: %d", r.CPUsPerNode))
	}
	if r.MemPerCPUMB <= 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("invalid memory per cpu: %dMB", r.MemPerCPUMB))
	}
	if r.Walltime.TotalSeconds() <= 0 {
		mErr.Errors = append(mErr.Errors, errors.New("walltime must be positive"))
	}
	if r.Queue != QueueShort && r.Queue != QueueLong {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("invalid queue class %q", r.Queue))
	}
	return mErr.ErrorOrNil()
}
