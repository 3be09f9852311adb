package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

// DryRun accepts every request without contacting a scheduler and hands out
// handles dry-0, dry-1, ... in call order.
type DryRun struct {
	mu       sync.Mutex
	failAt   int
	requests []SubmitRequest
}

// NewDryRun returns a dry-run client whose failAt-th call (counting from
// one) fails. Zero never fails.
func NewDryRun(failAt int) *DryRun {
	return &DryRun{failAt: failAt}
}

func (d *DryRun) Submit(ctx context.Context, req SubmitRequest) (models.JobHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := len(d.requests)
	d.requests = append(d.requests, req)
	if d.failAt > 0 && idx+1 == d.failAt {
		return "", fmt.Errorf("dry-run: injected failure at call %d", idx+1)
	}
	handle := models.JobHandle(fmt.Sprintf("dry-%d", idx))
	log.Ctx(ctx).Info().
		Str("handle", handle.String()).
		Str("depends_on", req.DependsOn.String()).
		Str("script", req.ScriptPath).
		Msg("dry-run submission")
	return handle, nil
}

// Requests returns a copy of every request seen so far, failed ones included.
func (d *DryRun) Requests() []SubmitRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]SubmitRequest(nil), d.requests...)
}
