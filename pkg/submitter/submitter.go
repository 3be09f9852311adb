// Package submitter issues a grid plan to a batch scheduler, one dependency
// chain per column.
package submitter

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tcpspsuite/gridsubmit/pkg/confirm"
	"github.com/tcpspsuite/gridsubmit/pkg/logger"
	"github.com/tcpspsuite/gridsubmit/pkg/models"
	"github.com/tcpspsuite/gridsubmit/pkg/scheduler"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

const component = "submitter"

// ScriptWriter renders and stores the run script of a cell.
type ScriptWriter interface {
	CommandLine(job models.JobSpec) (string, error)
	Write(job models.JobSpec) (string, error)
}

// Recorder receives every record once the scheduler accepted the cell.
type Recorder interface {
	Append(ctx context.Context, record models.SubmissionRecord) error
}

type SubmitterParams struct {
	Client    scheduler.Client
	Scripts   ScriptWriter
	Confirmer confirm.Confirmer
	// Recorder is optional. Its errors are logged and never abort a run.
	Recorder  Recorder
	Clock     clock.Clock
	SessionID string
	WorkDir   string
}

type Submitter struct {
	client    scheduler.Client
	scripts   ScriptWriter
	confirmer confirm.Confirmer
	recorder  Recorder
	clock     clock.Clock
	sessionID string
	workDir   string
}

func NewSubmitter(params SubmitterParams) *Submitter {
	clk := params.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Submitter{
		client:    params.Client,
		scripts:   params.Scripts,
		confirmer: params.Confirmer,
		recorder:  params.Recorder,
		clock:     clk,
		sessionID: params.SessionID,
		workDir:   params.WorkDir,
	}
}

// Submit asks for confirmation of the first command, writes every run script
// and then submits column by column. Each step of a column depends on the
// handle of the step before it, so steps of a column run strictly in order
// while columns are independent of each other.
//
// When the scheduler rejects a cell the remaining cells are not submitted and
// the records of the accepted ones are returned together with a
// *models.SubmissionFailure. Accepted cells stay queued.
func (s *Submitter) Submit(
	ctx context.Context, plan *models.GridPlan, resources models.ResourceRequest,
) ([]models.SubmissionRecord, error) {
	if plan.IsEmpty() {
		log.Ctx(ctx).Info().Msg("empty grid, nothing to submit")
		return nil, nil
	}

	first, _ := plan.Cell(0, 0)
	cmdLine, err := s.scripts.CommandLine(first)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("First command looks like this:\n%s\nDoes this look good?", cmdLine)
	if !s.confirmer.Confirm(prompt) {
		return nil, models.Declined("first command rejected")
	}

	ctx, span := system.Span(ctx, component, "Submit",
		attribute.String("session_id", s.sessionID),
		attribute.Int("hchunks", plan.HChunks()),
		attribute.Int("vchunks", plan.VChunks()),
	)
	defer span.End()

	for _, job := range plan.Jobs() {
		if _, err := s.scripts.Write(job); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("writing run script for %s: %w", job.ID, err)
		}
	}

	records := make([]models.SubmissionRecord, 0, plan.Len())
	for i := 0; i < plan.Columns(); i++ {
		log.Ctx(ctx).Info().Msgf("Submitting hchunk Nr. %d of %d", i, plan.HChunks())

		var prev models.JobHandle
		for _, job := range plan.Column(i) {
			record, err := s.submitCell(ctx, job, resources, prev)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "submission failed")
				return records, &models.SubmissionFailure{
					JobID:     job.ID,
					HChunk:    job.HChunk,
					VChunk:    job.VChunk,
					Submitted: len(records),
					Err:       err,
				}
			}
			records = append(records, record)
			prev = record.Handle
		}
	}
	return records, nil
}

func (s *Submitter) submitCell(
	ctx context.Context, job models.JobSpec, resources models.ResourceRequest, prev models.JobHandle,
) (models.SubmissionRecord, error) {
	ctx = logger.ContextWithJobLogger(ctx, job.ID)
	ctx, span := system.Span(ctx, component, "SubmitCell",
		attribute.String("job_id", job.ID),
		attribute.String("depends_on", prev.String()),
	)
	defer span.End()

	handle, err := s.client.Submit(ctx, scheduler.SubmitRequest{
		ScriptPath: job.Artifacts.ScriptPath,
		Name:       job.Name,
		WorkDir:    s.workDir,
		Resources:  resources,
		DependsOn:  prev,
	})
	if err != nil {
		span.RecordError(err)
		return models.SubmissionRecord{}, err
	}
	span.SetAttributes(attribute.String("handle", handle.String()))

	record := models.SubmissionRecord{
		SessionID:   s.sessionID,
		JobID:       job.ID,
		HChunk:      job.HChunk,
		VChunk:      job.VChunk,
		Handle:      handle,
		DependsOn:   prev,
		ScriptPath:  job.Artifacts.ScriptPath,
		SubmittedAt: s.clock.Now().UTC(),
	}
	log.Ctx(ctx).Info().Str("handle", handle.String()).Str("depends_on", prev.String()).Msg("submitted")

	if s.recorder != nil {
		if err := s.recorder.Append(ctx, record); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to record submission in ledger")
		}
	}
	return record, nil
}
