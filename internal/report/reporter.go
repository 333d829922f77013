// Package report writes the outcome of an invocation back onto the
// requested item and into the log.
package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/logging"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// Reporter writes exactly one note and one log entry per call.
type Reporter struct {
	notes  source.NoteWriter
	logger *zap.Logger
}

// NewReporter creates a reporter writing notes through notes.
func NewReporter(notes source.NoteWriter, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{notes: notes, logger: logger}
}

// Report records a completed dispatch. The returned error is the
// write-back failure, if any.
func (r *Reporter) Report(
	ctx context.Context,
	rec model.Record,
	archetype model.Archetype,
	vars model.Variables,
	outcome model.Outcome,
) error {
	note := FormatOutcome(archetype, vars, outcome)
	fields := []zap.Field{
		logging.Ticket(rec.Number),
		logging.Archetype(archetype),
		logging.Status(outcome.Status),
	}

	if outcome.Success() {
		r.logger.Info("github workflow triggered", fields...)
	} else {
		r.logger.Error("github trigger failed",
			append(fields, zap.String("reason", outcome.Reason()), zap.String("body", outcome.Body))...,
		)
	}
	return r.write(ctx, rec, note)
}

// ReportConfigError records that the dispatch credential is missing.
func (r *Reporter) ReportConfigError(ctx context.Context, rec model.Record) error {
	r.logger.Error("github PAT not configured",
		logging.Ticket(rec.Number),
		zap.String("hint", "set PROVTRIGGER_GITHUB_PAT or run provtrigger configure"),
	)
	return r.write(ctx, rec, ConfigErrorNote)
}

// ReportTransportFailure records a dispatch that produced no response.
func (r *Reporter) ReportTransportFailure(
	ctx context.Context,
	rec model.Record,
	archetype model.Archetype,
	cause error,
) error {
	r.logger.Error("exception in github trigger",
		logging.Ticket(rec.Number),
		logging.Archetype(archetype),
		zap.Error(cause),
	)
	return r.write(ctx, rec, FormatTransportFailure(cause))
}

// WriteTimeout bounds the write-back. The write outlives the caller's
// context so an accepted dispatch is never left without a note.
const WriteTimeout = 30 * time.Second

func (r *Reporter) write(ctx context.Context, rec model.Record, note string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), WriteTimeout)
	defer cancel()

	if err := r.notes.WriteWorkNotes(ctx, rec.SysID, note); err != nil {
		return fmt.Errorf("writing outcome to %s: %w", rec.Number, err)
	}
	return nil
}
