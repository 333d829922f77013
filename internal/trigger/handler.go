// Package trigger runs one provisioning invocation for a requested item:
// classify, collect, build, dispatch and report.
package trigger

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/identity"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/logging"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/metrics"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/payload"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/report"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// Dispatcher sends a payload to the repository_dispatch endpoint.
type Dispatcher interface {
	Dispatch(ctx context.Context, settings model.Settings, p payload.DispatchPayload) (model.Outcome, error)
}

// Prepared is everything an invocation computes before dispatching.
type Prepared struct {
	Archetype model.Archetype
	Variables model.Variables
	Policy    payload.Policy
	Payload   payload.DispatchPayload
}

// Result describes a finished invocation.
type Result struct {
	InvocationID string
	Archetype    model.Archetype
	Dispatched   bool
	Outcome      model.Outcome
	Note         string
}

// Handler wires the invocation steps together. It holds no per-invocation
// state and is safe for concurrent use.
type Handler struct {
	records    source.RecordStore
	dispatcher Dispatcher
	builder    *payload.Builder
	logger     *zap.Logger
}

// NewHandler creates a handler.
func NewHandler(
	records source.RecordStore,
	dispatcher Dispatcher,
	builder *payload.Builder,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = payload.NewDefaultBuilder()
	}
	return &Handler{
		records:    records,
		dispatcher: dispatcher,
		builder:    builder,
		logger:     logger,
	}
}

// Prepare classifies the record, collects its variables, resolves the PI
// and builds the payload. Lookup faults fall back and never fail.
func (h *Handler) Prepare(ctx context.Context, settings model.Settings, rec model.Record) Prepared {
	return h.prepare(ctx, settings, rec, h.logger)
}

func (h *Handler) prepare(
	ctx context.Context,
	settings model.Settings,
	rec model.Record,
	logger *zap.Logger,
) Prepared {
	archetype := payload.Classify(rec.CatalogItem)
	logger.Info("processing request", logging.Archetype(archetype), logging.CatalogItem(rec.CatalogItem))

	vars, err := h.records.GetRequestVariables(ctx, rec.SysID)
	if err != nil {
		logger.Warn("could not collect request variables", zap.Error(err))
		metrics.LookupFailuresTotal.WithLabelValues("variables").Inc()
		vars = model.Variables{}
	}

	resolver := identity.NewResolver(h.records, h.records, settings.FallbackEmail, logger)
	pi := resolver.Resolve(ctx, vars, rec.SysID)

	p := h.builder.Build(archetype, vars, payload.Summary{
		TicketNumber:          rec.Number,
		PrincipalInvestigator: pi,
	})

	policy, ok := h.builder.Policy(archetype)
	if !ok {
		logger.Warn("no field policy for archetype", logging.Archetype(archetype))
	}

	return Prepared{Archetype: archetype, Variables: vars, Policy: policy, Payload: p}
}

// Invoke runs one invocation. Every outcome, including a missing
// credential and transport faults, ends as a note on the record. The
// returned error is non-nil only when that note could not be written.
func (h *Handler) Invoke(ctx context.Context, settings model.Settings, rec model.Record) (Result, error) {
	res := Result{InvocationID: uuid.NewString()}
	logger := h.logger.With(
		logging.InvocationID(res.InvocationID),
		logging.Ticket(rec.Number),
		logging.RecordSysID(rec.SysID),
	)
	reporter := report.NewReporter(h.records, logger)

	if !settings.Configured() {
		res.Archetype = payload.Classify(rec.CatalogItem)
		res.Note = report.ConfigErrorNote
		return h.finish(res, metrics.ResultNotConfigured, reporter.ReportConfigError(ctx, rec), logger)
	}

	prep := h.prepare(ctx, settings, rec, logger)
	res.Archetype = prep.Archetype

	start := time.Now()
	outcome, err := h.dispatcher.Dispatch(ctx, settings, prep.Payload)
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		res.Note = report.FormatTransportFailure(err)
		metrics.DispatchRequestsTotal.WithLabelValues("error").Inc()
		writeErr := reporter.ReportTransportFailure(ctx, rec, prep.Archetype, err)
		return h.finish(res, metrics.ResultTransportError, writeErr, logger)
	}

	res.Dispatched = true
	res.Outcome = outcome
	res.Note = report.FormatOutcome(prep.Archetype, prep.Variables, outcome)
	metrics.DispatchRequestsTotal.WithLabelValues(strconv.Itoa(outcome.Status)).Inc()
	logger.Debug("dispatch completed",
		logging.Repository(settings.Owner, settings.Repo),
		logging.Status(outcome.Status),
		logging.Duration(time.Since(start)),
	)

	writeErr := reporter.Report(ctx, rec, prep.Archetype, prep.Variables, outcome)
	result := metrics.ResultSuccess
	if !outcome.Success() {
		result = metrics.ResultRejected
	}
	return h.finish(res, result, writeErr, logger)
}

func (h *Handler) finish(res Result, result string, writeErr error, logger *zap.Logger) (Result, error) {
	if writeErr != nil {
		logger.Error("could not write work notes", zap.Error(writeErr))
		result = metrics.ResultWriteBackFailed
	}
	metrics.InvocationsTotal.WithLabelValues(string(res.Archetype), result).Inc()
	return res, writeErr
}
