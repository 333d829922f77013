// Package identity resolves the principal investigator email sent with
// every dispatch.
package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/metrics"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/source"
)

// PIVariable names the reference variable holding the PI's sys_user id.
const PIVariable = "principal_investigator"

// Lookup is one step of the resolution chain. ok is false when the step
// produced nothing usable.
type Lookup func(ctx context.Context, vars model.Variables, ritmSysID string) (email string, ok bool)

// Resolver walks an ordered list of lookups and returns the first email
// found, or the fallback.
type Resolver struct {
	lookups  []Lookup
	fallback string
}

// NewResolver builds the standard chain: the PI variable through the user
// directory, then the requester of the record, then fallback.
func NewResolver(
	users source.UserDirectory,
	requesters source.RequesterDirectory,
	fallback string,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewChain(fallback, PILookup(users, logger), RequesterLookup(requesters, logger))
}

// NewChain builds a resolver from explicit lookups.
func NewChain(fallback string, lookups ...Lookup) *Resolver {
	if fallback == "" {
		fallback = model.DefaultFallbackEmail
	}
	return &Resolver{lookups: lookups, fallback: fallback}
}

// Resolve returns an email. It never fails.
func (r *Resolver) Resolve(ctx context.Context, vars model.Variables, ritmSysID string) string {
	for _, lookup := range r.lookups {
		if email, ok := lookup(ctx, vars, ritmSysID); ok {
			return email
		}
	}
	return r.fallback
}

// PILookup resolves the PI variable through the user directory.
func PILookup(users source.UserDirectory, logger *zap.Logger) Lookup {
	return func(ctx context.Context, vars model.Variables, _ string) (string, bool) {
		id := vars.Get(PIVariable, "")
		if id == "" || users == nil {
			return "", false
		}
		email, err := users.LookupUserEmail(ctx, id)
		if err != nil {
			logger.Warn("could not get PI email",
				zap.String("user_sys_id", id),
				zap.Error(err),
			)
			metrics.LookupFailuresTotal.WithLabelValues("pi_email").Inc()
			return "", false
		}
		return email, email != ""
	}
}

// RequesterLookup resolves the requested_for user of the record's request.
func RequesterLookup(requesters source.RequesterDirectory, logger *zap.Logger) Lookup {
	return func(ctx context.Context, _ model.Variables, ritmSysID string) (string, bool) {
		if ritmSysID == "" || requesters == nil {
			return "", false
		}
		email, err := requesters.RequesterEmail(ctx, ritmSysID)
		if err != nil {
			logger.Warn("could not get requester email",
				zap.String("ritm_sys_id", ritmSysID),
				zap.Error(err),
			)
			metrics.LookupFailuresTotal.WithLabelValues("requester_email").Inc()
			return "", false
		}
		return email, email != ""
	}
}
