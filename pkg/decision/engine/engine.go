package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meridian-hq/lexgate/pkg/decision"
	"meridian-hq/lexgate/pkg/decision/resolver"
	"meridian-hq/lexgate/pkg/ledger"
	"meridian-hq/lexgate/pkg/statute"
	"meridian-hq/lexgate/pkg/telemetry/metrics"
)

// Config contains configuration for the decision engine.
type Config struct {
	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.DecisionMetrics
}

// Engine turns statute resolution into recorded decisions.
type Engine struct {
	resolver *resolver.Resolver
	ledger   *ledger.Ledger
	logger   *slog.Logger
	metrics  *metrics.DecisionMetrics
}

// New creates a decision engine over a resolver and an audit ledger.
func New(res *resolver.Resolver, led *ledger.Ledger, logger *slog.Logger, config *Config) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = &Config{}
	}
	return &Engine{
		resolver: res,
		ledger:   led,
		logger:   logger.With("component", "decision.engine"),
		metrics:  config.Metrics,
	}
}

// Decide resolves the applicable statute for the subject and applies it.
// Exactly one audit record is appended whatever the outcome:
//
//   - no statute applies: a void result stating so
//   - the winning statute carries discretion logic: automation stops with a
//     requires-discretion result naming the open issue
//   - an unresolvable conflict or delegation failure: a void result carrying
//     the configuration diagnostic, never a silent arbitrary pick
//   - otherwise: the statute's effect applied deterministically
func (e *Engine) Decide(ctx context.Context, candidates []*statute.Statute, subject *statute.Subject, actor decision.Actor) (decision.Result, *ledger.AuditRecord, error) {
	start := time.Now()

	result, statuteID, diag := e.evaluate(candidates, subject)

	e.metrics.RecordDecision(string(result.Kind), time.Since(start))

	record, err := e.ledger.Append(ctx, ledger.Draft{
		EventType: ledger.EventAutomaticDecision,
		Actor:     actor,
		StatuteID: statuteID,
		SubjectID: subjectID(subject),
		Context:   diag,
		Result:    result,
	})
	if err != nil {
		return result, nil, fmt.Errorf("record decision: %w", err)
	}

	e.logger.Info("decision made",
		"record_id", record.ID,
		"subject_id", record.SubjectID,
		"statute_id", statuteID,
		"result_kind", result.Kind,
	)
	return result, record, nil
}

// Simulate runs the same resolution as Decide but records the outcome as a
// simulation event. Simulations share the ledger so what-if runs stay
// distinguishable from real decisions without a second store.
func (e *Engine) Simulate(ctx context.Context, candidates []*statute.Statute, subject *statute.Subject, actor decision.Actor) (decision.Result, *ledger.AuditRecord, error) {
	result, statuteID, diag := e.evaluate(candidates, subject)

	if diag == nil {
		diag = make(map[string]string, 1)
	}
	diag["simulation"] = "true"

	record, err := e.ledger.Append(ctx, ledger.Draft{
		EventType: ledger.EventSimulationRun,
		Actor:     actor,
		StatuteID: statuteID,
		SubjectID: subjectID(subject),
		Context:   diag,
		Result:    result,
	})
	if err != nil {
		return result, nil, fmt.Errorf("record simulation: %w", err)
	}
	return result, record, nil
}

// evaluate computes the decision result without touching the ledger. The
// returned map carries conflict diagnostics when resolution failed.
func (e *Engine) evaluate(candidates []*statute.Statute, subject *statute.Subject) (decision.Result, string, map[string]string) {
	outcome, err := e.resolver.Resolve(candidates, subject)
	if err != nil {
		var conflict *resolver.StatuteConflictError
		if errors.As(err, &conflict) {
			e.metrics.RecordConflict(string(conflict.Kind))
			e.logger.Error("statute conflict",
				"kind", conflict.Kind,
				"statute_ids", conflict.StatuteIDs,
				"subject_id", subjectID(subject),
			)
			return decision.Void("configuration error"), "", map[string]string{
				"conflict": string(conflict.Kind),
				"detail":   err.Error(),
			}
		}
		e.logger.Error("resolution failed", "error", err)
		return decision.Void("configuration error"), "", map[string]string{
			"detail": err.Error(),
		}
	}

	if !outcome.Matched {
		return decision.Void("no applicable statute"), "", nil
	}

	st := outcome.Statute
	if st.HasDiscretion() {
		return decision.RequiresDiscretion(st.DiscretionLogic), st.ID, nil
	}

	return decision.Deterministic(st.Effect.Description, mergedParameters(st)), st.ID, nil
}

// ResolveDiscretion records a human's resolution of a pending
// requires-discretion decision. The prior record must exist and must await
// discretion.
func (e *Engine) ResolveDiscretion(ctx context.Context, priorRecordID string, resolution decision.Result, actor decision.Actor) (*ledger.AuditRecord, error) {
	prior, err := e.ledger.Get(ctx, priorRecordID)
	if err != nil {
		return nil, fmt.Errorf("load prior record: %w", err)
	}
	if prior.Result.Kind != decision.KindRequiresDiscretion {
		return nil, ErrNotDiscretionary
	}

	record, err := e.ledger.Append(ctx, ledger.Draft{
		EventType: ledger.EventDiscretionaryReview,
		Actor:     actor,
		StatuteID: prior.StatuteID,
		SubjectID: prior.SubjectID,
		Context:   map[string]string{"prior_record_id": priorRecordID},
		Result:    resolution,
	})
	if err != nil {
		return nil, fmt.Errorf("record discretion resolution: %w", err)
	}

	e.logger.Info("discretion resolved",
		"record_id", record.ID,
		"prior_record_id", priorRecordID,
		"result_kind", resolution.Kind,
	)
	return record, nil
}

// Override replaces a prior decision with a human correction. Only user
// actors may override; the prior record is never mutated, the correction is
// appended as a new overridden event wrapping both results.
func (e *Engine) Override(ctx context.Context, priorRecordID string, corrected decision.Result, justification string, actor decision.Actor) (*ledger.AuditRecord, error) {
	if !actor.IsUser() {
		e.metrics.RecordOverride("unauthorized")
		e.logger.Warn("override rejected", "actor", actor.String(), "prior_record_id", priorRecordID)
		return nil, &UnauthorizedOverrideError{Actor: actor}
	}

	prior, err := e.ledger.Get(ctx, priorRecordID)
	if err != nil {
		return nil, fmt.Errorf("load prior record: %w", err)
	}

	record, err := e.ledger.Append(ctx, ledger.Draft{
		EventType: ledger.EventHumanOverride,
		Actor:     actor,
		StatuteID: prior.StatuteID,
		SubjectID: prior.SubjectID,
		Context:   map[string]string{"prior_record_id": priorRecordID},
		Result:    decision.Overridden(prior.Result, corrected, justification),
	})
	if err != nil {
		return nil, fmt.Errorf("record override: %w", err)
	}

	e.metrics.RecordOverride("applied")
	e.logger.Info("decision overridden",
		"record_id", record.ID,
		"prior_record_id", priorRecordID,
		"user_id", actor.UserID,
	)
	return record, nil
}

// RecordAppeal records that a subject (or a user acting for one) contests a
// prior decision. The appeal itself decides nothing; the contested decision
// stands until a reviewer resolves or overrides it.
func (e *Engine) RecordAppeal(ctx context.Context, priorRecordID, grounds string, actor decision.Actor) (*ledger.AuditRecord, error) {
	prior, err := e.ledger.Get(ctx, priorRecordID)
	if err != nil {
		return nil, fmt.Errorf("load prior record: %w", err)
	}

	record, err := e.ledger.Append(ctx, ledger.Draft{
		EventType: ledger.EventAppeal,
		Actor:     actor,
		StatuteID: prior.StatuteID,
		SubjectID: prior.SubjectID,
		Context: map[string]string{
			"prior_record_id": priorRecordID,
			"grounds":         grounds,
		},
		Result: prior.Result,
	})
	if err != nil {
		return nil, fmt.Errorf("record appeal: %w", err)
	}

	e.logger.Info("appeal recorded", "record_id", record.ID, "prior_record_id", priorRecordID)
	return record, nil
}

// RecordStatuteChange records a catalog modification in the audit trail so
// decisions can be interpreted against the statutes in force at the time.
func (e *Engine) RecordStatuteChange(ctx context.Context, statuteID, description string, actor decision.Actor) (*ledger.AuditRecord, error) {
	record, err := e.ledger.Append(ctx, ledger.Draft{
		EventType: ledger.EventStatuteModified,
		Actor:     actor,
		StatuteID: statuteID,
		Context:   map[string]string{"change": description},
		Result:    decision.Void(description),
	})
	if err != nil {
		return nil, fmt.Errorf("record statute change: %w", err)
	}
	return record, nil
}

// mergedParameters layers the statute's effect parameters over its defaults.
func mergedParameters(st *statute.Statute) map[string]string {
	if len(st.Defaults) == 0 {
		return st.Effect.Parameters
	}
	merged := make(map[string]string, len(st.Defaults)+len(st.Effect.Parameters))
	for k, v := range st.Defaults {
		merged[k] = v
	}
	for k, v := range st.Effect.Parameters {
		merged[k] = v
	}
	return merged
}

func subjectID(subject *statute.Subject) string {
	if subject == nil {
		return ""
	}
	return subject.ID
}
