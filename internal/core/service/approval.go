package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

// ApprovalWorkflow orchestrates the triage decision: fetch the petition,
// run the state machine edge, persist the decision to the petition store, and
// mirror it into the local audit log.
//
// The store write is the commit point. The transitioned petition is returned
// only after the store accepted the decision; on any earlier failure the
// caller's view is untouched and zero status events exist. The audit mirror
// and the duplicate guard are advisory: their failures are logged, never
// surfaced.
type ApprovalWorkflow struct {
	sm        *StateMachine
	store     ports.PetitionStore
	guard     ports.DecisionGuard
	decisions ports.DecisionLog
	log       zerolog.Logger
}

func NewApprovalWorkflow(
	sm *StateMachine,
	store ports.PetitionStore,
	guard ports.DecisionGuard,
	decisions ports.DecisionLog,
	log zerolog.Logger,
) ports.ApprovalService {
	return &ApprovalWorkflow{sm: sm, store: store, guard: guard, decisions: decisions, log: log}
}

// Accept resolves a pending petition positively, assigning responsibleID as
// its handler.
func (w *ApprovalWorkflow) Accept(ctx context.Context, sess *domain.Session, radicado, responsibleID, comment string) (*domain.Petition, error) {
	return w.decide(ctx, sess, radicado, domain.StatusAccepted, TransitionPayload{
		ResponsibleID: responsibleID,
		Note:          comment,
	}, comment)
}

// Reject resolves a pending petition negatively. The reason survives into the
// status event; the optional comment goes to the store only.
func (w *ApprovalWorkflow) Reject(ctx context.Context, sess *domain.Session, radicado, reason, comment string) (*domain.Petition, error) {
	return w.decide(ctx, sess, radicado, domain.StatusRejected, TransitionPayload{
		Reason: reason,
		Note:   comment,
	}, comment)
}

func (w *ApprovalWorkflow) decide(ctx context.Context, sess *domain.Session, radicado string, to domain.PetitionStatus, payload TransitionPayload, comment string) (*domain.Petition, error) {
	if sess == nil {
		return nil, fmt.Errorf("triage %s: %w", radicado, domain.ErrStaleSession)
	}

	petition, err := w.store.FindByRadicado(ctx, radicado)
	if err != nil {
		return nil, fmt.Errorf("triage %s: %w", radicado, err)
	}

	updated, err := w.sm.Transition(petition, to, sess, payload)
	if err != nil {
		return nil, err
	}

	// Double-submit guard. Check errors are non-fatal: an unreachable guard
	// must not block a triage decision, the store stays the arbiter.
	isDup, err := w.guard.IsDuplicate(ctx, radicado, to)
	if err != nil {
		w.log.Warn().Err(err).Str("radicado", radicado).Msg("decision guard check failed, proceeding")
	} else if isDup {
		return nil, fmt.Errorf("triage %s: decision already recorded: %w", radicado, domain.ErrInvalidTransition)
	}

	decision := ports.TriageDecision{
		RadicadorID: sess.Actor.ID,
		SolicitudID: petition.ID,
		Approved:    to == domain.StatusAccepted,
		Comment:     comment,
	}
	if to == domain.StatusAccepted {
		decision.ResponsableID = payload.ResponsibleID
	} else {
		decision.RejectionReason = payload.Reason
	}

	if err := w.store.SubmitTriageDecision(ctx, decision); err != nil {
		// The backend disagreed; discard the local transition so the caller
		// never holds a state the store rejected.
		return nil, fmt.Errorf("triage %s: persist decision: %w", radicado, err)
	}

	if err := w.guard.Mark(ctx, radicado, to); err != nil {
		w.log.Warn().Err(err).Str("radicado", radicado).Msg("failed to mark decision guard")
	}

	event := updated.StatusHistory[len(updated.StatusHistory)-1]
	record := &ports.DecisionRecord{
		Radicado:      radicado,
		From:          event.From,
		To:            event.To,
		Actor:         sess.Actor,
		ResponsibleID: decision.ResponsableID,
		Reason:        decision.RejectionReason,
		Comment:       comment,
		DecidedAt:     time.Now().UTC(),
	}
	if err := w.decisions.Insert(ctx, record); err != nil {
		w.log.Warn().Err(err).Str("radicado", radicado).Msg("failed to mirror decision to audit log")
	}

	w.log.Info().
		Str("radicado", radicado).
		Str("decision", string(to)).
		Str("actor_id", sess.Actor.ID).
		Msg("triage decision recorded")

	return updated, nil
}
