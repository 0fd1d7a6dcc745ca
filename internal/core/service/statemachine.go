package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// TransitionPayload carries the edge-specific fields a transition may require.
type TransitionPayload struct {
	// ResponsibleID is required on PendingTriage -> Accepted.
	ResponsibleID string
	// Reason is required on PendingTriage -> Rejected; markup does not count.
	Reason string
	// Response is required on InProgress -> Resolved.
	Response string
	// Note is an optional free-text comment recorded on the status event.
	Note string
}

// StateMachine validates and applies petition status transitions. It never
// touches a backend: it takes a petition, returns a new petition value with
// the transition applied, and leaves persistence to the caller. That keeps
// failed persistence trivially rollback-safe - the caller just discards the
// returned value.
type StateMachine struct {
	log zerolog.Logger
	now func() time.Time
}

func NewStateMachine(log zerolog.Logger) *StateMachine {
	return &StateMachine{log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Transition applies a single edge of the petition lifecycle.
//
// Failure order is fixed: a caller lacking the petitions update permission
// fails with ErrUnauthorized before the edge is even consulted; an edge not in
// the transition table fails with ErrInvalidTransition; a role or precondition
// violation fails with ErrUnauthorized; an absent required payload field fails
// with ErrMissingField. On success exactly one StatusEvent is appended; on any
// failure the input petition is untouched and no event exists.
//
// The Filed -> PendingTriage edge is the automatic filing step: it is the only
// edge that accepts a nil session and is attributed to the system actor.
func (sm *StateMachine) Transition(p *domain.Petition, to domain.PetitionStatus, sess *domain.Session, payload TransitionPayload) (*domain.Petition, error) {
	systemEdge := p.Status == domain.StatusFiled && to == domain.StatusPendingTriage

	if !systemEdge && !sess.Can(domain.ResourcePetitions, domain.ActionUpdate) {
		return nil, fmt.Errorf("transition to %s: %w", to, domain.ErrUnauthorized)
	}
	if !p.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("transition: %w (from %s to %s)", domain.ErrInvalidTransition, p.Status, to)
	}

	actor := domain.SystemActor
	if !systemEdge {
		actor = sess.Actor
	}

	out := p.Clone()
	note := payload.Note

	switch {
	case systemEdge:
		filedAt := sm.now()
		estimated, err := domain.AddBusinessDays(filedAt, p.Type.SLABusinessDays)
		if err != nil {
			return nil, fmt.Errorf("transition: stamp deadline: %w", err)
		}
		out.FiledAt = filedAt
		out.EstimatedResolutionAt = estimated

	case to == domain.StatusAccepted:
		if err := requireRole(sess, domain.RoleTriageOfficer); err != nil {
			return nil, err
		}
		if payload.ResponsibleID == "" {
			return nil, fmt.Errorf("transition to %s: responsible: %w", to, domain.ErrMissingField)
		}
		out.Responsible = &domain.Actor{ID: payload.ResponsibleID, Role: domain.RoleCaseHandler}

	case to == domain.StatusRejected:
		if err := requireRole(sess, domain.RoleTriageOfficer); err != nil {
			return nil, err
		}
		reason := strings.TrimSpace(StripMarkup(payload.Reason))
		if reason == "" {
			return nil, fmt.Errorf("transition to %s: reason: %w", to, domain.ErrMissingField)
		}
		// A rejected filing never keeps a responsible.
		out.Responsible = nil
		note = reason

	case to == domain.StatusInProgress:
		if err := requireRole(sess, domain.RoleCaseHandler); err != nil {
			return nil, err
		}
		if p.Responsible == nil || p.Responsible.ID != sess.Actor.ID {
			return nil, fmt.Errorf("transition to %s: not the assigned responsible: %w", to, domain.ErrUnauthorized)
		}

	case to == domain.StatusResolved:
		if err := requireRole(sess, domain.RoleCaseHandler); err != nil {
			return nil, err
		}
		if strings.TrimSpace(payload.Response) == "" {
			return nil, fmt.Errorf("transition to %s: response: %w", to, domain.ErrMissingField)
		}
		resolvedAt := sm.now()
		out.ResolvedAt = &resolvedAt
		note = payload.Response
	}

	out.Status = to
	out.StatusHistory = append(out.StatusHistory, domain.StatusEvent{
		From:      p.Status,
		To:        to,
		Actor:     actor,
		Timestamp: sm.now(),
		Note:      note,
	})

	sm.log.Info().
		Str("radicado", p.Radicado).
		Str("from", string(p.Status)).
		Str("to", string(to)).
		Str("actor_id", actor.ID).
		Msg("petition transitioned")

	return out, nil
}

func requireRole(sess *domain.Session, role domain.Role) error {
	if sess.Actor.Role != role {
		return fmt.Errorf("role %s required: %w", role, domain.ErrUnauthorized)
	}
	return nil
}

// StripMarkup removes <...> tag spans so that a rejection reason consisting
// only of markup counts as empty. Entities and plain text pass through.
func StripMarkup(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
