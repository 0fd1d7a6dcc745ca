package ports

import (
	"context"
	"time"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// DecisionRecord mirrors a triage decision into the local audit collection.
type DecisionRecord struct {
	Radicado      string
	From          domain.PetitionStatus
	To            domain.PetitionStatus
	Actor         domain.Actor
	ResponsibleID string
	Reason        string
	Comment       string
	DecidedAt     time.Time
}

// DecisionLog persists decision records for audit. Writes are non-fatal to the
// workflow: a log failure never rolls back a decision the store accepted.
type DecisionLog interface {
	Insert(ctx context.Context, record *DecisionRecord) error
}

// DecisionGuard detects a triage decision being recorded twice for the same
// petition (double submit, replayed request).
type DecisionGuard interface {
	IsDuplicate(ctx context.Context, radicado string, to domain.PetitionStatus) (bool, error)
	Mark(ctx context.Context, radicado string, to domain.PetitionStatus) error
}
