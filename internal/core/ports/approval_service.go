package ports

import (
	"context"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// ApprovalService is the single entry point a triage actor uses to resolve a
// petition pending triage.
type ApprovalService interface {
	// Accept moves the petition to Accepted and assigns responsibleID as its
	// handler. The returned petition reflects the persisted state; on any
	// failure the store is untouched and no status event exists.
	Accept(ctx context.Context, sess *domain.Session, radicado, responsibleID, comment string) (*domain.Petition, error)
	// Reject moves the petition to Rejected. reason must be non-empty once
	// markup is stripped; a rejection is never unexplained.
	Reject(ctx context.Context, sess *domain.Session, radicado, reason, comment string) (*domain.Petition, error)
}
