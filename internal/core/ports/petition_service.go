package ports

import (
	"context"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// PetitionDetail is the full petition view decorated with the deadline figures
// every screen renders.
type PetitionDetail struct {
	Petition    domain.Petition
	DaysOverdue int
	Remaining   domain.Remaining
}

// PetitionService defines the read surface the UI consumes.
type PetitionService interface {
	Get(ctx context.Context, sess *domain.Session, radicado string) (*PetitionDetail, error)
	List(ctx context.Context, sess *domain.Session, input ListPetitionsInput) (*ListPetitionsResult, error)
}
