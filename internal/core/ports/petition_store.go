package ports

import (
	"context"
	"time"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// ListPetitionsInput carries the filters supported by the petition store's
// query endpoints. Zero values mean "no filter".
type ListPetitionsInput struct {
	Status        domain.PetitionStatus
	TypeID        string
	RequesterID   string
	ResponsibleID string
	DateFrom      time.Time
	DateTo        time.Time
	Page          int
	Limit         int
}

// ListPetitionsResult is one page of petitions.
type ListPetitionsResult struct {
	Items      []domain.Petition
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TriageDecision is the single write the portal sends to the petition store:
// the outcome of a triage actor accepting or rejecting a filed petition.
type TriageDecision struct {
	// RadicadorID identifies the triage actor recording the decision.
	RadicadorID string
	// SolicitudID is the petition's backend identifier.
	SolicitudID string
	// ResponsableID is the assigned handler on acceptance; empty on rejection.
	ResponsableID string
	Approved      bool
	Comment       string
	// RejectionReason is required when Approved is false.
	RejectionReason string
}

// PetitionStore is the collaborator REST backend holding petitions. It is the
// source of truth for concurrent edits by other actors; implementations must
// surface a backend rejection as an error rather than papering over it.
type PetitionStore interface {
	FindByRadicado(ctx context.Context, radicado string) (*domain.Petition, error)
	List(ctx context.Context, input ListPetitionsInput) (*ListPetitionsResult, error)
	SubmitTriageDecision(ctx context.Context, decision TriageDecision) error
}
