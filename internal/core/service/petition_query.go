package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// petitionQueryService is a thin read layer over the petition store. Deadline
// figures on every view come from the calculator, never from per-screen math.
type petitionQueryService struct {
	store ports.PetitionStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewPetitionService(store ports.PetitionStore, log zerolog.Logger) ports.PetitionService {
	return &petitionQueryService{store: store, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *petitionQueryService) Get(ctx context.Context, sess *domain.Session, radicado string) (*ports.PetitionDetail, error) {
	if !sess.Can(domain.ResourcePetitions, domain.ActionRead) {
		return nil, fmt.Errorf("get petition %s: %w", radicado, domain.ErrUnauthorized)
	}

	petition, err := s.store.FindByRadicado(ctx, radicado)
	if err != nil {
		return nil, fmt.Errorf("get petition %s: %w", radicado, err)
	}

	now := s.now()
	return &ports.PetitionDetail{
		Petition:    *petition,
		DaysOverdue: domain.DaysOverdue(now, petition.EstimatedResolutionAt),
		Remaining:   domain.DaysRemaining(now, petition.EstimatedResolutionAt),
	}, nil
}

func (s *petitionQueryService) List(ctx context.Context, sess *domain.Session, input ports.ListPetitionsInput) (*ports.ListPetitionsResult, error) {
	if !sess.Can(domain.ResourcePetitions, domain.ActionRead) {
		return nil, fmt.Errorf("list petitions: %w", domain.ErrUnauthorized)
	}

	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = defaultPageLimit
	}
	if input.Limit > maxPageLimit {
		input.Limit = maxPageLimit
	}

	// Citizens only ever see their own filings.
	if sess.Actor.Role == domain.RoleCitizen {
		input.RequesterID = sess.Actor.ID
	}

	result, err := s.store.List(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("list petitions: %w", err)
	}
	return result, nil
}
