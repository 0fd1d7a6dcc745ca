package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/api/middleware"
	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

type stubPetitionService struct {
	getFn     func(ctx context.Context, sess *domain.Session, radicado string) (*ports.PetitionDetail, error)
	listFn    func(ctx context.Context, sess *domain.Session, input ports.ListPetitionsInput) (*ports.ListPetitionsResult, error)
	lastInput ports.ListPetitionsInput
}

func (s *stubPetitionService) Get(ctx context.Context, sess *domain.Session, radicado string) (*ports.PetitionDetail, error) {
	return s.getFn(ctx, sess, radicado)
}

func (s *stubPetitionService) List(ctx context.Context, sess *domain.Session, input ports.ListPetitionsInput) (*ports.ListPetitionsResult, error) {
	s.lastInput = input
	return s.listFn(ctx, sess, input)
}

func TestPetitionHandler_List(t *testing.T) {
	overdue := time.Now().UTC().AddDate(0, 0, -3)
	stub := &stubPetitionService{
		listFn: func(context.Context, *domain.Session, ports.ListPetitionsInput) (*ports.ListPetitionsResult, error) {
			return &ports.ListPetitionsResult{
				Items: []domain.Petition{{
					Radicado:              "PQ-2025-0042",
					Type:                  domain.PetitionType{Name: "Peticion"},
					Requester:             domain.Actor{DisplayName: "Carlos"},
					Status:                domain.StatusPendingTriage,
					FiledAt:               overdue.AddDate(0, 0, -15),
					EstimatedResolutionAt: overdue,
				}},
				Total: 1, Page: 1, Limit: 20, TotalPages: 1,
			}, nil
		},
	}
	h := NewPetitionHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/petitions?status=pending_triage&page=1&limit=20", "")
	c.Set(middleware.SessionKey, triageOfficerSession())

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastInput.Status != domain.StatusPendingTriage || stub.lastInput.Limit != 20 {
		t.Errorf("filters not forwarded: %+v", stub.lastInput)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	items, _ := resp["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	item, _ := items[0].(map[string]any)
	if item["remaining"] != "overdue" {
		t.Errorf("expected overdue label, got %v", item["remaining"])
	}
}

func TestPetitionHandler_List_BadDateParam(t *testing.T) {
	stub := &stubPetitionService{
		listFn: func(context.Context, *domain.Session, ports.ListPetitionsInput) (*ports.ListPetitionsResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewPetitionHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/v1/petitions?from=yesterday", "")
	c.Set(middleware.SessionKey, triageOfficerSession())

	err := h.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestPetitionHandler_Get(t *testing.T) {
	stub := &stubPetitionService{
		getFn: func(_ context.Context, _ *domain.Session, radicado string) (*ports.PetitionDetail, error) {
			if radicado != "PQ-2025-0042" {
				t.Fatalf("unexpected radicado: %s", radicado)
			}
			return &ports.PetitionDetail{
				Petition:    domain.Petition{Radicado: radicado, Status: domain.StatusInProgress},
				DaysOverdue: 3,
				Remaining:   domain.Remaining{Overdue: true},
			}, nil
		},
	}
	h := NewPetitionHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/petitions/PQ-2025-0042", "")
	c.SetParamNames("radicado")
	c.SetParamValues("PQ-2025-0042")
	c.Set(middleware.SessionKey, triageOfficerSession())

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["days_overdue"] != float64(3) {
		t.Errorf("expected 3 days overdue, got %v", resp["days_overdue"])
	}
	if resp["remaining_label"] != "overdue" {
		t.Errorf("expected overdue label, got %v", resp["remaining_label"])
	}
}

func TestPetitionHandler_Get_NotFound(t *testing.T) {
	stub := &stubPetitionService{
		getFn: func(context.Context, *domain.Session, string) (*ports.PetitionDetail, error) {
			return nil, domain.ErrPetitionNotFound
		},
	}
	h := NewPetitionHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/v1/petitions/PQ-0", "")
	c.SetParamNames("radicado")
	c.SetParamValues("PQ-0")
	c.Set(middleware.SessionKey, triageOfficerSession())

	if err := h.Get(c); !errors.Is(err, domain.ErrPetitionNotFound) {
		t.Fatalf("expected ErrPetitionNotFound, got %v", err)
	}
}
