package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/api/middleware"
	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

type stubSessions struct {
	loginFn   func(ctx context.Context, creds ports.Credentials) (*domain.Session, error)
	loggedOut []string
}

func (s *stubSessions) Login(ctx context.Context, creds ports.Credentials) (*domain.Session, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubSessions) Logout(_ context.Context, handle string) {
	s.loggedOut = append(s.loggedOut, handle)
}

func triageOfficerSession() *domain.Session {
	return &domain.Session{
		Handle: "PQ-S-AB12",
		Actor:  domain.Actor{ID: "u1", Role: domain.RoleTriageOfficer, DisplayName: "Ana"},
		Permissions: []domain.PermissionEntry{
			{Role: domain.RoleTriageOfficer, Resource: domain.ResourcePetitions, Action: domain.ActionDashboard},
			{Role: domain.RoleTriageOfficer, Resource: domain.ResourceReports, Action: domain.ActionDashboard},
			{Role: domain.RoleTriageOfficer, Resource: domain.ResourcePetitions, Action: domain.ActionRead},
		},
	}
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubSessions{
		loginFn: func(_ context.Context, creds ports.Credentials) (*domain.Session, error) {
			if creds.Email != "ana@example.gov" || creds.Password != "s3cret" {
				t.Fatalf("unexpected credentials: %+v", creds)
			}
			return triageOfficerSession(), nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/login", `{"email":"ana@example.gov","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["handle"] != "PQ-S-AB12" {
		t.Errorf("expected session handle, got %v", resp["handle"])
	}
	if resp["landing"] != "petitions" {
		t.Errorf("first dashboard grant must decide the landing, got %v", resp["landing"])
	}
	dashboards, _ := resp["dashboards"].([]any)
	if len(dashboards) != 2 || dashboards[0] != "petitions" || dashboards[1] != "reports" {
		t.Errorf("dashboards must preserve grant order: %v", dashboards)
	}
}

func TestAuthHandler_Login_ReplacesOldSession(t *testing.T) {
	stub := &stubSessions{
		loginFn: func(context.Context, ports.Credentials) (*domain.Session, error) {
			return triageOfficerSession(), nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/login", `{"email":"ana@example.gov","password":"s3cret"}`)
	c.Request().Header.Set("Authorization", "Bearer PQ-S-OLD")
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(stub.loggedOut) != 1 || stub.loggedOut[0] != "PQ-S-OLD" {
		t.Errorf("previous session must be closed before login, got %v", stub.loggedOut)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubSessions{
		loginFn: func(context.Context, ports.Credentials) (*domain.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/login", `{"email":"ana@example.gov"}`)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	stub := &stubSessions{
		loginFn: func(context.Context, ports.Credentials) (*domain.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/login", `{"email":"ana@example.gov","password":"bad"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	stub := &stubSessions{}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer PQ-S-AB12")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(stub.loggedOut) != 1 || stub.loggedOut[0] != "PQ-S-AB12" {
		t.Errorf("session not closed: %v", stub.loggedOut)
	}
}

func TestAuthHandler_Logout_NoHandle(t *testing.T) {
	stub := &stubSessions{}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// Logging out without a session is a no-op, never an error.
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(stub.loggedOut) != 0 {
		t.Errorf("nothing should be closed: %v", stub.loggedOut)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, rec := newTestContext(t, http.MethodGet, "/v1/auth/session", "")
	c.Set(middleware.SessionKey, triageOfficerSession())
	if err := h.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, present := resp["handle"]; present {
		t.Errorf("session view must not re-expose the handle")
	}
	actor, _ := resp["actor"].(map[string]any)
	if actor["id"] != "u1" {
		t.Errorf("unexpected actor: %v", actor)
	}
	perms, _ := resp["permissions"].([]any)
	if len(perms) != 3 {
		t.Errorf("expected 3 permission entries, got %d", len(perms))
	}
}
