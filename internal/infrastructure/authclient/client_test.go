package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

func TestClient_Login_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["correo"] != "ana@example.gov" || req["contrasena"] != "s3cret" {
			t.Errorf("credentials not forwarded on the wire fields: %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-abc",
			"actor": map[string]string{"id": "u1", "role": "triage_officer", "display_name": "Ana"},
			"permissions": []map[string]string{
				{"role": "triage_officer", "resource": "petitions", "action": "read"},
				{"role": "triage_officer", "resource": "petitions", "action": "dashboard"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, zerolog.Nop())
	result, err := c.Login(context.Background(), ports.Credentials{Email: "ana@example.gov", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token != "tok-abc" || result.Actor.Role != domain.RoleTriageOfficer {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.Permissions) != 2 || result.Permissions[1].Action != domain.ActionDashboard {
		t.Errorf("permission order lost: %+v", result.Permissions)
	}
}

func TestClient_Login_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, zerolog.Nop())
	_, err := c.Login(context.Background(), ports.Credentials{Email: "a", Password: "b"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestClient_Login_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, zerolog.Nop())
	_, err := c.Login(context.Background(), ports.Credentials{Email: "a", Password: "b"})
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClient_Renew(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-old" {
			t.Errorf("expected bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-new"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, zerolog.Nop())
	token, err := c.Renew(context.Background(), "tok-old")
	if err != nil {
		t.Fatalf("renew failed: %v", err)
	}
	if token != "tok-new" {
		t.Errorf("expected tok-new, got %q", token)
	}
}

func TestClient_Renew_TokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, zerolog.Nop())
	if _, err := c.Renew(context.Background(), "tok-old"); !errors.Is(err, domain.ErrStaleSession) {
		t.Errorf("expected ErrStaleSession, got %v", err)
	}
}

func TestClient_Logout(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotToken = req["token"]
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, zerolog.Nop())
	if err := c.Logout(context.Background(), "tok-x"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if gotToken != "tok-x" {
		t.Errorf("expected token forwarded in body, got %q", gotToken)
	}
}
