package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

type fakeReader struct {
	sessions map[string]*domain.Session
}

func (f *fakeReader) Get(handle string) (*domain.Session, error) {
	sess, ok := f.sessions[handle]
	if !ok {
		return nil, domain.ErrStaleSession
	}
	return sess, nil
}

func TestSession_InjectsLiveSession(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer PQ-S-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reader := &fakeReader{sessions: map[string]*domain.Session{
		"PQ-S-1": {Handle: "PQ-S-1", Actor: domain.Actor{ID: "u1", Role: domain.RoleTriageOfficer}},
	}}

	called := false
	handler := Session(reader)(func(c echo.Context) error {
		called = true
		sess, _ := c.Get(SessionKey).(*domain.Session)
		if sess == nil || sess.Actor.ID != "u1" {
			t.Fatalf("session not injected: %+v", sess)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSession_StaleHandle(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer PQ-S-gone")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(&fakeReader{sessions: map[string]*domain.Session{}})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSession_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(&fakeReader{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSession_WrongScheme(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token PQ-S-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(&fakeReader{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
