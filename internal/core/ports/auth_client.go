package ports

import (
	"context"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// Credentials carries the login form fields.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is what the collaborator auth service hands back on success.
type LoginResult struct {
	Token       string
	Actor       domain.Actor
	Permissions []domain.PermissionEntry
}

// AuthClient talks to the collaborator auth service. Implementations must map
// rejected credentials to domain.ErrInvalidCredentials, rejected/expired tokens
// to domain.ErrStaleSession, and transport failures to domain.ErrServiceUnavailable.
type AuthClient interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	// Renew exchanges the current bearer token for a fresh one.
	Renew(ctx context.Context, token string) (string, error)
	// Logout invalidates the token server-side. Best-effort: callers clear
	// local state regardless of the outcome.
	Logout(ctx context.Context, token string) error
}
