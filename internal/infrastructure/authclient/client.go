// Package authclient is the HTTP adapter for the collaborator auth service.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client implements ports.AuthClient against the collaborator's REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Wire types. The collaborator speaks Spanish field names on the login form.

type loginRequest struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

type wireActor struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

type wirePermission struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type loginResponse struct {
	Token       string           `json:"token"`
	Actor       wireActor        `json:"actor"`
	Permissions []wirePermission `json:"permissions"`
}

type renewResponse struct {
	Token string `json:"token"`
}

type logoutRequest struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token, the actor and its permission set.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.LoginResult, error) {
	body, err := json.Marshal(loginRequest{Correo: creds.Email, Contrasena: creds.Password})
	if err != nil {
		return nil, fmt.Errorf("auth login: encode: %w", err)
	}

	resp, err := c.post(ctx, "/auth/login", "", body)
	if err != nil {
		return nil, fmt.Errorf("auth login: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("auth login: status %d: %w", resp.StatusCode, domain.ErrServiceUnavailable)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("auth login: decode: %w", err)
	}

	permissions := make([]domain.PermissionEntry, 0, len(lr.Permissions))
	for _, p := range lr.Permissions {
		permissions = append(permissions, domain.PermissionEntry{
			Role:     domain.Role(p.Role),
			Resource: domain.Resource(p.Resource),
			Action:   domain.Action(p.Action),
		})
	}

	return &ports.LoginResult{
		Token: lr.Token,
		Actor: domain.Actor{
			ID:          lr.Actor.ID,
			Role:        domain.Role(lr.Actor.Role),
			DisplayName: lr.Actor.DisplayName,
		},
		Permissions: permissions,
	}, nil
}

// Renew exchanges the current bearer token for a fresh one.
func (c *Client) Renew(ctx context.Context, token string) (string, error) {
	resp, err := c.post(ctx, "/auth/renew", token, nil)
	if err != nil {
		return "", fmt.Errorf("auth renew: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("auth renew: token rejected: %w", domain.ErrStaleSession)
	default:
		return "", fmt.Errorf("auth renew: status %d: %w", resp.StatusCode, domain.ErrServiceUnavailable)
	}

	var rr renewResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("auth renew: decode: %w", err)
	}
	if rr.Token == "" {
		return "", fmt.Errorf("auth renew: empty token: %w", domain.ErrServiceUnavailable)
	}
	return rr.Token, nil
}

// Logout invalidates the token server-side.
func (c *Client) Logout(ctx context.Context, token string) error {
	body, err := json.Marshal(logoutRequest{Token: token})
	if err != nil {
		return fmt.Errorf("auth logout: encode: %w", err)
	}

	resp, err := c.post(ctx, "/auth/logout", token, body)
	if err != nil {
		return fmt.Errorf("auth logout: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth logout: status %d: %w", resp.StatusCode, domain.ErrServiceUnavailable)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, bearer string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.http.Do(req)
}
