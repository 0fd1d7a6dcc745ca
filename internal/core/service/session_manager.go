package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

// Renewal interval carried over from the source system: tokens are exchanged
// every 13 minutes while a session lives.
const defaultRenewEvery = 13 * time.Minute

// best-effort logout notifications must not hang process teardown
const notifyTimeout = 5 * time.Second

// managedSession pairs a session with the cancel func of its renewal loop.
// Pointer identity doubles as the staleness guard: a renewal response is only
// applied while the registry still maps the handle to this exact entry.
type managedSession struct {
	session domain.Session
	cancel  context.CancelFunc
}

// SessionManager owns every live session and keeps their tokens fresh. It is
// the single component allowed to create, mutate, or drop a session; all other
// code reads sessions through Get.
type SessionManager struct {
	auth       ports.AuthClient
	renewEvery time.Duration
	log        zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*managedSession
}

func NewSessionManager(auth ports.AuthClient, renewEvery time.Duration, log zerolog.Logger) *SessionManager {
	if renewEvery <= 0 {
		renewEvery = defaultRenewEvery
	}
	return &SessionManager{
		auth:       auth,
		renewEvery: renewEvery,
		log:        log,
		sessions:   make(map[string]*managedSession),
	}
}

// Login authenticates against the collaborator auth service, registers the new
// session and starts its renewal loop. The permission set is fixed here for
// the session's whole lifetime.
func (m *SessionManager) Login(ctx context.Context, creds ports.Credentials) (*domain.Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := domain.Session{
		Handle:      newHandle(),
		Token:       result.Token,
		IssuedAt:    time.Now().UTC(),
		RenewEvery:  m.renewEvery,
		Actor:       result.Actor,
		Permissions: result.Permissions,
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	ms := &managedSession{session: sess, cancel: cancel}

	m.mu.Lock()
	m.sessions[sess.Handle] = ms
	m.mu.Unlock()

	go m.renewLoop(loopCtx, sess.Handle, ms)

	m.log.Info().
		Str("actor_id", sess.Actor.ID).
		Str("role", string(sess.Actor.Role)).
		Int("permissions", len(sess.Permissions)).
		Msg("session opened")

	out := sess
	return &out, nil
}

// Logout drops the session and cancels its renewal loop, then notifies the
// auth service best-effort. Clearing happens unconditionally: whatever happens
// server-side, the portal must forget the session.
func (m *SessionManager) Logout(ctx context.Context, handle string) {
	m.mu.Lock()
	ms, ok := m.sessions[handle]
	if ok {
		delete(m.sessions, handle)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	ms.cancel()
	m.notifyLogout(ctx, ms.session.Token)
	m.log.Info().Str("actor_id", ms.session.Actor.ID).Msg("session closed")
}

// Get returns the live session for a handle. A session whose collaborator
// token has expired is evicted and reported as stale; upstream code observes
// that as "no active session" and returns the user to the login entry point.
func (m *SessionManager) Get(handle string) (*domain.Session, error) {
	m.mu.Lock()
	ms, ok := m.sessions[handle]
	if !ok {
		m.mu.Unlock()
		return nil, domain.ErrStaleSession
	}
	sess := ms.session
	m.mu.Unlock()

	if exp, ok := tokenExpiry(sess.Token); ok && time.Now().After(exp) {
		m.evict(handle, ms, "token expired")
		return nil, domain.ErrStaleSession
	}
	return &sess, nil
}

// Count reports the number of live sessions. Exposed for the metrics gauge.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close cancels every renewal loop. Used at process teardown.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for handle, ms := range m.sessions {
		ms.cancel()
		delete(m.sessions, handle)
	}
}

// renewLoop exchanges the session's token every RenewEvery until the session
// is dropped. A single failed renewal is fatal to the session: the loop forces
// a full logout and stops, with no retry-then-degrade policy.
func (m *SessionManager) renewLoop(ctx context.Context, handle string, ms *managedSession) {
	ticker := time.NewTicker(ms.session.RenewEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.renewOnce(ctx, handle, ms) {
				return
			}
		}
	}
}

// renewOnce performs one token exchange. Returns false when the loop must stop
// (session gone or renewal failed). A response that resolves after the session
// was logged out or replaced is discarded, never applied.
func (m *SessionManager) renewOnce(ctx context.Context, handle string, ms *managedSession) bool {
	m.mu.Lock()
	current, ok := m.sessions[handle]
	if !ok || current != ms {
		m.mu.Unlock()
		return false
	}
	token := ms.session.Token
	m.mu.Unlock()

	newToken, err := m.auth.Renew(ctx, token)

	m.mu.Lock()
	current, ok = m.sessions[handle]
	if !ok || current != ms {
		// Logged out while the renewal was in flight: discard the result.
		m.mu.Unlock()
		return false
	}
	if err != nil {
		m.mu.Unlock()
		m.evict(handle, ms, "renewal failed")
		m.log.Warn().Err(err).Str("actor_id", ms.session.Actor.ID).Msg("token renewal failed, session dropped")
		return false
	}
	ms.session.Token = newToken
	m.mu.Unlock()

	m.log.Debug().Str("actor_id", ms.session.Actor.ID).Msg("token renewed")
	return true
}

// evict removes a session and cancels its loop, notifying the auth service
// best-effort with whatever token the session still holds.
func (m *SessionManager) evict(handle string, ms *managedSession, reason string) {
	m.mu.Lock()
	current, ok := m.sessions[handle]
	if ok && current == ms {
		delete(m.sessions, handle)
	}
	m.mu.Unlock()
	if !ok || current != ms {
		return
	}

	ms.cancel()
	m.notifyLogout(context.Background(), ms.session.Token)
	m.log.Info().Str("actor_id", ms.session.Actor.ID).Str("reason", reason).Msg("session evicted")
}

func (m *SessionManager) notifyLogout(ctx context.Context, token string) {
	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := m.auth.Logout(notifyCtx, token); err != nil {
		m.log.Warn().Err(err).Msg("logout notification failed")
	}
}

// tokenExpiry reads the exp claim of the collaborator's JWT without verifying
// the signature; verification is the auth service's job, the portal only needs
// to know when to stop trusting its own copy.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// newHandle returns an opaque session handle in the format PQ-S-XXXXXXXXXXXXXXXX.
func newHandle() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("PQ-S-%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("PQ-S-%X", b)
}
