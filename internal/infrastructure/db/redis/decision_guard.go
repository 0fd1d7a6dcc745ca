package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

const guardTTL = 24 * time.Hour

// DecisionGuard detects a triage decision being recorded twice for the same
// petition, backed by Redis.
// Key format: triage:<radicado>:<status>
type DecisionGuard struct {
	client *redis.Client
}

// NewDecisionGuard creates a DecisionGuard wrapping the given Redis client.
func NewDecisionGuard(client *redis.Client) *DecisionGuard {
	return &DecisionGuard{client: client}
}

// IsDuplicate reports whether this decision has already been recorded.
func (g *DecisionGuard) IsDuplicate(ctx context.Context, radicado string, to domain.PetitionStatus) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(radicado, to)).Result()
	if err != nil {
		return false, fmt.Errorf("decision guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this decision has been persisted (expires after guardTTL).
func (g *DecisionGuard) Mark(ctx context.Context, radicado string, to domain.PetitionStatus) error {
	return g.client.Set(ctx, g.key(radicado, to), "1", guardTTL).Err()
}

func (g *DecisionGuard) key(radicado string, to domain.PetitionStatus) string {
	return fmt.Sprintf("triage:%s:%s", radicado, to)
}
