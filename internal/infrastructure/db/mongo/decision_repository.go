package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

const decisionsCollection = "triage_decisions"

// DecisionRepository mirrors triage decisions into a local audit collection.
// The petition store remains the source of truth; this collection exists so
// audits do not depend on the collaborator being reachable.
type DecisionRepository struct {
	db *mongo.Database
}

func NewDecisionRepository(db *mongo.Database) ports.DecisionLog {
	return &DecisionRepository{db: db}
}

// Insert appends one decision record. Records are never updated or deleted.
func (r *DecisionRepository) Insert(ctx context.Context, record *ports.DecisionRecord) error {
	doc := bson.M{
		"radicado":    record.Radicado,
		"from":        string(record.From),
		"to":          string(record.To),
		"actor_id":    record.Actor.ID,
		"actor_role":  string(record.Actor.Role),
		"comment":     record.Comment,
		"decided_at":  record.DecidedAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if record.ResponsibleID != "" {
		doc["responsible_id"] = record.ResponsibleID
	}
	if record.Reason != "" {
		doc["reason"] = record.Reason
	}

	_, err := r.db.Collection(decisionsCollection).InsertOne(ctx, doc)
	return err
}
