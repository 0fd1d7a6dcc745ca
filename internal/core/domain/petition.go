package domain

import "time"

// PetitionStatus represents the lifecycle state of a petition.
type PetitionStatus string

const (
	StatusFiled         PetitionStatus = "filed"
	StatusPendingTriage PetitionStatus = "pending_triage"
	StatusAccepted      PetitionStatus = "accepted"
	StatusRejected      PetitionStatus = "rejected"
	StatusInProgress    PetitionStatus = "in_progress"
	StatusResolved      PetitionStatus = "resolved"
)

// validTransitions defines the allowed state machine edges. Rejected and
// Resolved are terminal: a rejected filing must be re-filed, never revived.
var validTransitions = map[PetitionStatus][]PetitionStatus{
	StatusFiled:         {StatusPendingTriage},
	StatusPendingTriage: {StatusAccepted, StatusRejected},
	StatusAccepted:      {StatusInProgress},
	StatusInProgress:    {StatusResolved},
}

// CanTransitionTo reports whether a transition from the current status to next
// is defined in the transition table.
func (s PetitionStatus) CanTransitionTo(next PetitionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition out of this status is defined.
func (s PetitionStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// PetitionType is read-only reference data describing a petition category and
// the working days its resolution is allotted.
type PetitionType struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SLABusinessDays int    `json:"sla_business_days"`
}

// StatusEvent is an immutable audit record of a single transition. Exactly one
// is appended per successful transition; entries are never edited or deleted.
type StatusEvent struct {
	From      PetitionStatus `json:"from"`
	To        PetitionStatus `json:"to"`
	Actor     Actor          `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
	Note      string         `json:"note,omitempty"`
}

// Petition is the central aggregate. It is created by a citizen filing in
// status Filed and mutated only through state machine transitions.
//
// Invariants:
//   - EstimatedResolutionAt is FiledAt advanced by Type.SLABusinessDays
//     business days, computed at filing.
//   - Responsible is set if and only if Status is Accepted, InProgress or Resolved.
//   - StatusHistory is append-only.
type Petition struct {
	ID                    string         `json:"id"`
	Radicado              string         `json:"radicado"`
	Type                  PetitionType   `json:"type"`
	Requester             Actor          `json:"requester"`
	Responsible           *Actor         `json:"responsible,omitempty"`
	Status                PetitionStatus `json:"status"`
	FiledAt               time.Time      `json:"filed_at"`
	EstimatedResolutionAt time.Time      `json:"estimated_resolution_at"`
	ResolvedAt            *time.Time     `json:"resolved_at,omitempty"`
	StatusHistory         []StatusEvent  `json:"status_history"`
}

// Clone returns a deep copy so a transition can be built and discarded without
// touching the caller's petition.
func (p *Petition) Clone() *Petition {
	out := *p
	if p.Responsible != nil {
		r := *p.Responsible
		out.Responsible = &r
	}
	if p.ResolvedAt != nil {
		t := *p.ResolvedAt
		out.ResolvedAt = &t
	}
	out.StatusHistory = make([]StatusEvent, len(p.StatusHistory))
	copy(out.StatusHistory, p.StatusHistory)
	return &out
}
