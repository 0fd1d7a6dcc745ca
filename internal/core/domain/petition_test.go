package domain

import (
	"testing"
	"time"
)

func TestPetitionStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to PetitionStatus
		want     bool
	}{
		{StatusFiled, StatusPendingTriage, true},
		{StatusPendingTriage, StatusAccepted, true},
		{StatusPendingTriage, StatusRejected, true},
		{StatusAccepted, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},

		{StatusFiled, StatusAccepted, false}, // must pass through triage
		{StatusFiled, StatusRejected, false},
		{StatusAccepted, StatusResolved, false},
		{StatusAccepted, StatusRejected, false},
		{StatusRejected, StatusPendingTriage, false},
		{StatusResolved, StatusInProgress, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPetitionStatus_TerminalStates(t *testing.T) {
	for _, s := range []PetitionStatus{StatusRejected, StatusResolved} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []PetitionStatus{StatusFiled, StatusPendingTriage, StatusAccepted, StatusInProgress} {
		if s.Terminal() {
			t.Errorf("did not expect %s to be terminal", s)
		}
	}
}

func TestPetition_CloneIsDeep(t *testing.T) {
	resolved := time.Now().UTC()
	p := &Petition{
		Radicado:    "PQ-2025-0001",
		Status:      StatusResolved,
		Responsible: &Actor{ID: "u9", Role: RoleCaseHandler},
		ResolvedAt:  &resolved,
		StatusHistory: []StatusEvent{
			{From: StatusFiled, To: StatusPendingTriage, Timestamp: resolved},
		},
	}

	c := p.Clone()
	c.Responsible.ID = "changed"
	c.StatusHistory = append(c.StatusHistory, StatusEvent{From: StatusPendingTriage, To: StatusAccepted})

	if p.Responsible.ID != "u9" {
		t.Errorf("clone mutated original responsible")
	}
	if len(p.StatusHistory) != 1 {
		t.Errorf("clone mutated original history, len=%d", len(p.StatusHistory))
	}
}
