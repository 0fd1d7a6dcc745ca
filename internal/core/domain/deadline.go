package domain

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// AddBusinessDays advances start by n days counted only on Monday-Friday;
// Saturday and Sunday are skipped and never consume a day of the count.
// n = 0 returns start unchanged. Negative n is contractually invalid.
func AddBusinessDays(start time.Time, n int) (time.Time, error) {
	if n < 0 {
		return time.Time{}, fmt.Errorf("add business days: n=%d: %w", n, ErrInvalidArgument)
	}
	d := start
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d, nil
}

// DaysOverdue returns ceil((now - estimated) / 1 day), floored at 0 when the
// petition is not yet due.
func DaysOverdue(now, estimated time.Time) int {
	diff := now.Sub(estimated)
	if diff <= 0 {
		return 0
	}
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

// Remaining describes how far a petition is from its estimated resolution
// date, from the not-yet-due side.
type Remaining struct {
	// Days left until the estimated date; zero when due today or overdue.
	Days     int  `json:"days"`
	DueToday bool `json:"due_today"`
	Overdue  bool `json:"overdue"`
}

// DaysRemaining mirrors DaysOverdue from the other side. The result drives
// escalation, so the same-day and overdue cases are reported explicitly
// instead of collapsing into a day count.
func DaysRemaining(now, estimated time.Time) Remaining {
	ny, nm, nd := now.Date()
	ey, em, ed := estimated.Date()
	if ny == ey && nm == em && nd == ed {
		return Remaining{DueToday: true}
	}
	if now.After(estimated) {
		return Remaining{Overdue: true}
	}
	diff := estimated.Sub(now)
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return Remaining{Days: days}
}

// String renders the display form used by list screens.
func (r Remaining) String() string {
	switch {
	case r.Overdue:
		return "overdue"
	case r.DueToday:
		return "today"
	default:
		return fmt.Sprintf("%d days", r.Days)
	}
}
