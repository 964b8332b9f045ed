package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Teacher status cohorts. Inactive teachers are hard-excluded from every
// engine; new trainers run under capped hours and a limited format subset.
const (
	TeacherStatusActive   = "active"
	TeacherStatusNew      = "new"
	TeacherStatusInactive = "inactive"
)

// Teacher is a roster profile consumed from the external roster manager.
type Teacher struct {
	ID            string         `db:"id" json:"id"`
	FirstName     string         `db:"first_name" json:"first_name"`
	LastName      string         `db:"last_name" json:"last_name"`
	Specialties   pq.StringArray `db:"specialties" json:"specialties"`
	PriorityTier  int            `db:"priority_tier" json:"priority_tier"`
	MinHours      float64        `db:"min_hours" json:"min_hours"`
	MaxHours      float64        `db:"max_hours" json:"max_hours"`
	PreferredDays pq.StringArray `db:"preferred_days" json:"preferred_days"`
	Status        string         `db:"status" json:"status"`
}

// FullName joins the name parts the way schedule instances store teachers.
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// HasSpecialty reports whether the teacher is qualified for a class format.
func (t Teacher) HasSpecialty(format string) bool {
	for _, s := range t.Specialties {
		if strings.EqualFold(s, format) {
			return true
		}
	}
	return false
}

// PrefersDay reports whether a weekday is among the teacher's preferred days.
// An empty preference list means no restriction.
func (t Teacher) PrefersDay(day string) bool {
	if len(t.PreferredDays) == 0 {
		return true
	}
	for _, d := range t.PreferredDays {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}

// TeacherTimeOff is a leave range consumed from the availability manager.
type TeacherTimeOff struct {
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	Reason      string    `db:"reason" json:"reason"`
}

// TeacherBlackout is a single unavailable date.
type TeacherBlackout struct {
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	Date        time.Time `db:"date" json:"date"`
}

// BlockedDays maps teacher full name to the weekday names on which that
// teacher has no capacity. Engines treat a blocked teacher-day as non-existent
// capacity.
type BlockedDays map[string]map[string]struct{}

// Blocked reports whether the teacher has no capacity on the given weekday.
func (b BlockedDays) Blocked(teacher, day string) bool {
	days, ok := b[teacher]
	if !ok {
		return false
	}
	_, blocked := days[day]
	return blocked
}

// Block marks a teacher-day as unavailable.
func (b BlockedDays) Block(teacher, day string) {
	if b[teacher] == nil {
		b[teacher] = make(map[string]struct{})
	}
	b[teacher][day] = struct{}{}
}

// BuildBlockedDays folds leave ranges and blackout dates that intersect the
// scheduling week [weekStart, weekStart+7d) into per-weekday blocks.
func BuildBlockedDays(weekStart time.Time, timeOff []TeacherTimeOff, blackouts []TeacherBlackout) BlockedDays {
	blocked := make(BlockedDays)
	weekStart = weekStart.Truncate(24 * time.Hour)
	weekEnd := weekStart.AddDate(0, 0, 7)

	for _, off := range timeOff {
		day := off.StartDate.Truncate(24 * time.Hour)
		end := off.EndDate.Truncate(24 * time.Hour)
		for !day.After(end) {
			if !day.Before(weekStart) && day.Before(weekEnd) {
				blocked.Block(off.TeacherName, day.Weekday().String())
			}
			day = day.AddDate(0, 0, 1)
		}
	}
	for _, b := range blackouts {
		day := b.Date.Truncate(24 * time.Hour)
		if !day.Before(weekStart) && day.Before(weekEnd) {
			blocked.Block(b.TeacherName, day.Weekday().String())
		}
	}
	return blocked
}
