package service

import (
	"fmt"

	"github.com/pulsefit/studio-scheduler-api/internal/dto"
	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// HourPolicy holds the weekly teacher-hour thresholds. Both values are
// deployment configuration; the defaults document observed studio policy.
type HourPolicy struct {
	SoftWeeklyHours float64
	MaxWeeklyHours  float64
}

// DefaultHourPolicy returns the documented defaults: warn at 11h, block at 15h.
func DefaultHourPolicy() HourPolicy {
	return HourPolicy{SoftWeeklyHours: 11, MaxWeeklyHours: 15}
}

func (p HourPolicy) normalized() HourPolicy {
	if p.SoftWeeklyHours <= 0 {
		p.SoftWeeklyHours = 11
	}
	if p.MaxWeeklyHours <= 0 {
		p.MaxWeeklyHours = 15
	}
	return p
}

// ComputeLedger derives per-teacher weekly hours from the current instance
// set. The ledger is always recomputed, never maintained incrementally.
func ComputeLedger(instances []models.ScheduledClassInstance) map[string]float64 {
	ledger := make(map[string]float64)
	for _, inst := range instances {
		ledger[inst.TeacherFullName()] += instanceDuration(inst)
	}
	return ledger
}

// ValidateHours projects the candidate's duration onto its teacher's current
// hours and returns the gate's verdict. The gate never commits and never
// bypasses its own check; override decisions belong to the caller.
func ValidateHours(existing []models.ScheduledClassInstance, candidate models.ScheduledClassInstance, policy HourPolicy) dto.HourVerdict {
	policy = policy.normalized()
	teacher := candidate.TeacherFullName()
	current := ComputeLedger(existing)[teacher]
	projected := current + instanceDuration(candidate)

	verdict := dto.HourVerdict{
		TeacherName:    teacher,
		CurrentHours:   current,
		ProjectedHours: projected,
	}

	switch {
	case projected >= policy.MaxWeeklyHours:
		verdict.Valid = false
		verdict.Overridable = true
		verdict.Message = fmt.Sprintf("%s would reach %.1fh, at or above the %.1fh weekly ceiling", teacher, projected, policy.MaxWeeklyHours)
	case projected > policy.SoftWeeklyHours:
		verdict.Valid = true
		verdict.Overridable = true
		verdict.Message = fmt.Sprintf("%s would reach %.1fh, above the %.1fh warning threshold", teacher, projected, policy.SoftWeeklyHours)
	default:
		verdict.Valid = true
	}
	return verdict
}

func instanceDuration(inst models.ScheduledClassInstance) float64 {
	if inst.DurationHours <= 0 {
		return 1.0
	}
	return inst.DurationHours
}
