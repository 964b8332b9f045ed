package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(value string) time.Time {
	parsed, _ := time.Parse("2006-01-02", value)
	return parsed
}

func TestBuildBlockedDaysClipsToWeek(t *testing.T) {
	// Week of Monday 2026-09-07.
	weekStart := day("2026-09-07")

	timeOff := []TeacherTimeOff{
		// Leave runs from the prior Friday through Tuesday; only Mon+Tue fall
		// inside the scheduling week.
		{TeacherName: "Ana Silva", StartDate: day("2026-09-04"), EndDate: day("2026-09-08")},
	}
	blackouts := []TeacherBlackout{
		{TeacherName: "Ben Cohen", Date: day("2026-09-12")},
		{TeacherName: "Ben Cohen", Date: day("2026-09-20")}, // next week, ignored
	}

	blocked := BuildBlockedDays(weekStart, timeOff, blackouts)

	assert.True(t, blocked.Blocked("Ana Silva", "Monday"))
	assert.True(t, blocked.Blocked("Ana Silva", "Tuesday"))
	assert.False(t, blocked.Blocked("Ana Silva", "Friday"))
	assert.True(t, blocked.Blocked("Ben Cohen", "Saturday"))
	assert.False(t, blocked.Blocked("Ben Cohen", "Sunday"))
	assert.False(t, blocked.Blocked("Cara Diaz", "Monday"))
}

func TestPerformanceIndexDeduplicatesFirstWins(t *testing.T) {
	first := PerformanceRecord{ClassFormat: "Barre", Day: "Monday", Time: "09:00", Location: "Annex", TeacherName: "Ana Silva", Score: 90}
	dup := first
	dup.Score = 10

	index := NewPerformanceIndex([]PerformanceRecord{first, dup})
	assert.Equal(t, 1, index.Len())

	rec, ok := index.Lookup(first.Key())
	assert.True(t, ok)
	assert.InDelta(t, 90, rec.Score, 0.001)
}
