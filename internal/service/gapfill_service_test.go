package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

func gapFillFixture() (*models.PerformanceIndex, []models.Teacher) {
	records := []models.PerformanceRecord{
		perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90),
		perfRecord("Mat Pilates", "Tuesday", "10:00", "Main Studio", "Ana Silva", 80),
		perfRecord("Barre", "Wednesday", "18:00", "Annex", "Ben Cohen", 85),
		perfRecord("Mat Pilates", "Thursday", "09:00", "Annex", "Ben Cohen", 78),
		perfRecord("Reformer Flow", "Friday", "17:00", "Main Studio", "Ana Silva", 88),
		perfRecord("Barre", "Saturday", "10:00", "Main Studio", "Ben Cohen", 82),
		perfRecord("Mat Pilates", "Sunday", "11:00", "Main Studio", "Ana Silva", 75),
	}
	roster := []models.Teacher{
		rosterTeacher("Ana Silva", models.TeacherStatusActive, "Reformer Flow", "Mat Pilates"),
		rosterTeacher("Ben Cohen", models.TeacherStatusActive, "Barre", "Mat Pilates"),
	}
	return models.NewPerformanceIndex(records), roster
}

func TestFillAddsUpToBatchSize(t *testing.T) {
	index, roster := gapFillFixture()
	engine := NewGapFillEngine(nil)

	result := engine.Fill(index, roster, nil, nil, GapFillConfig{BatchSize: 5})
	assert.Equal(t, 5, result.Added)
	assert.Len(t, result.Instances, 5)
}

func TestFillStopsWhenPoolExhausted(t *testing.T) {
	records := []models.PerformanceRecord{
		perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90),
		perfRecord("Mat Pilates", "Tuesday", "10:00", "Main Studio", "Ana Silva", 80),
	}
	roster := []models.Teacher{
		rosterTeacher("Ana Silva", models.TeacherStatusActive, "Reformer Flow", "Mat Pilates"),
	}
	engine := NewGapFillEngine(nil)

	result := engine.Fill(models.NewPerformanceIndex(records), roster, nil, nil, GapFillConfig{BatchSize: 5})
	assert.Equal(t, 2, result.Added)
	assert.True(t, result.Exhausted)
}

func TestFillNeverDisturbsExistingPlacements(t *testing.T) {
	index, roster := gapFillFixture()
	existing := []models.ScheduledClassInstance{classFor("Cara Diaz", "Monday", "07:00", 1)}
	engine := NewGapFillEngine(nil)

	result := engine.Fill(index, roster, nil, existing, GapFillConfig{BatchSize: 2})
	require.Equal(t, 2, result.Added)
	require.Len(t, result.Instances, 3)

	var found bool
	for _, inst := range result.Instances {
		if inst.ID == existing[0].ID {
			found = true
			assert.Equal(t, existing[0].Day, inst.Day)
			assert.Equal(t, existing[0].Time, inst.Time)
		}
	}
	assert.True(t, found, "existing instance must survive untouched")
}

func TestFillZeroDeltaAtCeilingIsSuccess(t *testing.T) {
	records := []models.PerformanceRecord{
		perfRecord("Mat Pilates", "Monday", "09:00", "Main Studio", "Ana Silva", 90),
	}
	roster := []models.Teacher{rosterTeacher("Ana Silva", models.TeacherStatusActive, "Mat Pilates")}

	// Ana already carries 14.5h; one more hour would reach the 15h ceiling.
	existing := []models.ScheduledClassInstance{classFor("Ana Silva", "Sunday", "08:00", 14.5)}
	engine := NewGapFillEngine(nil)

	result := engine.Fill(models.NewPerformanceIndex(records), roster, nil, existing, GapFillConfig{
		BatchSize:      5,
		MaxWeeklyHours: 15,
	})
	assert.Equal(t, 0, result.Added)
	assert.True(t, result.Exhausted)
	assert.Len(t, result.Instances, 1)

	// Feeding the output back in stays a no-op on every repeat.
	again := engine.Fill(models.NewPerformanceIndex(records), roster, nil, result.Instances, GapFillConfig{
		BatchSize:      5,
		MaxWeeklyHours: 15,
	})
	assert.Equal(t, 0, again.Added)
	assert.Len(t, again.Instances, 1)
}

func TestFillSkipsOccupiedSlots(t *testing.T) {
	records := []models.PerformanceRecord{
		perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90),
	}
	roster := []models.Teacher{rosterTeacher("Ana Silva", models.TeacherStatusActive, "Reformer Flow")}
	existing := []models.ScheduledClassInstance{classFor("Ana Silva", "Monday", "09:00", 1)}
	engine := NewGapFillEngine(nil)

	result := engine.Fill(models.NewPerformanceIndex(records), roster, nil, existing, GapFillConfig{BatchSize: 3})
	assert.Equal(t, 0, result.Added)
}

func TestFillIsDeterministic(t *testing.T) {
	index, roster := gapFillFixture()
	engine := NewGapFillEngine(nil)

	first := engine.Fill(index, roster, nil, nil, GapFillConfig{BatchSize: 4})
	second := engine.Fill(index, roster, nil, nil, GapFillConfig{BatchSize: 4})

	require.Equal(t, first.Added, second.Added)
	for i := range first.Instances {
		assert.Equal(t, first.Instances[i].Day, second.Instances[i].Day)
		assert.Equal(t, first.Instances[i].Time, second.Instances[i].Time)
		assert.Equal(t, first.Instances[i].TeacherFullName(), second.Instances[i].TeacherFullName())
	}
}

func TestFillDefaultsBatchSize(t *testing.T) {
	index, roster := gapFillFixture()
	engine := NewGapFillEngine(nil)

	result := engine.Fill(index, roster, nil, nil, GapFillConfig{})
	assert.Equal(t, defaultGapFillBatch, result.Added)
}
