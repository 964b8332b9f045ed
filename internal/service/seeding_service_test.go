package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

func perfRecord(format, day, tm, location, teacher string, score float64) models.PerformanceRecord {
	return models.PerformanceRecord{
		ClassFormat:     format,
		Day:             day,
		Time:            tm,
		Location:        location,
		TeacherName:     teacher,
		Score:           score,
		AvgAttendance:   12,
		FillRatePct:     80,
		RevenuePerClass: 240,
		TipsPerClass:    18,
	}
}

func catalogEntry(rec models.PerformanceRecord, rank int, mustInclude bool) models.PriorityEntry {
	return models.PriorityEntry{
		ClassFormat:  rec.ClassFormat,
		Day:          rec.Day,
		Time:         rec.Time,
		Location:     rec.Location,
		TeacherName:  rec.TeacherName,
		PriorityRank: rank,
		MustInclude:  mustInclude,
		Performance:  rec,
	}
}

func TestSeedPlacesByDescendingRank(t *testing.T) {
	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	recB := perfRecord("Mat Pilates", "Tuesday", "10:00", "Main Studio", "Ben Cohen", 70)
	index := models.NewPerformanceIndex([]models.PerformanceRecord{recA, recB})

	engine := NewSeedingEngine(nil)
	result := engine.Seed(
		[]models.PriorityEntry{catalogEntry(recB, 5, false), catalogEntry(recA, 9, false)},
		index, nil, nil, 1,
	)

	require.Equal(t, 2, result.Placed)
	require.Len(t, result.Instances, 2)
	assert.Equal(t, "Ana Silva", result.Instances[0].TeacherFullName())
	assert.True(t, result.Instances[0].IsTopPerformer)
	assert.InDelta(t, 90, result.Instances[0].AdjustedScore, 0.001)
}

func TestSeedHigherRankWinsSlotConflict(t *testing.T) {
	// Same teacher, same slot, different formats: only the higher rank lands.
	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	recB := perfRecord("Mat Pilates", "Monday", "09:00", "Annex", "Ana Silva", 85)
	index := models.NewPerformanceIndex([]models.PerformanceRecord{recA, recB})

	engine := NewSeedingEngine(nil)
	result := engine.Seed(
		[]models.PriorityEntry{catalogEntry(recA, 9, false), catalogEntry(recB, 4, false)},
		index, nil, nil, 1,
	)

	require.Equal(t, 1, result.Placed)
	assert.Equal(t, 1, result.ConflictSkips)
	assert.Equal(t, "Reformer Flow", result.Instances[0].ClassFormat)
}

func TestSeedLocationConflictSkipsLowerRank(t *testing.T) {
	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	recB := perfRecord("Mat Pilates", "Monday", "09:00", "Main Studio", "Ben Cohen", 85)
	index := models.NewPerformanceIndex([]models.PerformanceRecord{recA, recB})

	engine := NewSeedingEngine(nil)
	result := engine.Seed(
		[]models.PriorityEntry{catalogEntry(recA, 9, false), catalogEntry(recB, 4, false)},
		index, nil, nil, 1,
	)

	require.Equal(t, 1, result.Placed)
	assert.Equal(t, 1, result.ConflictSkips)
	assert.Equal(t, "Ana Silva", result.Instances[0].TeacherFullName())
}

func TestSeedSkipsEntriesWithoutPerformance(t *testing.T) {
	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	index := models.NewPerformanceIndex([]models.PerformanceRecord{recA})

	phantom := perfRecord("Barre", "Friday", "17:00", "Annex", "Cara Diaz", 0)
	engine := NewSeedingEngine(nil)
	result := engine.Seed(
		[]models.PriorityEntry{catalogEntry(recA, 9, false), catalogEntry(phantom, 8, false)},
		index, nil, nil, 1,
	)

	assert.Equal(t, 1, result.Placed)
	assert.Equal(t, 1, result.MissingPerformance)
}

func TestSeedCopiesMetricsFromCatalogSnapshot(t *testing.T) {
	live := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 60)
	live.RevenuePerClass = 100

	// The catalog snapshot was copied at load time; later drift in the live
	// index must not leak into seeded instances.
	snapshot := live
	snapshot.Score = 90
	snapshot.RevenuePerClass = 250

	index := models.NewPerformanceIndex([]models.PerformanceRecord{live})
	engine := NewSeedingEngine(nil)
	result := engine.Seed([]models.PriorityEntry{catalogEntry(snapshot, 9, false)}, index, nil, nil, 1)

	require.Equal(t, 1, result.Placed)
	assert.InDelta(t, 90, result.Instances[0].AdjustedScore, 0.001)
	assert.InDelta(t, 250, result.Instances[0].Revenue, 0.001)
}

func TestSeedSkipsBlockedDays(t *testing.T) {
	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	index := models.NewPerformanceIndex([]models.PerformanceRecord{recA})

	blocked := make(models.BlockedDays)
	blocked.Block("Ana Silva", "Monday")

	engine := NewSeedingEngine(nil)
	result := engine.Seed([]models.PriorityEntry{catalogEntry(recA, 9, false)}, index, nil, blocked, 1)

	assert.Equal(t, 0, result.Placed)
	assert.Equal(t, 1, result.UnavailableSkips)
}

func TestSeedRetainsLockedInstances(t *testing.T) {
	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	index := models.NewPerformanceIndex([]models.PerformanceRecord{recA})

	locked := classFor("Cara Diaz", "Monday", "09:00", 1)
	locked.Location = "Main Studio"

	engine := NewSeedingEngine(nil)
	result := engine.Seed(
		[]models.PriorityEntry{catalogEntry(recA, 9, false)},
		index,
		[]models.ScheduledClassInstance{locked},
		nil, 1,
	)

	// The locked instance holds the location slot, so the catalog entry skips.
	assert.Equal(t, 0, result.Placed)
	assert.Equal(t, 1, result.ConflictSkips)
	require.Len(t, result.Instances, 1)
	assert.Equal(t, "Cara Diaz", result.Instances[0].TeacherFullName())
}

func TestSeedMustIncludeLeadsEqualRanks(t *testing.T) {
	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	recB := perfRecord("Mat Pilates", "Monday", "09:00", "Main Studio", "Ben Cohen", 85)
	index := models.NewPerformanceIndex([]models.PerformanceRecord{recA, recB})

	engine := NewSeedingEngine(nil)
	result := engine.Seed(
		[]models.PriorityEntry{catalogEntry(recA, 5, false), catalogEntry(recB, 5, true)},
		index, nil, nil, 1,
	)

	require.Equal(t, 1, result.Placed)
	assert.Equal(t, "Mat Pilates", result.Instances[0].ClassFormat)
}
