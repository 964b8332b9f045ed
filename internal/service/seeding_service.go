package service

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// SeedingEngine places priority catalog entries into a cleared store in rank
// order. It never fabricates performance numbers and never bumps an
// earlier-placed entry.
type SeedingEngine struct {
	logger *zap.Logger
}

// NewSeedingEngine constructs the engine.
func NewSeedingEngine(logger *zap.Logger) *SeedingEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedingEngine{logger: logger}
}

// SeedResult reports what a seeding pass produced.
type SeedResult struct {
	Instances          []models.ScheduledClassInstance
	Placed             int
	ConflictSkips      int
	MissingPerformance int
	UnavailableSkips   int
}

// Seed walks the catalog by descending rank. Retained instances (locked ones
// surviving the clear) pre-occupy their slots. Conflicting or unmatched
// entries are skipped and counted, never fatal.
func (e *SeedingEngine) Seed(
	catalog []models.PriorityEntry,
	index *models.PerformanceIndex,
	retained []models.ScheduledClassInstance,
	blocked models.BlockedDays,
	defaultDuration float64,
) SeedResult {
	if defaultDuration <= 0 {
		defaultDuration = 1.0
	}

	result := SeedResult{Instances: models.CloneInstances(retained)}
	teacherSlots := make(map[string]struct{})
	locationSlots := make(map[string]struct{})
	for _, inst := range retained {
		teacherSlots[teacherSlotKey(inst.TeacherFullName(), inst.Day, inst.Time)] = struct{}{}
		if !inst.IsPrivate {
			locationSlots[locationSlotKey(inst.Location, inst.Day, inst.Time)] = struct{}{}
		}
	}

	for _, entry := range models.SortPriorityEntries(catalog) {
		if blocked.Blocked(entry.TeacherName, entry.Day) {
			result.UnavailableSkips++
			e.logger.Debug("seed skip: teacher unavailable",
				zap.String("teacher", entry.TeacherName), zap.String("day", entry.Day))
			continue
		}

		tKey := teacherSlotKey(entry.TeacherName, entry.Day, entry.Time)
		lKey := locationSlotKey(entry.Location, entry.Day, entry.Time)
		if _, taken := teacherSlots[tKey]; taken {
			result.ConflictSkips++
			e.logger.Info("seed skip: slot held by higher-ranked entry",
				zap.String("teacher", entry.TeacherName),
				zap.String("day", entry.Day), zap.String("time", entry.Time),
				zap.Int("rank", entry.PriorityRank))
			continue
		}
		if _, taken := locationSlots[lKey]; taken {
			result.ConflictSkips++
			e.logger.Info("seed skip: location slot occupied",
				zap.String("location", entry.Location),
				zap.String("day", entry.Day), zap.String("time", entry.Time),
				zap.Int("rank", entry.PriorityRank))
			continue
		}

		if _, ok := index.Lookup(models.PerformanceKey{
			ClassFormat: entry.ClassFormat,
			Day:         entry.Day,
			Time:        entry.Time,
			Location:    entry.Location,
			TeacherName: entry.TeacherName,
		}); !ok {
			result.MissingPerformance++
			e.logger.Info("seed skip: no exact performance match",
				zap.String("format", entry.ClassFormat),
				zap.String("teacher", entry.TeacherName),
				zap.String("day", entry.Day), zap.String("time", entry.Time))
			continue
		}

		// Metrics come from the entry's load-time snapshot, not the live
		// index; the lookup above only confirms the combination exists.
		snap := entry.Performance
		first, last := models.SplitTeacherName(entry.TeacherName)
		result.Instances = append(result.Instances, models.ScheduledClassInstance{
			ID:               uuid.NewString(),
			Day:              entry.Day,
			Time:             entry.Time,
			Location:         entry.Location,
			ClassFormat:      entry.ClassFormat,
			TeacherFirstName: first,
			TeacherLastName:  last,
			DurationHours:    defaultDuration,
			Participants:     int(math.Round(snap.AvgAttendance)),
			Revenue:          snap.RevenuePerClass,
			IsTopPerformer:   true,
			IsPrivate:        false,
			AdjustedScore:    snap.Score,
			AvgAttendance:    snap.AvgAttendance,
			FillRate:         snap.FillRatePct,
		})
		result.Placed++
		teacherSlots[tKey] = struct{}{}
		locationSlots[lKey] = struct{}{}
	}

	models.SortInstances(result.Instances)
	return result
}

func teacherSlotKey(teacher, day, tm string) string {
	return teacher + "|" + day + "|" + tm
}

func locationSlotKey(location, day, tm string) string {
	return location + "|" + day + "|" + tm
}
