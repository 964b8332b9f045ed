package service

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// GapFillConfig bounds one augmentation pass.
type GapFillConfig struct {
	BatchSize           int
	TargetHours         float64
	MaxWeeklyHours      float64
	NewTrainerMaxHours  float64
	NewTrainerFormats   []string
	DefaultDuration     float64
	ClassesPerDayPerLoc int
}

// GapFillResult reports the instances added on top of the existing schedule.
type GapFillResult struct {
	Instances []models.ScheduledClassInstance
	Added     int
	Exhausted bool
}

// GapFillEngine appends additive instances to an existing schedule. It never
// moves or removes anything already placed; running out of feasible
// candidates before the batch is full is a normal outcome.
type GapFillEngine struct {
	logger *zap.Logger
}

// NewGapFillEngine constructs the engine.
func NewGapFillEngine(logger *zap.Logger) *GapFillEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GapFillEngine{logger: logger}
}

const defaultGapFillBatch = 5

// Fill scores unplaced historical combinations under the balanced objective,
// biases toward teachers below their target hours, and places up to BatchSize
// of them. Each placement updates the grid before the next pick, so one round
// never double-books a slot it just filled.
func (e *GapFillEngine) Fill(
	index *models.PerformanceIndex,
	roster []models.Teacher,
	blocked models.BlockedDays,
	current []models.ScheduledClassInstance,
	cfg GapFillConfig,
) GapFillResult {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultGapFillBatch
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 1.0
	}

	result := GapFillResult{Instances: models.CloneInstances(current)}
	grid := newGridState(current)
	rosterByName := rosterIndex(roster)
	newFormats := formatSet(cfg.NewTrainerFormats)

	pool := e.buildPool(index, rosterByName, blocked, newFormats)

	placeCfg := OptimizeConfig{
		BalanceClassMix:     true,
		ClassesPerDayPerLoc: cfg.ClassesPerDayPerLoc,
	}

	for result.Added < cfg.BatchSize {
		best := -1
		bestScore := 0.0
		for i, cand := range pool {
			if cand.used {
				continue
			}
			hourCap := effectiveHourCap(cand.teacher, cfg.MaxWeeklyHours, cfg.NewTrainerMaxHours)
			if !grid.canPlace(cand.rec, hourCap, 0, cfg.DefaultDuration, placeCfg) {
				continue
			}
			score := cand.base
			if cfg.TargetHours > 0 && grid.hours[cand.rec.TeacherName]+cfg.DefaultDuration <= cfg.TargetHours {
				score += underTargetBonus
			}
			if grid.formatDay[formatDayKey(cand.rec.ClassFormat, cand.rec.Day)] > 0 {
				score -= repeatFormatPenalty
			}
			if best < 0 || score > bestScore || (score == bestScore && lessRecordKey(cand.rec, pool[best].rec)) {
				best = i
				bestScore = score
			}
		}
		if best < 0 {
			result.Exhausted = true
			break
		}

		pool[best].used = true
		inst := materialize(pool[best].rec, bestScore, cfg.DefaultDuration)
		grid.place(inst)
		result.Instances = append(result.Instances, inst)
		result.Added++
	}

	if result.Added < cfg.BatchSize {
		e.logger.Info("gap fill exhausted candidate pool",
			zap.Int("added", result.Added), zap.Int("requested", cfg.BatchSize))
	}

	models.SortInstances(result.Instances)
	return result
}

const (
	underTargetBonus    = 20.0
	repeatFormatPenalty = 8.0
)

type gapCandidate struct {
	rec     models.PerformanceRecord
	teacher models.Teacher
	base    float64
	used    bool
}

func (e *GapFillEngine) buildPool(
	index *models.PerformanceIndex,
	rosterByName map[string]models.Teacher,
	blocked models.BlockedDays,
	newFormats map[string]struct{},
) []gapCandidate {
	var pool []gapCandidate
	for _, rec := range index.Records() {
		teacher, ok := rosterByName[rec.TeacherName]
		if !ok || teacher.Status == models.TeacherStatusInactive {
			continue
		}
		if !teacher.HasSpecialty(rec.ClassFormat) {
			continue
		}
		if teacher.Status == models.TeacherStatusNew {
			if _, allowed := newFormats[strings.ToLower(rec.ClassFormat)]; !allowed {
				continue
			}
		}
		if blocked.Blocked(rec.TeacherName, rec.Day) {
			continue
		}
		pool = append(pool, gapCandidate{
			rec:     rec,
			teacher: teacher,
			base:    scoreRecord(ObjectiveBalanced, rec),
		})
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return lessRecordKey(pool[i].rec, pool[j].rec)
	})
	return pool
}
