package service

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// Objective selects the scoring lens for one optimizer run.
type Objective string

const (
	ObjectiveRevenue    Objective = "revenue"
	ObjectiveAttendance Objective = "attendance"
	ObjectiveBalanced   Objective = "balanced"
)

// ObjectiveForIteration rotates the objective deterministically so repeated
// runs explore distinct regions of the assignment space instead of
// reconverging on one local optimum.
func ObjectiveForIteration(iteration int) Objective {
	switch ((iteration % 3) + 3) % 3 {
	case 0:
		return ObjectiveRevenue
	case 1:
		return ObjectiveAttendance
	default:
		return ObjectiveBalanced
	}
}

// OptimizeConfig carries run parameters and behaviour flags.
type OptimizeConfig struct {
	Iteration                int
	TargetHours              float64
	MaxWeeklyHours           float64
	NewTrainerMaxHours       float64
	NewTrainerFormats        []string
	MustIncludeFormats       []string
	PriorityFormats          []string
	PrioritizeTopPerformers  bool
	BalanceClassMix          bool
	RespectTimeRestrictions  bool
	MinimizeTrainersPerShift bool
	DefaultDuration          float64
	ClassesPerDayPerLoc      int
}

// OptimizeResult is the full candidate schedule plus run accounting.
type OptimizeResult struct {
	Instances          []models.ScheduledClassInstance
	Objective          Objective
	Placed             int
	Kept               int
	DroppedMustInclude []string
	TeachersUsed       int
}

// OptimizerEngine heuristically rebuilds a full candidate schedule. Identical
// inputs and iteration number always yield the identical candidate set.
type OptimizerEngine struct {
	logger *zap.Logger
}

// NewOptimizerEngine constructs the engine.
func NewOptimizerEngine(logger *zap.Logger) *OptimizerEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptimizerEngine{logger: logger}
}

// Optimize builds a fresh schedule from historical combinations. Locked
// instances and locked teachers' instances from the current schedule are kept
// untouched; everything else is rebuilt under the rotated objective. The hour
// target is a per-teacher goal a run may land on exactly; the policy ceiling
// stays exclusive so generated schedules always pass the commit-time gate.
func (e *OptimizerEngine) Optimize(
	index *models.PerformanceIndex,
	roster []models.Teacher,
	blocked models.BlockedDays,
	locks *models.LockSet,
	current []models.ScheduledClassInstance,
	cfg OptimizeConfig,
) OptimizeResult {
	objective := ObjectiveForIteration(cfg.Iteration)
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 1.0
	}

	result := OptimizeResult{Objective: objective}

	var kept []models.ScheduledClassInstance
	if locks != nil {
		for _, inst := range current {
			if locks.Covers(inst) {
				kept = append(kept, inst)
			}
		}
	}
	result.Kept = len(kept)

	grid := newGridState(kept)
	rosterByName := rosterIndex(roster)

	candidates := e.buildCandidates(index, rosterByName, blocked, objective, cfg)
	sortCandidates(candidates)

	instances := models.CloneInstances(kept)
	for _, cand := range candidates {
		hourCap := effectiveHourCap(cand.teacher, cfg.MaxWeeklyHours, cfg.NewTrainerMaxHours)
		if locks != nil && locks.TeacherLocked(cand.rec.TeacherName) {
			continue
		}
		if !grid.canPlace(cand.rec, hourCap, cfg.TargetHours, cfg.DefaultDuration, cfg) {
			continue
		}
		inst := materialize(cand.rec, cand.score, cfg.DefaultDuration)
		grid.place(inst)
		instances = append(instances, inst)
		result.Placed++
	}

	for _, format := range cfg.MustIncludeFormats {
		if grid.formatCount(format) == 0 {
			result.DroppedMustInclude = append(result.DroppedMustInclude, format)
			e.logger.Info("must-include format dropped: no feasible placement",
				zap.String("format", format), zap.String("objective", string(objective)))
		}
	}
	sort.Strings(result.DroppedMustInclude)

	models.SortInstances(instances)
	result.Instances = instances
	result.TeachersUsed = len(ComputeLedger(instances))
	return result
}

type candidate struct {
	rec         models.PerformanceRecord
	teacher     models.Teacher
	score       float64
	mustInclude bool
	priority    bool
}

func (e *OptimizerEngine) buildCandidates(
	index *models.PerformanceIndex,
	rosterByName map[string]models.Teacher,
	blocked models.BlockedDays,
	objective Objective,
	cfg OptimizeConfig,
) []candidate {
	mustSet := formatSet(cfg.MustIncludeFormats)
	prioritySet := formatSet(cfg.PriorityFormats)
	newFormats := formatSet(cfg.NewTrainerFormats)

	var candidates []candidate
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
		if cfg.RespectTimeRestrictions && !teacher.PrefersDay(rec.Day) {
			continue
		}

		score := scoreRecord(objective, rec)
		if cfg.PrioritizeTopPerformers && rec.Score >= topPerformerScore {
			score += topPerformerBonus
		}
		score += float64(teacher.PriorityTier)

		_, must := mustSet[strings.ToLower(rec.ClassFormat)]
		_, prio := prioritySet[strings.ToLower(rec.ClassFormat)]
		candidates = append(candidates, candidate{
			rec:         rec,
			teacher:     teacher,
			score:       score,
			mustInclude: must,
			priority:    prio,
		})
	}
	return candidates
}

const (
	topPerformerScore = 80.0
	topPerformerBonus = 5.0
)

func scoreRecord(objective Objective, rec models.PerformanceRecord) float64 {
	switch objective {
	case ObjectiveRevenue:
		return rec.RevenuePerClass + rec.TipsPerClass
	case ObjectiveAttendance:
		return rec.AvgAttendance*10 - rec.LateCancelRate*5
	default:
		return rec.Score + rec.AvgAttendance*4 + (rec.RevenuePerClass+rec.TipsPerClass)/10 - rec.LateCancelRate*10
	}
}

// sortCandidates orders must-include formats first, then priority formats,
// then score descending with a full key tie-break so equal scores stay
// deterministic.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.mustInclude != b.mustInclude {
			return a.mustInclude
		}
		if a.priority != b.priority {
			return a.priority
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return lessRecordKey(a.rec, b.rec)
	})
}

func lessRecordKey(a, b models.PerformanceRecord) bool {
	if a.ClassFormat != b.ClassFormat {
		return a.ClassFormat < b.ClassFormat
	}
	if models.DayOrder(a.Day) != models.DayOrder(b.Day) {
		return models.DayOrder(a.Day) < models.DayOrder(b.Day)
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Location != b.Location {
		return a.Location < b.Location
	}
	return a.TeacherName < b.TeacherName
}

func rosterIndex(roster []models.Teacher) map[string]models.Teacher {
	byName := make(map[string]models.Teacher, len(roster))
	for _, t := range roster {
		byName[t.FullName()] = t
	}
	return byName
}

func formatSet(formats []string) map[string]struct{} {
	set := make(map[string]struct{}, len(formats))
	for _, f := range formats {
		set[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}
	return set
}

func effectiveHourCap(teacher models.Teacher, policyMax, newTrainerMax float64) float64 {
	limit := policyMax
	if limit <= 0 {
		limit = 15
	}
	if teacher.MaxHours > 0 && teacher.MaxHours < limit {
		limit = teacher.MaxHours
	}
	if teacher.Status == models.TeacherStatusNew && newTrainerMax > 0 && newTrainerMax < limit {
		limit = newTrainerMax
	}
	return limit
}

func materialize(rec models.PerformanceRecord, score, duration float64) models.ScheduledClassInstance {
	first, last := models.SplitTeacherName(rec.TeacherName)
	return models.ScheduledClassInstance{
		ID:               uuid.NewString(),
		Day:              rec.Day,
		Time:             rec.Time,
		Location:         rec.Location,
		ClassFormat:      rec.ClassFormat,
		TeacherFirstName: first,
		TeacherLastName:  last,
		DurationHours:    duration,
		Participants:     int(math.Round(rec.AvgAttendance)),
		Revenue:          rec.RevenuePerClass,
		IsTopPerformer:   rec.Score >= topPerformerScore,
		IsPrivate:        false,
		AdjustedScore:    score,
		AvgAttendance:    rec.AvgAttendance,
		FillRate:         rec.FillRatePct,
	}
}

// --- Grid state shared by the optimizer and gap-filling engines ---

type gridState struct {
	teacherSlots  map[string]struct{}
	locationSlots map[string]struct{}
	hours         map[string]float64
	formatTotals  map[string]int
	formatDayLoc  map[string]int
	formatDay     map[string]int
	shiftTeachers map[string]map[string]struct{}
	dayLocCounts  map[string]int
}

func newGridState(instances []models.ScheduledClassInstance) *gridState {
	g := &gridState{
		teacherSlots:  make(map[string]struct{}),
		locationSlots: make(map[string]struct{}),
		hours:         make(map[string]float64),
		formatTotals:  make(map[string]int),
		formatDayLoc:  make(map[string]int),
		formatDay:     make(map[string]int),
		shiftTeachers: make(map[string]map[string]struct{}),
		dayLocCounts:  make(map[string]int),
	}
	for _, inst := range instances {
		g.place(inst)
	}
	return g
}

func (g *gridState) canPlace(rec models.PerformanceRecord, hourCap, targetCap, duration float64, cfg OptimizeConfig) bool {
	if _, taken := g.teacherSlots[teacherSlotKey(rec.TeacherName, rec.Day, rec.Time)]; taken {
		return false
	}
	if _, taken := g.locationSlots[locationSlotKey(rec.Location, rec.Day, rec.Time)]; taken {
		return false
	}
	// The policy cap is exclusive: a placement that would reach it is
	// rejected, mirroring the commit-time gate. The target is a goal, not a
	// ceiling, so reaching it exactly is allowed.
	projected := g.hours[rec.TeacherName] + duration
	if projected >= hourCap {
		return false
	}
	if targetCap > 0 && projected > targetCap {
		return false
	}
	shift := locationDayKey(rec.Location, rec.Day)
	if cfg.ClassesPerDayPerLoc > 0 && g.dayLocCounts[shift] >= cfg.ClassesPerDayPerLoc {
		return false
	}
	if cfg.BalanceClassMix && g.formatDayLoc[formatDayLocKey(rec.ClassFormat, rec.Day, rec.Location)] > 0 {
		return false
	}
	if cfg.MinimizeTrainersPerShift {
		teachers := g.shiftTeachers[shift]
		if _, present := teachers[rec.TeacherName]; !present && len(teachers) >= maxTrainersPerShift {
			return false
		}
	}
	return true
}

const maxTrainersPerShift = 3

func (g *gridState) place(inst models.ScheduledClassInstance) {
	teacher := inst.TeacherFullName()
	g.teacherSlots[teacherSlotKey(teacher, inst.Day, inst.Time)] = struct{}{}
	if !inst.IsPrivate {
		g.locationSlots[locationSlotKey(inst.Location, inst.Day, inst.Time)] = struct{}{}
	}
	g.hours[teacher] += instanceDuration(inst)
	g.formatTotals[strings.ToLower(inst.ClassFormat)]++
	g.formatDayLoc[formatDayLocKey(inst.ClassFormat, inst.Day, inst.Location)]++
	g.formatDay[formatDayKey(inst.ClassFormat, inst.Day)]++

	shift := locationDayKey(inst.Location, inst.Day)
	if g.shiftTeachers[shift] == nil {
		g.shiftTeachers[shift] = make(map[string]struct{})
	}
	g.shiftTeachers[shift][teacher] = struct{}{}
	g.dayLocCounts[shift]++
}

func (g *gridState) formatCount(format string) int {
	return g.formatTotals[strings.ToLower(format)]
}

func formatDayLocKey(format, day, location string) string {
	return strings.ToLower(format) + "|" + day + "|" + location
}

func formatDayKey(format, day string) string {
	return strings.ToLower(format) + "|" + day
}

func locationDayKey(location, day string) string {
	return location + "|" + day
}
