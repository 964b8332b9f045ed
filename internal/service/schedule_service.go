package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsefit/studio-scheduler-api/internal/dto"
	"github.com/pulsefit/studio-scheduler-api/internal/models"
	"github.com/pulsefit/studio-scheduler-api/internal/repository"
	appErrors "github.com/pulsefit/studio-scheduler-api/pkg/errors"
	"github.com/pulsefit/studio-scheduler-api/pkg/jobs"
)

type performanceSource interface {
	ListAll(ctx context.Context) ([]models.PerformanceRecord, error)
}

type prioritySource interface {
	ListRanked(ctx context.Context) ([]models.PriorityEntry, error)
}

type rosterSource interface {
	ListRoster(ctx context.Context) ([]models.Teacher, error)
}

type availabilitySource interface {
	ListTimeOff(ctx context.Context, from, to time.Time) ([]models.TeacherTimeOff, error)
	ListBlackouts(ctx context.Context, from, to time.Time) ([]models.TeacherBlackout, error)
}

type scheduleStore interface {
	ListAll(ctx context.Context) ([]models.ScheduledClassInstance, error)
	ReplaceAll(ctx context.Context, instances []models.ScheduledClassInstance) error
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ScheduleServiceConfig carries engine defaults and policy knobs.
type ScheduleServiceConfig struct {
	Policy              HourPolicy
	TargetWeeklyHours   float64
	GapFillBatchSize    int
	NewTrainerMaxHours  float64
	NewTrainerFormats   []string
	DefaultDuration     float64
	ClassesPerDayPerLoc int
	SummaryTTL          time.Duration
}

// ScheduleService owns the live schedule store, its history stack and the lock
// set, and serializes all mutations behind a single-run guard. All reads
// hand out copies; the store is mutated only through commits.
type ScheduleService struct {
	performance  performanceSource
	priority     prioritySource
	roster       rosterSource
	availability availabilitySource
	store        scheduleStore
	cache        scheduleCache
	advisory     AdvisoryProvider
	jobsQueue    *jobs.Queue
	metrics      *MetricsService

	seeder    *SeedingEngine
	optimizer *OptimizerEngine
	gapFiller *GapFillEngine

	cfg       ScheduleServiceConfig
	validator *validator.Validate
	logger    *zap.Logger

	// runMu serializes every store mutation. Engine runs hold it for their
	// full read-generate-commit span, so no manual edit can land between an
	// engine's state read and its commit.
	runMu sync.Mutex

	stateMu   sync.RWMutex
	instances []models.ScheduledClassInstance
	history   *History
	locks     *models.LockSet
}

// NewScheduleService wires the scheduling collaborators.
func NewScheduleService(
	performance performanceSource,
	priority prioritySource,
	roster rosterSource,
	availability availabilitySource,
	store scheduleStore,
	cache scheduleCache,
	advisory AdvisoryProvider,
	jobsQueue *jobs.Queue,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleServiceConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if advisory == nil {
		advisory = NopAdvisoryProvider{}
	}
	cfg.Policy = cfg.Policy.normalized()
	if cfg.GapFillBatchSize <= 0 {
		cfg.GapFillBatchSize = defaultGapFillBatch
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = 1.0
	}
	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = 5 * time.Minute
	}

	return &ScheduleService{
		performance:  performance,
		priority:     priority,
		roster:       roster,
		availability: availability,
		store:        store,
		cache:        cache,
		advisory:     advisory,
		jobsQueue:    jobsQueue,
		metrics:      metrics,
		seeder:       NewSeedingEngine(logger),
		optimizer:    NewOptimizerEngine(logger),
		gapFiller:    NewGapFillEngine(logger),
		cfg:          cfg,
		validator:    validate,
		logger:       logger,
		history:      NewHistory(nil),
		locks:        models.NewLockSet(),
	}
}

// AttachJobQueue connects the background queue after construction. The queue
// handler closes over this service, so the two cannot be wired in one step.
func (s *ScheduleService) AttachJobQueue(q *jobs.Queue) {
	s.jobsQueue = q
}

// Restore loads the persisted schedule into the live store and starts a fresh
// history from it. Called once at startup.
func (s *ScheduleService) Restore(ctx context.Context) error {
	instances, err := s.store.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "restore persisted schedule")
	}
	models.SortInstances(instances)

	s.stateMu.Lock()
	s.instances = instances
	s.history = NewHistory(instances)
	s.stateMu.Unlock()

	s.logger.Info("schedule restored", zap.Int("instances", len(instances)))
	return nil
}

// Seed clears unlocked placements and rebuilds from the priority catalog in
// rank order. A pass that places nothing commits nothing.
func (s *ScheduleService) Seed(ctx context.Context, req dto.SeedScheduleRequest) (*dto.ScheduleOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seed payload")
	}
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()
	started := time.Now()

	weekStart, err := weekStartFrom(req.WeekStart)
	if err != nil {
		return nil, err
	}

	catalog, err := s.priority.ListRanked(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load priority catalog")
	}
	index, _, blocked, err := s.loadWeekInputs(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	s.stateMu.RLock()
	retained := lockedSubset(s.instances, s.locks)
	s.stateMu.RUnlock()

	result := s.seeder.Seed(catalog, index, retained, blocked, s.cfg.DefaultDuration)
	if result.Placed == 0 {
		s.metrics.ObserveEngineRun("seed", "empty", time.Since(started))
		return nil, appErrors.ErrEmptyResult
	}

	if err := s.commit(ctx, result.Instances); err != nil {
		s.metrics.ObserveEngineRun("seed", "error", time.Since(started))
		return nil, err
	}
	s.metrics.ObserveEngineRun("seed", "committed", time.Since(started))

	outcome := s.buildOutcome("seed", result.Instances)
	outcome.ClassesPlaced = result.Placed
	outcome.ConflictSkips = result.ConflictSkips
	outcome.MissingPerformance = result.MissingPerformance
	return outcome, nil
}

// Optimize rebuilds the full schedule under the iteration's objective. Locked
// placements survive untouched; a run that places nothing commits nothing.
func (s *ScheduleService) Optimize(ctx context.Context, req dto.OptimizeScheduleRequest) (*dto.ScheduleOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimize payload")
	}
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()
	started := time.Now()

	weekStart, err := weekStartFrom(req.WeekStart)
	if err != nil {
		return nil, err
	}
	index, roster, blocked, err := s.loadWeekInputs(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	target := req.TargetHours
	if target <= 0 {
		target = s.cfg.TargetWeeklyHours
	}

	s.stateMu.RLock()
	current := models.CloneInstances(s.instances)
	locks := s.locks
	s.stateMu.RUnlock()

	result := s.optimizer.Optimize(index, roster, blocked, locks, current, OptimizeConfig{
		Iteration:                req.Iteration,
		TargetHours:              target,
		MaxWeeklyHours:           s.cfg.Policy.MaxWeeklyHours,
		NewTrainerMaxHours:       s.cfg.NewTrainerMaxHours,
		NewTrainerFormats:        s.cfg.NewTrainerFormats,
		MustIncludeFormats:       req.MustIncludeFormats,
		PriorityFormats:          req.PriorityFormats,
		PrioritizeTopPerformers:  req.PrioritizeTopPerformers,
		BalanceClassMix:          req.BalanceClassMix,
		RespectTimeRestrictions:  req.RespectTimeRestrictions,
		MinimizeTrainersPerShift: req.MinimizeTrainersPerShift,
		DefaultDuration:          s.cfg.DefaultDuration,
		ClassesPerDayPerLoc:      s.cfg.ClassesPerDayPerLoc,
	})
	if result.Placed == 0 {
		s.metrics.ObserveEngineRun("optimize", "empty", time.Since(started))
		return nil, appErrors.ErrEmptyResult
	}

	if err := s.commit(ctx, result.Instances); err != nil {
		s.metrics.ObserveEngineRun("optimize", "error", time.Since(started))
		return nil, err
	}
	s.metrics.ObserveEngineRun("optimize", "committed", time.Since(started))

	outcome := s.buildOutcome("optimize", result.Instances)
	outcome.Objective = string(result.Objective)
	outcome.ClassesPlaced = result.Placed
	outcome.DroppedMustInclude = result.DroppedMustInclude
	return outcome, nil
}

// FillGaps appends a bounded batch of additive placements. Adding nothing is a
// successful no-op, not an error.
func (s *ScheduleService) FillGaps(ctx context.Context, req dto.FillGapsRequest) (*dto.ScheduleOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gap fill payload")
	}
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()
	started := time.Now()

	weekStart, err := weekStartFrom(req.WeekStart)
	if err != nil {
		return nil, err
	}
	index, roster, blocked, err := s.loadWeekInputs(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	batch := req.BatchSize
	if batch <= 0 {
		batch = s.cfg.GapFillBatchSize
	}

	s.stateMu.RLock()
	current := models.CloneInstances(s.instances)
	s.stateMu.RUnlock()

	result := s.gapFiller.Fill(index, roster, blocked, current, GapFillConfig{
		BatchSize:           batch,
		TargetHours:         s.cfg.TargetWeeklyHours,
		MaxWeeklyHours:      s.cfg.Policy.MaxWeeklyHours,
		NewTrainerMaxHours:  s.cfg.NewTrainerMaxHours,
		NewTrainerFormats:   s.cfg.NewTrainerFormats,
		DefaultDuration:     s.cfg.DefaultDuration,
		ClassesPerDayPerLoc: s.cfg.ClassesPerDayPerLoc,
	})
	if result.Added == 0 {
		s.metrics.ObserveEngineRun("gap_fill", "noop", time.Since(started))
		outcome := s.buildOutcome("gap_fill", current)
		outcome.NoOp = true
		return outcome, nil
	}

	if err := s.commit(ctx, result.Instances); err != nil {
		s.metrics.ObserveEngineRun("gap_fill", "error", time.Since(started))
		return nil, err
	}
	s.metrics.ObserveEngineRun("gap_fill", "committed", time.Since(started))

	outcome := s.buildOutcome("gap_fill", result.Instances)
	outcome.ClassesAdded = result.Added
	return outcome, nil
}

// Validate answers the hour gate for a candidate without mutating anything.
func (s *ScheduleService) Validate(ctx context.Context, req dto.ValidateClassRequest) (*dto.HourVerdict, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid validation payload")
	}

	s.stateMu.RLock()
	existing := models.CloneInstances(s.instances)
	s.stateMu.RUnlock()

	verdict := ValidateHours(existing, candidateFromRequest(req), s.cfg.Policy)
	return &verdict, nil
}

// AddClass places one manual instance after the hour gate and slot conflict
// checks. Override bypasses the gate's refusal, never the conflict checks.
func (s *ScheduleService) AddClass(ctx context.Context, req dto.ClassInstanceRequest) (*dto.ScheduleOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	inst := instanceFromRequest(req)
	if err := s.gateAndCheck(s.instances, inst, req.Override); err != nil {
		return nil, err
	}

	next := append(models.CloneInstances(s.instances), inst)
	models.SortInstances(next)
	if err := s.commitLocked(ctx, next); err != nil {
		return nil, err
	}

	outcome := s.buildOutcomeLocked("manual_add", next)
	outcome.ClassesAdded = 1
	return outcome, nil
}

// ReplaceClass swaps one instance wholesale. The replacement passes the same
// gate and conflict checks as an add, evaluated without the outgoing instance.
func (s *ScheduleService) ReplaceClass(ctx context.Context, id string, req dto.ClassInstanceRequest) (*dto.ScheduleOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	remaining, removed := withoutInstance(s.instances, id)
	if removed == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class instance not found")
	}

	inst := instanceFromRequest(req)
	inst.ID = id
	if err := s.gateAndCheck(remaining, inst, req.Override); err != nil {
		return nil, err
	}

	next := append(remaining, inst)
	models.SortInstances(next)
	if err := s.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	return s.buildOutcomeLocked("manual_replace", next), nil
}

// DeleteClass removes one instance. Locked instances must be unlocked first.
func (s *ScheduleService) DeleteClass(ctx context.Context, id string) (*dto.ScheduleOutcome, error) {
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.locks.InstanceLocked(id) {
		return nil, appErrors.Clone(appErrors.ErrLocked, "instance is locked; unlock before deleting")
	}

	remaining, removed := withoutInstance(s.instances, id)
	if removed == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class instance not found")
	}

	if err := s.commitLocked(ctx, remaining); err != nil {
		return nil, err
	}
	return s.buildOutcomeLocked("manual_delete", remaining), nil
}

// Clear empties the store. Instance locks are pruned with their instances;
// teacher locks persist across the clear.
func (s *ScheduleService) Clear(ctx context.Context) (*dto.ScheduleOutcome, error) {
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.locks.UnlockInstances(s.locks.InstanceIDs()...)
	if err := s.commitLocked(ctx, nil); err != nil {
		return nil, err
	}
	return s.buildOutcomeLocked("clear", nil), nil
}

// Undo steps the history cursor back and re-persists that snapshot. At the
// first snapshot it reports a no-op.
func (s *ScheduleService) Undo(ctx context.Context) (*dto.ScheduleOutcome, error) {
	return s.step(ctx, "undo")
}

// Redo steps the history cursor forward. After a fresh commit it reports a
// no-op, because commits truncate the forward branch.
func (s *ScheduleService) Redo(ctx context.Context) (*dto.ScheduleOutcome, error) {
	return s.step(ctx, "redo")
}

func (s *ScheduleService) step(ctx context.Context, direction string) (*dto.ScheduleOutcome, error) {
	if !s.runMu.TryLock() {
		return nil, appErrors.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	var snapshot []models.ScheduledClassInstance
	var moved bool
	if direction == "undo" {
		snapshot, moved = s.history.Undo()
	} else {
		snapshot, moved = s.history.Redo()
	}

	outcome := s.buildOutcomeLocked(direction, snapshot)
	if !moved {
		outcome.NoOp = true
		return outcome, nil
	}

	if err := s.persistLocked(ctx, snapshot); err != nil {
		// Roll the cursor back so state and store stay aligned.
		if direction == "undo" {
			s.history.Redo()
		} else {
			s.history.Undo()
		}
		return nil, err
	}
	s.instances = snapshot
	return outcome, nil
}

// Lock adds instance ids and teacher names to the lock set.
func (s *ScheduleService) Lock(req dto.LockRequest) *dto.LockState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.locks.LockInstances(req.InstanceIDs...)
	s.locks.LockTeachers(req.TeacherNames...)
	return s.lockStateLocked()
}

// Unlock removes instance ids and teacher names from the lock set.
func (s *ScheduleService) Unlock(req dto.LockRequest) *dto.LockState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.locks.UnlockInstances(req.InstanceIDs...)
	s.locks.UnlockTeachers(req.TeacherNames...)
	return s.lockStateLocked()
}

// LockStatus reports the current lock set.
func (s *ScheduleService) LockStatus() *dto.LockState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lockStateLocked()
}

// Current returns a copy of the live schedule in grid order.
func (s *ScheduleService) Current() []models.ScheduledClassInstance {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return models.CloneInstances(s.instances)
}

// CanUndo and CanRedo expose history affordances for the presentation layer.
func (s *ScheduleService) CanUndo() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.history.CanUndo()
}

func (s *ScheduleService) CanRedo() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.history.CanRedo()
}

// Summary returns the cached read-model, rebuilding it on a miss.
func (s *ScheduleService) Summary(ctx context.Context) (*dto.ScheduleSummary, error) {
	if s.cache != nil {
		var cached dto.ScheduleSummary
		if err := s.cache.Get(ctx, repository.CacheKeySummary, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	s.stateMu.RLock()
	instances := models.CloneInstances(s.instances)
	s.stateMu.RUnlock()

	summary := s.buildSummary(ctx, instances)
	if s.cache != nil {
		if err := s.cache.Set(ctx, repository.CacheKeySummary, summary, s.cfg.SummaryTTL); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// RefreshAdvisory regenerates and stores the advisory text. Runs on the
// background queue after commits.
func (s *ScheduleService) RefreshAdvisory(ctx context.Context) error {
	s.stateMu.RLock()
	instances := models.CloneInstances(s.instances)
	s.stateMu.RUnlock()

	text, err := s.advisory.Advise(ctx, instances)
	if err != nil {
		return fmt.Errorf("advisory provider: %w", err)
	}
	if s.cache == nil {
		return nil
	}
	if text == "" {
		return s.cache.Delete(ctx, repository.CacheKeyAdvisory)
	}
	return s.cache.Set(ctx, repository.CacheKeyAdvisory, text, 0)
}

// --- internals ---

func (s *ScheduleService) loadWeekInputs(ctx context.Context, weekStart time.Time) (*models.PerformanceIndex, []models.Teacher, models.BlockedDays, error) {
	records, err := s.performance.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load performance history")
	}
	roster, err := s.roster.ListRoster(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load teacher roster")
	}

	weekEnd := weekStart.AddDate(0, 0, 7)
	timeOff, err := s.availability.ListTimeOff(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load teacher time off")
	}
	blackouts, err := s.availability.ListBlackouts(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load blackout dates")
	}

	index := models.NewPerformanceIndex(records)
	blocked := models.BuildBlockedDays(weekStart, timeOff, blackouts)
	return index, roster, blocked, nil
}

// commit persists the new state, commits it to history, invalidates the read
// cache and schedules the advisory refresh.
func (s *ScheduleService) commit(ctx context.Context, next []models.ScheduledClassInstance) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.commitLocked(ctx, next)
}

func (s *ScheduleService) commitLocked(ctx context.Context, next []models.ScheduledClassInstance) error {
	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}
	s.instances = models.CloneInstances(next)
	s.history.Commit(next)
	return nil
}

func (s *ScheduleService) persistLocked(ctx context.Context, next []models.ScheduledClassInstance) error {
	if err := s.store.ReplaceAll(ctx, next); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist schedule")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, repository.CacheKeySummary); err != nil {
			s.logger.Warn("summary cache invalidation failed", zap.Error(err))
		}
	}
	s.enqueueAdvisoryRefresh()
	return nil
}

func (s *ScheduleService) enqueueAdvisoryRefresh() {
	if s.jobsQueue == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: "advisory_refresh"}
	if err := s.jobsQueue.Enqueue(job); err != nil {
		s.logger.Warn("advisory refresh enqueue failed", zap.Error(err))
	}
}

// gateAndCheck runs the hour gate and slot conflict checks for a manual
// placement against the provided baseline.
func (s *ScheduleService) gateAndCheck(baseline []models.ScheduledClassInstance, inst models.ScheduledClassInstance, override bool) error {
	verdict := ValidateHours(baseline, inst, s.cfg.Policy)
	if !verdict.Valid && !override {
		return appErrors.Clone(appErrors.ErrPolicyViolation, verdict.Message)
	}

	teacher := inst.TeacherFullName()
	for _, existing := range baseline {
		if existing.Day != inst.Day || existing.Time != inst.Time {
			continue
		}
		if existing.TeacherFullName() == teacher {
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("%s already teaches at %s %s", teacher, inst.Day, inst.Time))
		}
		if !inst.IsPrivate && !existing.IsPrivate && existing.Location == inst.Location {
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("%s at %s %s is already occupied", inst.Location, inst.Day, inst.Time))
		}
	}
	return nil
}

func (s *ScheduleService) buildOutcome(operation string, instances []models.ScheduledClassInstance) *dto.ScheduleOutcome {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.buildOutcomeLocked(operation, instances)
}

func (s *ScheduleService) buildOutcomeLocked(operation string, instances []models.ScheduledClassInstance) *dto.ScheduleOutcome {
	ledger := ComputeLedger(instances)
	return &dto.ScheduleOutcome{
		Operation:    operation,
		TeacherHours: ledger,
		TeachersUsed: len(ledger),
		TotalClasses: len(instances),
		Warnings:     s.softCeilingWarnings(ledger),
	}
}

func (s *ScheduleService) softCeilingWarnings(ledger map[string]float64) []string {
	var warnings []string
	for teacher, hours := range ledger {
		if hours > s.cfg.Policy.SoftWeeklyHours {
			warnings = append(warnings,
				fmt.Sprintf("%s is at %.1fh, above the %.1fh warning threshold", teacher, hours, s.cfg.Policy.SoftWeeklyHours))
		}
	}
	sort.Strings(warnings)
	return warnings
}

func (s *ScheduleService) buildSummary(ctx context.Context, instances []models.ScheduledClassInstance) *dto.ScheduleSummary {
	ledger := ComputeLedger(instances)

	var totalHours float64
	for _, hours := range ledger {
		totalHours += hours
	}

	locations := make(map[string]int)
	topPerformers := 0
	private := 0
	for _, inst := range instances {
		locations[inst.Location]++
		if inst.IsTopPerformer {
			topPerformers++
		}
		if inst.IsPrivate {
			private++
		}
	}

	var overSoft []string
	for teacher, hours := range ledger {
		if hours > s.cfg.Policy.SoftWeeklyHours {
			overSoft = append(overSoft, teacher)
		}
	}
	sort.Strings(overSoft)

	summary := &dto.ScheduleSummary{
		TotalClasses:    len(instances),
		TotalHours:      totalHours,
		TeachersUsed:    len(ledger),
		TeacherHours:    ledger,
		LocationCounts:  locations,
		TopPerformers:   topPerformers,
		PrivateSessions: private,
		OverSoftCeiling: overSoft,
		GeneratedAt:     time.Now().UTC(),
	}

	if s.cache != nil {
		var advisory string
		if err := s.cache.Get(ctx, repository.CacheKeyAdvisory, &advisory); err == nil {
			summary.Advisory = advisory
		}
	}
	return summary
}

func (s *ScheduleService) lockStateLocked() *dto.LockState {
	return &dto.LockState{
		InstanceIDs:  s.locks.InstanceIDs(),
		TeacherNames: s.locks.TeacherNames(),
	}
}

func lockedSubset(instances []models.ScheduledClassInstance, locks *models.LockSet) []models.ScheduledClassInstance {
	var kept []models.ScheduledClassInstance
	for _, inst := range instances {
		if locks.Covers(inst) {
			kept = append(kept, inst)
		}
	}
	return kept
}

func withoutInstance(instances []models.ScheduledClassInstance, id string) ([]models.ScheduledClassInstance, *models.ScheduledClassInstance) {
	remaining := make([]models.ScheduledClassInstance, 0, len(instances))
	var removed *models.ScheduledClassInstance
	for _, inst := range instances {
		if inst.ID == id {
			copied := inst
			removed = &copied
			continue
		}
		remaining = append(remaining, inst)
	}
	return remaining, removed
}

func instanceFromRequest(req dto.ClassInstanceRequest) models.ScheduledClassInstance {
	first, last := models.SplitTeacherName(strings.TrimSpace(req.TeacherName))
	duration := req.DurationHours
	if duration <= 0 {
		duration = 1.0
	}
	return models.ScheduledClassInstance{
		ID:               uuid.NewString(),
		Day:              req.Day,
		Time:             req.Time,
		Location:         req.Location,
		ClassFormat:      req.ClassFormat,
		TeacherFirstName: first,
		TeacherLastName:  last,
		DurationHours:    duration,
		Participants:     req.Participants,
		Revenue:          req.Revenue,
		IsPrivate:        req.IsPrivate,
	}
}

func candidateFromRequest(req dto.ValidateClassRequest) models.ScheduledClassInstance {
	first, last := models.SplitTeacherName(strings.TrimSpace(req.TeacherName))
	duration := req.DurationHours
	if duration <= 0 {
		duration = 1.0
	}
	return models.ScheduledClassInstance{
		Day:              req.Day,
		Time:             req.Time,
		Location:         req.Location,
		ClassFormat:      req.ClassFormat,
		TeacherFirstName: first,
		TeacherLastName:  last,
		DurationHours:    duration,
		IsPrivate:        req.IsPrivate,
	}
}

// weekStartFrom parses an explicit week start or defaults to the upcoming
// Monday in UTC.
func weekStartFrom(raw string) (time.Time, error) {
	if raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "weekStart must be formatted as YYYY-MM-DD")
		}
		return parsed.UTC(), nil
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	offset := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return now.AddDate(0, 0, offset), nil
}
