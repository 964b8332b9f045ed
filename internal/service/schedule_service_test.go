package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-scheduler-api/internal/dto"
	"github.com/pulsefit/studio-scheduler-api/internal/models"
	appErrors "github.com/pulsefit/studio-scheduler-api/pkg/errors"
)

type stubPerformance struct{ records []models.PerformanceRecord }

func (s *stubPerformance) ListAll(context.Context) ([]models.PerformanceRecord, error) {
	return s.records, nil
}

type stubPriority struct{ entries []models.PriorityEntry }

func (s *stubPriority) ListRanked(context.Context) ([]models.PriorityEntry, error) {
	return s.entries, nil
}

type stubRoster struct{ teachers []models.Teacher }

func (s *stubRoster) ListRoster(context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type stubAvailability struct {
	timeOff   []models.TeacherTimeOff
	blackouts []models.TeacherBlackout
}

func (s *stubAvailability) ListTimeOff(context.Context, time.Time, time.Time) ([]models.TeacherTimeOff, error) {
	return s.timeOff, nil
}

func (s *stubAvailability) ListBlackouts(context.Context, time.Time, time.Time) ([]models.TeacherBlackout, error) {
	return s.blackouts, nil
}

type stubStore struct {
	persisted []models.ScheduledClassInstance
	replaces  int
	failNext  error
}

func (s *stubStore) ListAll(context.Context) ([]models.ScheduledClassInstance, error) {
	return models.CloneInstances(s.persisted), nil
}

func (s *stubStore) ReplaceAll(_ context.Context, instances []models.ScheduledClassInstance) error {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	s.persisted = models.CloneInstances(instances)
	s.replaces++
	return nil
}

type stubCache struct {
	data    map[string][]byte
	deletes int
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (s *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *stubCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	s.deletes++
	return nil
}

type scheduleFixture struct {
	svc   *ScheduleService
	store *stubStore
	cache *stubCache
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	recA := perfRecord("Reformer Flow", "Monday", "09:00", "Main Studio", "Ana Silva", 90)
	recB := perfRecord("Mat Pilates", "Tuesday", "10:00", "Main Studio", "Ben Cohen", 75)
	recC := perfRecord("Barre", "Wednesday", "18:00", "Annex", "Ben Cohen", 82)

	store := &stubStore{}
	cache := newStubCache()
	svc := NewScheduleService(
		&stubPerformance{records: []models.PerformanceRecord{recA, recB, recC}},
		&stubPriority{entries: []models.PriorityEntry{
			catalogEntry(recA, 9, false),
			catalogEntry(recB, 5, false),
		}},
		&stubRoster{teachers: []models.Teacher{
			rosterTeacher("Ana Silva", models.TeacherStatusActive, "Reformer Flow"),
			rosterTeacher("Ben Cohen", models.TeacherStatusActive, "Mat Pilates", "Barre"),
		}},
		&stubAvailability{},
		store,
		cache,
		nil,
		nil,
		nil,
		nil,
		nil,
		ScheduleServiceConfig{},
	)
	require.NoError(t, svc.Restore(context.Background()))
	return &scheduleFixture{svc: svc, store: store, cache: cache}
}

func TestScheduleServiceSeedCommits(t *testing.T) {
	f := newScheduleFixture(t)

	outcome, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)
	assert.Equal(t, "seed", outcome.Operation)
	assert.Equal(t, 2, outcome.ClassesPlaced)
	assert.Equal(t, 2, outcome.TotalClasses)
	assert.Equal(t, 1, f.store.replaces)
	assert.Len(t, f.svc.Current(), 2)
}

func TestScheduleServiceSeedEmptyResultCommitsNothing(t *testing.T) {
	store := &stubStore{}
	svc := NewScheduleService(
		&stubPerformance{},
		&stubPriority{entries: []models.PriorityEntry{
			catalogEntry(perfRecord("Barre", "Friday", "17:00", "Annex", "Cara Diaz", 0), 8, false),
		}},
		&stubRoster{},
		&stubAvailability{},
		store, newStubCache(), nil, nil, nil, nil, nil,
		ScheduleServiceConfig{},
	)
	require.NoError(t, svc.Restore(context.Background()))

	_, err := svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.ErrorIs(t, err, appErrors.ErrEmptyResult)
	assert.Equal(t, 0, store.replaces)
}

func TestScheduleServiceOptimizeReportsObjective(t *testing.T) {
	f := newScheduleFixture(t)

	outcome, err := f.svc.Optimize(context.Background(), dto.OptimizeScheduleRequest{Iteration: 1})
	require.NoError(t, err)
	assert.Equal(t, string(ObjectiveAttendance), outcome.Objective)
	assert.Greater(t, outcome.ClassesPlaced, 0)
	assert.Equal(t, 1, f.store.replaces)
}

func TestScheduleServiceFillGapsZeroDeltaIsNoOp(t *testing.T) {
	f := newScheduleFixture(t)

	// Fill everything the pool offers first.
	_, err := f.svc.FillGaps(context.Background(), dto.FillGapsRequest{BatchSize: 10})
	require.NoError(t, err)
	replaces := f.store.replaces

	outcome, err := f.svc.FillGaps(context.Background(), dto.FillGapsRequest{BatchSize: 10})
	require.NoError(t, err)
	assert.True(t, outcome.NoOp)
	assert.Equal(t, replaces, f.store.replaces, "no-op must not persist")
}

func TestScheduleServiceAddClassGateAndOverride(t *testing.T) {
	f := newScheduleFixture(t)

	base := dto.ClassInstanceRequest{
		Day: "Monday", Time: "06:00", Location: "Main Studio",
		ClassFormat: "Mat Pilates", TeacherName: "Dana Flores", DurationHours: 4,
	}
	times := []string{"06:00", "07:00", "08:00", "09:00"}
	for i := 0; i < 3; i++ {
		req := base
		req.Time = times[i]
		_, err := f.svc.AddClass(context.Background(), req)
		require.NoError(t, err)
	}

	// 12h on the books; 4 more would exceed the 15h ceiling.
	req := base
	req.Time = times[3]
	_, err := f.svc.AddClass(context.Background(), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrPolicyViolation.Code, appErr.Code)

	req.Override = true
	outcome, err := f.svc.AddClass(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.TotalClasses)
	assert.NotEmpty(t, outcome.Warnings)
}

func TestScheduleServiceAddClassSlotConflict(t *testing.T) {
	f := newScheduleFixture(t)

	req := dto.ClassInstanceRequest{
		Day: "Monday", Time: "09:00", Location: "Main Studio",
		ClassFormat: "Mat Pilates", TeacherName: "Ana Silva",
	}
	_, err := f.svc.AddClass(context.Background(), req)
	require.NoError(t, err)

	req.TeacherName = "Ben Cohen"
	_, err = f.svc.AddClass(context.Background(), req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	// A private session may share the room slot.
	req.IsPrivate = true
	_, err = f.svc.AddClass(context.Background(), req)
	require.NoError(t, err)
}

func TestScheduleServiceUndoRedo(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)
	require.Len(t, f.svc.Current(), 2)

	outcome, err := f.svc.Undo(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.NoOp)
	assert.Len(t, f.svc.Current(), 0)
	assert.Len(t, f.store.persisted, 0)

	outcome, err = f.svc.Redo(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.NoOp)
	assert.Len(t, f.svc.Current(), 2)
}

func TestScheduleServiceRedoAfterCommitIsNoOp(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)

	_, err = f.svc.Undo(context.Background())
	require.NoError(t, err)

	_, err = f.svc.AddClass(context.Background(), dto.ClassInstanceRequest{
		Day: "Friday", Time: "18:00", Location: "Annex",
		ClassFormat: "Barre", TeacherName: "Cara Diaz",
	})
	require.NoError(t, err)

	outcome, err := f.svc.Redo(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.NoOp, "commit after undo truncates the redo branch")
}

func TestScheduleServiceUndoAtFirstSnapshotIsNoOp(t *testing.T) {
	f := newScheduleFixture(t)
	outcome, err := f.svc.Undo(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.NoOp)
}

func TestScheduleServiceClearPrunesInstanceLocksKeepsTeacherLocks(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)
	current := f.svc.Current()
	require.NotEmpty(t, current)

	f.svc.Lock(dto.LockRequest{
		InstanceIDs:  []string{current[0].ID},
		TeacherNames: []string{"Ana Silva"},
	})

	_, err = f.svc.Clear(context.Background())
	require.NoError(t, err)

	state := f.svc.LockStatus()
	assert.Empty(t, state.InstanceIDs)
	assert.Equal(t, []string{"Ana Silva"}, state.TeacherNames)
	assert.Empty(t, f.svc.Current())
}

func TestScheduleServiceDeleteLockedInstanceRefused(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)
	id := f.svc.Current()[0].ID

	f.svc.Lock(dto.LockRequest{InstanceIDs: []string{id}})
	_, err = f.svc.DeleteClass(context.Background(), id)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrLocked.Code, appErr.Code)

	f.svc.Unlock(dto.LockRequest{InstanceIDs: []string{id}})
	_, err = f.svc.DeleteClass(context.Background(), id)
	require.NoError(t, err)
}

func TestScheduleServiceValidateHasNoSideEffects(t *testing.T) {
	f := newScheduleFixture(t)

	verdict, err := f.svc.Validate(context.Background(), dto.ValidateClassRequest{
		Day: "Monday", Time: "09:00", Location: "Main Studio",
		ClassFormat: "Mat Pilates", TeacherName: "Ana Silva",
	})
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Equal(t, 0, f.store.replaces)
	assert.Empty(t, f.svc.Current())
}

func TestScheduleServiceSummaryUsesCache(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)

	first, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalClasses)

	// A second read must come from the cache with identical content.
	second, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.GeneratedAt.Unix(), second.GeneratedAt.Unix())

	// Any commit invalidates the cached summary.
	_, err = f.svc.Clear(context.Background())
	require.NoError(t, err)
	third, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, third.TotalClasses)
}

func TestScheduleServicePersistFailureLeavesStateUntouched(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.failNext = errors.New("connection reset")

	_, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.Error(t, err)
	assert.Empty(t, f.svc.Current())

	// The next attempt succeeds once the store recovers.
	outcome, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.ClassesPlaced)
}

func TestScheduleServiceMutationsRefusedWhileRunInProgress(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	_, err := f.svc.Seed(ctx, dto.SeedScheduleRequest{})
	require.NoError(t, err)
	id := f.svc.Current()[0].ID

	// Simulate an engine run holding the guard for its full span.
	f.svc.runMu.Lock()
	defer f.svc.runMu.Unlock()

	req := dto.ClassInstanceRequest{
		Day: "Friday", Time: "07:00", Location: "Annex",
		ClassFormat: "Barre", TeacherName: "Cara Diaz",
	}
	_, err = f.svc.AddClass(ctx, req)
	assert.ErrorIs(t, err, appErrors.ErrRunInProgress)
	_, err = f.svc.ReplaceClass(ctx, id, req)
	assert.ErrorIs(t, err, appErrors.ErrRunInProgress)
	_, err = f.svc.DeleteClass(ctx, id)
	assert.ErrorIs(t, err, appErrors.ErrRunInProgress)
	_, err = f.svc.Clear(ctx)
	assert.ErrorIs(t, err, appErrors.ErrRunInProgress)
	_, err = f.svc.Undo(ctx)
	assert.ErrorIs(t, err, appErrors.ErrRunInProgress)
	_, err = f.svc.Redo(ctx)
	assert.ErrorIs(t, err, appErrors.ErrRunInProgress)
	_, err = f.svc.FillGaps(ctx, dto.FillGapsRequest{})
	assert.ErrorIs(t, err, appErrors.ErrRunInProgress)

	assert.Len(t, f.svc.Current(), 2, "refused mutations leave the schedule untouched")
}

func TestScheduleServiceSeedRetainsLockedTeacherInstances(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.AddClass(context.Background(), dto.ClassInstanceRequest{
		Day: "Sunday", Time: "08:00", Location: "Annex",
		ClassFormat: "Barre", TeacherName: "Cara Diaz",
	})
	require.NoError(t, err)
	f.svc.Lock(dto.LockRequest{TeacherNames: []string{"Cara Diaz"}})

	outcome, err := f.svc.Seed(context.Background(), dto.SeedScheduleRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.TotalClasses, "locked teacher's class survives the seed clear")
}
