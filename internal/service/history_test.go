package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	seeded := []models.ScheduledClassInstance{classFor("Ana Silva", "Monday", "09:00", 1)}
	optimized := []models.ScheduledClassInstance{
		classFor("Ana Silva", "Monday", "09:00", 1),
		classFor("Ben Cohen", "Tuesday", "10:00", 1),
	}

	h := NewHistory(nil)
	h.Commit(seeded)
	h.Commit(optimized)
	require.Equal(t, 3, h.Len())

	snapshot, moved := h.Undo()
	require.True(t, moved)
	assert.Len(t, snapshot, 1)

	snapshot, moved = h.Redo()
	require.True(t, moved)
	assert.Len(t, snapshot, 2)
}

func TestHistoryUndoAtFirstSnapshotIsNoOp(t *testing.T) {
	h := NewHistory([]models.ScheduledClassInstance{classFor("Ana Silva", "Monday", "09:00", 1)})

	snapshot, moved := h.Undo()
	assert.False(t, moved)
	assert.Len(t, snapshot, 1)
	assert.False(t, h.CanUndo())
}

func TestHistoryCommitTruncatesForwardBranch(t *testing.T) {
	first := []models.ScheduledClassInstance{classFor("Ana Silva", "Monday", "09:00", 1)}
	second := []models.ScheduledClassInstance{
		classFor("Ana Silva", "Monday", "09:00", 1),
		classFor("Ben Cohen", "Tuesday", "10:00", 1),
	}
	manual := []models.ScheduledClassInstance{classFor("Cara Diaz", "Friday", "18:00", 1)}

	h := NewHistory(nil)
	h.Commit(first)
	h.Commit(second)

	_, moved := h.Undo()
	require.True(t, moved)
	require.True(t, h.CanRedo())

	h.Commit(manual)
	assert.False(t, h.CanRedo(), "commit after undo abandons the forward branch")

	snapshot, moved := h.Redo()
	assert.False(t, moved)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Cara Diaz", snapshot[0].TeacherFullName())
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	state := []models.ScheduledClassInstance{classFor("Ana Silva", "Monday", "09:00", 1)}
	h := NewHistory(state)

	state[0].Location = "Annex"
	current := h.Current()
	assert.Equal(t, "Main Studio", current[0].Location)

	current[0].Location = "Annex"
	again := h.Current()
	assert.Equal(t, "Main Studio", again[0].Location)
}

func TestHistoryLenCountsCommittedStates(t *testing.T) {
	h := NewHistory(nil)
	assert.Equal(t, 1, h.Len())

	h.Commit([]models.ScheduledClassInstance{classFor("Ana Silva", "Monday", "09:00", 1)})
	h.Commit(nil)
	assert.Equal(t, 3, h.Len())
}
