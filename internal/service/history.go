package service

import "github.com/pulsefit/studio-scheduler-api/internal/models"

// History is a linear, truncating stack of schedule snapshots with a cursor.
// Snapshots are stored by value so inspecting a past state is safe after
// later mutation. Callers serialize access; there is no locking here.
type History struct {
	snapshots []models.ScheduleSnapshot
	cursor    int
}

// NewHistory starts the stack with the given state as its first snapshot.
func NewHistory(initial []models.ScheduledClassInstance) *History {
	return &History{
		snapshots: []models.ScheduleSnapshot{models.CloneInstances(initial)},
		cursor:    0,
	}
}

// Commit truncates any abandoned forward branch, appends the new snapshot and
// advances the cursor.
func (h *History) Commit(next []models.ScheduledClassInstance) {
	h.snapshots = append(h.snapshots[:h.cursor+1], models.CloneInstances(next))
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back one snapshot. No-op at the first snapshot.
func (h *History) Undo() ([]models.ScheduledClassInstance, bool) {
	if h.cursor == 0 {
		return models.CloneInstances(h.snapshots[h.cursor]), false
	}
	h.cursor--
	return models.CloneInstances(h.snapshots[h.cursor]), true
}

// Redo moves the cursor forward one snapshot. No-op at the tail.
func (h *History) Redo() ([]models.ScheduledClassInstance, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return models.CloneInstances(h.snapshots[h.cursor]), false
	}
	h.cursor++
	return models.CloneInstances(h.snapshots[h.cursor]), true
}

// Current returns a copy of the snapshot under the cursor.
func (h *History) Current() []models.ScheduledClassInstance {
	return models.CloneInstances(h.snapshots[h.cursor])
}

// Len reports the number of retained committed states.
func (h *History) Len() int {
	return len(h.snapshots)
}

// CanUndo reports whether an undo would change state.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a redo would change state.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.snapshots)-1
}
