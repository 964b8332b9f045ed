package models

import (
	"sort"
	"strings"
)

// Weekday names used across the weekly grid.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var weekDayOrder = map[string]int{
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
	"Sunday":    7,
}

// DayOrder returns the grid position of a weekday name, 0 when unknown.
func DayOrder(day string) int {
	return weekDayOrder[day]
}

// ScheduledClassInstance is one concrete class placed on the weekly grid.
// Instances are mutated only by whole-record replacement.
type ScheduledClassInstance struct {
	ID               string  `db:"id" json:"id"`
	Day              string  `db:"day" json:"day"`
	Time             string  `db:"time" json:"time"`
	Location         string  `db:"location" json:"location"`
	ClassFormat      string  `db:"class_format" json:"class_format"`
	TeacherFirstName string  `db:"teacher_first_name" json:"teacher_first_name"`
	TeacherLastName  string  `db:"teacher_last_name" json:"teacher_last_name"`
	DurationHours    float64 `db:"duration_hours" json:"duration_hours"`
	Participants     int     `db:"participants" json:"participants"`
	Revenue          float64 `db:"revenue" json:"revenue"`
	IsTopPerformer   bool    `db:"is_top_performer" json:"is_top_performer"`
	IsPrivate        bool    `db:"is_private" json:"is_private"`
	AdjustedScore    float64 `db:"adjusted_score" json:"adjusted_score"`
	AvgAttendance    float64 `db:"avg_attendance" json:"avg_attendance"`
	FillRate         float64 `db:"fill_rate" json:"fill_rate"`
}

// TeacherFullName joins the stored name parts.
func (i ScheduledClassInstance) TeacherFullName() string {
	return strings.TrimSpace(i.TeacherFirstName + " " + i.TeacherLastName)
}

// SplitTeacherName separates a roster-style full name into first and last
// parts. Everything after the first token is the last name.
func SplitTeacherName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ScheduleSnapshot is an immutable copy of the full instance collection.
type ScheduleSnapshot []ScheduledClassInstance

// CloneInstances deep-copies an instance collection so snapshots never share
// backing storage with the live store.
func CloneInstances(instances []ScheduledClassInstance) []ScheduledClassInstance {
	out := make([]ScheduledClassInstance, len(instances))
	copy(out, instances)
	return out
}

// SortInstances orders instances on the grid: day, time, location, teacher.
func SortInstances(instances []ScheduledClassInstance) {
	sort.SliceStable(instances, func(a, b int) bool {
		x, y := instances[a], instances[b]
		if DayOrder(x.Day) != DayOrder(y.Day) {
			return DayOrder(x.Day) < DayOrder(y.Day)
		}
		if x.Time != y.Time {
			return x.Time < y.Time
		}
		if x.Location != y.Location {
			return x.Location < y.Location
		}
		return x.TeacherFullName() < y.TeacherFullName()
	})
}

// LockSet tracks instances and teachers that engines must not reassign or
// overwrite.
type LockSet struct {
	instanceIDs  map[string]struct{}
	teacherNames map[string]struct{}
}

// NewLockSet returns an empty lock set.
func NewLockSet() *LockSet {
	return &LockSet{
		instanceIDs:  make(map[string]struct{}),
		teacherNames: make(map[string]struct{}),
	}
}

// LockInstances adds instance ids to the set.
func (l *LockSet) LockInstances(ids ...string) {
	for _, id := range ids {
		if id != "" {
			l.instanceIDs[id] = struct{}{}
		}
	}
}

// LockTeachers adds teacher full names to the set.
func (l *LockSet) LockTeachers(names ...string) {
	for _, name := range names {
		if name != "" {
			l.teacherNames[name] = struct{}{}
		}
	}
}

// UnlockInstances removes instance ids from the set.
func (l *LockSet) UnlockInstances(ids ...string) {
	for _, id := range ids {
		delete(l.instanceIDs, id)
	}
}

// UnlockTeachers removes teacher names from the set.
func (l *LockSet) UnlockTeachers(names ...string) {
	for _, name := range names {
		delete(l.teacherNames, name)
	}
}

// InstanceLocked reports whether the given instance id is locked.
func (l *LockSet) InstanceLocked(id string) bool {
	_, ok := l.instanceIDs[id]
	return ok
}

// TeacherLocked reports whether the given teacher full name is locked.
func (l *LockSet) TeacherLocked(name string) bool {
	_, ok := l.teacherNames[name]
	return ok
}

// Covers reports whether an instance is protected either directly or through
// its teacher.
func (l *LockSet) Covers(inst ScheduledClassInstance) bool {
	return l.InstanceLocked(inst.ID) || l.TeacherLocked(inst.TeacherFullName())
}

// InstanceIDs returns the locked ids in sorted order.
func (l *LockSet) InstanceIDs() []string {
	return sortedKeys(l.instanceIDs)
}

// TeacherNames returns the locked teacher names in sorted order.
func (l *LockSet) TeacherNames() []string {
	return sortedKeys(l.teacherNames)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
