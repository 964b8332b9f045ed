package dto

import "time"

// SeedScheduleRequest triggers a priority seeding pass over a cleared store.
type SeedScheduleRequest struct {
	WeekStart string `json:"weekStart" validate:"omitempty,datetime=2006-01-02"`
}

// OptimizeScheduleRequest drives one heuristic full-schedule rebuild. The
// iteration counter rotates the objective; identical inputs and iteration
// always produce the identical candidate set.
type OptimizeScheduleRequest struct {
	Iteration                int      `json:"iteration" validate:"min=0"`
	TargetHours              float64  `json:"targetHours" validate:"omitempty,gt=0"`
	MustIncludeFormats       []string `json:"mustIncludeFormats"`
	PriorityFormats          []string `json:"priorityFormats"`
	PrioritizeTopPerformers  bool     `json:"prioritizeTopPerformers"`
	BalanceClassMix          bool     `json:"balanceClassMix"`
	RespectTimeRestrictions  bool     `json:"respectTimeRestrictions"`
	MinimizeTrainersPerShift bool     `json:"minimizeTrainersPerShift"`
	WeekStart                string   `json:"weekStart" validate:"omitempty,datetime=2006-01-02"`
}

// FillGapsRequest appends a bounded batch of new instances to the current
// schedule without disturbing what is already placed.
type FillGapsRequest struct {
	BatchSize int    `json:"batchSize" validate:"omitempty,min=1,max=20"`
	WeekStart string `json:"weekStart" validate:"omitempty,datetime=2006-01-02"`
}

// ClassInstanceRequest is a manual add/replace payload for one grid instance.
type ClassInstanceRequest struct {
	Day           string  `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Time          string  `json:"time" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	ClassFormat   string  `json:"classFormat" validate:"required"`
	TeacherName   string  `json:"teacherName" validate:"required"`
	DurationHours float64 `json:"durationHours" validate:"omitempty,gt=0,lte=4"`
	Participants  int     `json:"participants" validate:"omitempty,min=0"`
	Revenue       float64 `json:"revenue" validate:"omitempty,min=0"`
	IsPrivate     bool    `json:"isPrivate"`
	Override      bool    `json:"override"`
}

// ValidateClassRequest asks the validation gate for a verdict without side
// effects.
type ValidateClassRequest struct {
	Day           string  `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Time          string  `json:"time" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	ClassFormat   string  `json:"classFormat" validate:"required"`
	TeacherName   string  `json:"teacherName" validate:"required"`
	DurationHours float64 `json:"durationHours" validate:"omitempty,gt=0,lte=4"`
	IsPrivate     bool    `json:"isPrivate"`
}

// HourVerdict is the validation gate's answer for one candidate.
type HourVerdict struct {
	Valid          bool    `json:"valid"`
	Overridable    bool    `json:"overridable"`
	Message        string  `json:"message"`
	TeacherName    string  `json:"teacherName"`
	CurrentHours   float64 `json:"currentHours"`
	ProjectedHours float64 `json:"projectedHours"`
}

// LockRequest names instances and teachers engines must leave untouched.
type LockRequest struct {
	InstanceIDs  []string `json:"instanceIds"`
	TeacherNames []string `json:"teacherNames"`
}

// LockState echoes the committed lock set.
type LockState struct {
	InstanceIDs  []string `json:"instanceIds"`
	TeacherNames []string `json:"teacherNames"`
}

// ScheduleOutcome summarises a committed (or attempted) mutation.
type ScheduleOutcome struct {
	Operation          string             `json:"operation"`
	Objective          string             `json:"objective,omitempty"`
	ClassesPlaced      int                `json:"classesPlaced"`
	ClassesAdded       int                `json:"classesAdded,omitempty"`
	ConflictSkips      int                `json:"conflictSkips,omitempty"`
	MissingPerformance int                `json:"missingPerformance,omitempty"`
	DroppedMustInclude []string           `json:"droppedMustInclude,omitempty"`
	TeacherHours       map[string]float64 `json:"teacherHours"`
	TeachersUsed       int                `json:"teachersUsed"`
	TotalClasses       int                `json:"totalClasses"`
	Warnings           []string           `json:"warnings,omitempty"`
	NoOp               bool               `json:"noOp,omitempty"`
}

// ScheduleSummary is the cached read-model for the presentation layer.
type ScheduleSummary struct {
	TotalClasses    int                `json:"totalClasses"`
	TotalHours      float64            `json:"totalHours"`
	TeachersUsed    int                `json:"teachersUsed"`
	TeacherHours    map[string]float64 `json:"teacherHours"`
	LocationCounts  map[string]int     `json:"locationCounts"`
	TopPerformers   int                `json:"topPerformers"`
	PrivateSessions int                `json:"privateSessions"`
	OverSoftCeiling []string           `json:"overSoftCeiling,omitempty"`
	Advisory        string             `json:"advisory,omitempty"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}
