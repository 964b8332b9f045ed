package models

import "sort"

// PerformanceRecord holds historical metrics for one class/slot/teacher
// combination. Records are immutable after load; numeric fields arrive
// pre-coerced (never NaN, zero when absent).
type PerformanceRecord struct {
	ClassFormat          string  `db:"class_format" json:"class_format"`
	Day                  string  `db:"day" json:"day"`
	Time                 string  `db:"time" json:"time"`
	Location             string  `db:"location" json:"location"`
	TeacherName          string  `db:"teacher_name" json:"teacher_name"`
	Score                float64 `db:"score" json:"score"`
	AvgAttendance        float64 `db:"avg_attendance" json:"avg_attendance"`
	AvgAttendanceNoEmpty float64 `db:"avg_attendance_no_empty" json:"avg_attendance_no_empty"`
	FillRatePct          float64 `db:"fill_rate_pct" json:"fill_rate_pct"`
	RevenuePerClass      float64 `db:"revenue_per_class" json:"revenue_per_class"`
	TipsPerClass         float64 `db:"tips_per_class" json:"tips_per_class"`
	LateCancelRate       float64 `db:"late_cancel_rate" json:"late_cancel_rate"`
}

// PerformanceKey identifies a single historical combination.
type PerformanceKey struct {
	ClassFormat string
	Day         string
	Time        string
	Location    string
	TeacherName string
}

// Key derives the lookup key for a record.
func (r PerformanceRecord) Key() PerformanceKey {
	return PerformanceKey{
		ClassFormat: r.ClassFormat,
		Day:         r.Day,
		Time:        r.Time,
		Location:    r.Location,
		TeacherName: r.TeacherName,
	}
}

// PerformanceIndex is a read-only lookup over historical records.
type PerformanceIndex struct {
	byKey   map[PerformanceKey]PerformanceRecord
	ordered []PerformanceRecord
}

// NewPerformanceIndex builds an index from pre-validated rows. Duplicate keys
// keep the first occurrence; the ordered view is sorted for deterministic
// iteration by the engines.
func NewPerformanceIndex(records []PerformanceRecord) *PerformanceIndex {
	byKey := make(map[PerformanceKey]PerformanceRecord, len(records))
	ordered := make([]PerformanceRecord, 0, len(records))
	for _, rec := range records {
		key := rec.Key()
		if _, exists := byKey[key]; exists {
			continue
		}
		byKey[key] = rec
		ordered = append(ordered, rec)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return lessPerformanceKey(ordered[i].Key(), ordered[j].Key())
	})
	return &PerformanceIndex{byKey: byKey, ordered: ordered}
}

// Lookup returns the exact-match record for a key.
func (ix *PerformanceIndex) Lookup(key PerformanceKey) (PerformanceRecord, bool) {
	rec, ok := ix.byKey[key]
	return rec, ok
}

// Records returns the deterministically ordered record set.
func (ix *PerformanceIndex) Records() []PerformanceRecord {
	out := make([]PerformanceRecord, len(ix.ordered))
	copy(out, ix.ordered)
	return out
}

// Len reports the number of indexed combinations.
func (ix *PerformanceIndex) Len() int {
	return len(ix.ordered)
}

func lessPerformanceKey(a, b PerformanceKey) bool {
	if a.ClassFormat != b.ClassFormat {
		return a.ClassFormat < b.ClassFormat
	}
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Location != b.Location {
		return a.Location < b.Location
	}
	return a.TeacherName < b.TeacherName
}
