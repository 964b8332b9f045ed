package models

import "sort"

// PriorityEntry is a curated, ranked must-consider class placement bound to an
// exact slot and teacher. The performance snapshot is copied at load time and
// never refreshed afterwards.
type PriorityEntry struct {
	ClassFormat  string            `db:"class_format" json:"class_format"`
	Day          string            `db:"day" json:"day"`
	Time         string            `db:"time" json:"time"`
	Location     string            `db:"location" json:"location"`
	TeacherName  string            `db:"teacher_name" json:"teacher_name"`
	PriorityRank int               `db:"priority_rank" json:"priority_rank"`
	MustInclude  bool              `db:"must_include" json:"must_include"`
	Performance  PerformanceRecord `json:"performance"`
}

// SortPriorityEntries orders entries by rank descending, stable on ties, with
// must-include entries ahead of equal-ranked optional ones.
func SortPriorityEntries(entries []PriorityEntry) []PriorityEntry {
	sorted := make([]PriorityEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MustInclude != sorted[j].MustInclude {
			return sorted[i].MustInclude
		}
		return sorted[i].PriorityRank > sorted[j].PriorityRank
	})
	return sorted
}
