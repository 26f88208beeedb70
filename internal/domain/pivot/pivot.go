// Package pivot cross-tabulates tidy records into event × gender medal counts.
package pivot

import (
	"sort"

	"github.com/okian/medalboard/internal/domain/model"
)

// Count tallies records per (Event, Gender). Events and genders are sorted
// ascending; combinations with no records are absent from Cells.
func Count(records []model.TidyRecord) model.CountTable {
	cells := make(map[[2]string]int)
	events := make(map[string]struct{})
	genders := make(map[string]struct{})
	for _, r := range records {
		cells[[2]string{r.Event, r.Gender}]++
		events[r.Event] = struct{}{}
		genders[r.Gender] = struct{}{}
	}
	return model.CountTable{
		Events:  sortedKeys(events),
		Genders: sortedKeys(genders),
		Cells:   cells,
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
