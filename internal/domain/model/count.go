package model

// CountCell is one (event, gender) medal count.
type CountCell struct {
	Event  string `json:"event"`
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

// CountTable is the event × gender cross-tabulation of tidy records.
type CountTable struct {
	Events  []string          `json:"events"`
	Genders []string          `json:"genders"`
	Cells   map[[2]string]int `json:"-"`
}

// Count returns the number of medals for event and gender.
// ok is false when no tidy record has that combination.
func (t CountTable) Count(event, gender string) (n int, ok bool) {
	n, ok = t.Cells[[2]string{event, gender}]
	return n, ok
}

// Row returns the counts for event in Genders order, zero for absent combinations.
func (t CountTable) Row(event string) []int {
	out := make([]int, len(t.Genders))
	for i, g := range t.Genders {
		out[i], _ = t.Count(event, g)
	}
	return out
}

// Flatten lists the present cells in Events × Genders order.
func (t CountTable) Flatten() []CountCell {
	out := make([]CountCell, 0, len(t.Cells))
	for _, e := range t.Events {
		for _, g := range t.Genders {
			if n, ok := t.Count(e, g); ok {
				out = append(out, CountCell{Event: e, Gender: g, Count: n})
			}
		}
	}
	return out
}

// Max returns the largest cell count, 0 for an empty table.
func (t CountTable) Max() int {
	m := 0
	for _, n := range t.Cells {
		if n > m {
			m = n
		}
	}
	return m
}
