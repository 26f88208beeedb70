// Package model contains domain models passed between layers.
package model

// IdentifierColumn names the athlete column of the raw wide table.
const IdentifierColumn = "medalist_name"

// Cell is one raw table value. Null marks a missing value (empty cell or an NA token).
type Cell struct {
	Value string
	Null  bool
}

// RawTable is the wide medal table as loaded: one row per athlete, one column
// per gender/event composite key. It is never modified after load.
type RawTable struct {
	Columns []string
	Rows    [][]Cell
}

// ColumnIndex returns the position of name in Columns or -1.
func (t *RawTable) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Head returns up to n leading rows. The slice aliases the table.
func (t *RawTable) Head(n int) [][]Cell {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// MeltedRecord is one (athlete, composite key, medal) triple produced by the melt step.
type MeltedRecord struct {
	Athlete     string `json:"athlete"`
	Key         string `json:"event"`
	Medal       string `json:"medal"`
	AthleteNull bool   `json:"-"`
	MedalNull   bool   `json:"-"`
}

// TidyRecord is one medal won by one athlete in one gendered event.
type TidyRecord struct {
	Athlete string `json:"athlete" parquet:"athlete"`
	Event   string `json:"event" parquet:"event"`
	Medal   string `json:"medal" parquet:"medal"`
	Gender  string `json:"gender" parquet:"gender"`
}

// Achievement is one line of an athlete lookup.
type Achievement struct {
	Event string `json:"event"`
	Medal string `json:"medal"`
}

// Medalist is one line of a gender/event lookup.
type Medalist struct {
	Athlete string `json:"athlete"`
	Medal   string `json:"medal"`
}

// Selection holds the selector values of one report session.
type Selection struct {
	Athlete string `json:"athlete"`
	Gender  string `json:"gender"`
	Event   string `json:"event"`
}

// Merge returns s with every non-empty field of other applied on top.
func (s Selection) Merge(other Selection) Selection {
	if other.Athlete != "" {
		s.Athlete = other.Athlete
	}
	if other.Gender != "" {
		s.Gender = other.Gender
	}
	if other.Event != "" {
		s.Event = other.Event
	}
	return s
}

// RepeatedMedal reports an athlete holding more than one row for the same gendered event.
type RepeatedMedal struct {
	Athlete string   `json:"athlete"`
	Gender  string   `json:"gender"`
	Event   string   `json:"event"`
	Medals  []string `json:"medals"`
}

// Diagnostics summarises what the tidy pipeline dropped or flagged.
type Diagnostics struct {
	RawRows           int             `json:"raw_rows"`
	MeltedRows        int             `json:"melted_rows"`
	DuplicatesDropped int             `json:"duplicates_dropped"`
	MissingDropped    int             `json:"missing_dropped"`
	TidyRows          int             `json:"tidy_rows"`
	MalformedKeys     []string        `json:"malformed_keys"`
	RepeatedMedals    []RepeatedMedal `json:"repeated_medals"`
}
