// Package view assembles everything the report page shows for one selection.
//
// Build is a pure function of the raw table, the tidy result and the session
// selection; rendering layers only format what it returns.
package view

import (
	"github.com/okian/medalboard/internal/domain/lookup"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/pivot"
	"github.com/okian/medalboard/internal/domain/tidy"
)

// DefaultPreviewRows is the number of rows shown in each table preview.
const DefaultPreviewRows = 5

// View is the complete report for one selection.
type View struct {
	RawColumns []string             `json:"raw_columns"`
	RawHead    [][]model.Cell       `json:"-"`
	MeltedHead []model.MeltedRecord `json:"melted_head"`
	TidyHead   []model.TidyRecord   `json:"tidy_head"`
	Pivot      model.CountTable     `json:"pivot"`

	Athletes []string `json:"athletes"`
	Genders  []string `json:"genders"`
	Events   []string `json:"events"`

	// Selection is the resolved selection: empty fields fall back to the first option.
	Selection    model.Selection     `json:"selection"`
	Achievements []model.Achievement `json:"achievements"`
	Medalists    []model.Medalist    `json:"medalists"`

	Diagnostics model.Diagnostics `json:"diagnostics"`
}

// Option applies a configuration option to Build.
type Option func(*options)

type options struct {
	previewRows int
}

// WithPreviewRows sets how many rows each preview table shows.
func WithPreviewRows(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.previewRows = n
		}
	}
}

// Build assembles the report for sel.
func Build(raw *model.RawTable, res tidy.Result, sel model.Selection, opts ...Option) View {
	o := options{previewRows: DefaultPreviewRows}
	for _, opt := range opts {
		opt(&o)
	}

	v := View{
		RawHead:     raw.Head(o.previewRows),
		MeltedHead:  head(res.Melted, o.previewRows),
		TidyHead:    head(res.Records, o.previewRows),
		Pivot:       pivot.Count(res.Records),
		Athletes:    lookup.Athletes(res.Records),
		Genders:     lookup.Genders(res.Records),
		Events:      lookup.Events(res.Records),
		Diagnostics: res.Diagnostics,
	}
	if raw != nil {
		v.RawColumns = raw.Columns
	}

	v.Selection = Resolve(sel, v.Athletes, v.Genders, v.Events)
	v.Achievements = lookup.Achievements(res.Records, v.Selection.Athlete)
	v.Medalists = lookup.Medalists(res.Records, v.Selection.Gender, v.Selection.Event)
	return v
}

// Resolve fills empty selection fields with the first option of each selector.
// Values that match no option are kept as is.
func Resolve(sel model.Selection, athletes, genders, events []string) model.Selection {
	sel.Athlete = orFirst(sel.Athlete, athletes)
	sel.Gender = orFirst(sel.Gender, genders)
	sel.Event = orFirst(sel.Event, events)
	return sel
}

func orFirst(v string, options []string) string {
	if v == "" && len(options) > 0 {
		return options[0]
	}
	return v
}

func head[T any](rows []T, n int) []T {
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}
