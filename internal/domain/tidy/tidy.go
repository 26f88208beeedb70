// Package tidy reshapes the wide medal table into one row per medal.
//
// The pipeline runs in a fixed order: melt, drop exact duplicates, drop rows
// with missing values, split the composite key, capitalize. Every stage is a
// pure function of its input, so equal tables always give equal results.
package tidy

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/medalboard/internal/domain/dedupe"
	"github.com/okian/medalboard/internal/domain/model"
)

// Result holds the pipeline output and its intermediate stage.
type Result struct {
	// Melted is the long table after dropping duplicates and missing rows,
	// before the composite key is split.
	Melted []model.MeltedRecord
	// Records is the final tidy table.
	Records     []model.TidyRecord
	Diagnostics model.Diagnostics
}

// Tidier runs the reshape-and-clean pipeline.
type Tidier struct {
	strictKeys bool
}

// New creates a Tidier.
func New(opts ...Option) *Tidier {
	t := &Tidier{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run executes the pipeline over raw.
func (t *Tidier) Run(ctx context.Context, raw *model.RawTable) (Result, error) {
	const op = "tidy.run"
	if raw == nil {
		return Result{}, fmt.Errorf("%s: %w", op, ErrNilTable)
	}

	melted, err := Melt(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	diag := model.Diagnostics{RawRows: raw.Len(), MeltedRows: len(melted)}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	unique := DropDuplicates(ctx, melted)
	diag.DuplicatesDropped = len(melted) - len(unique)

	complete := DropMissing(unique)
	diag.MissingDropped = len(unique) - len(complete)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	records, malformed := Split(complete)
	if len(malformed) > 0 && t.strictKeys {
		return Result{}, fmt.Errorf("%s: %w: %s", op, ErrMalformedKey, strconv.Quote(malformed[0]))
	}
	diag.MalformedKeys = malformed

	CapitalizeRecords(records)
	diag.RepeatedMedals = RepeatedMedals(records)
	diag.TidyRows = len(records)

	return Result{Melted: complete, Records: records, Diagnostics: diag}, nil
}

// Melt turns every non-identifier column into (athlete, key, medal) rows.
// Rows come out column by column, each column in table row order.
func Melt(raw *model.RawTable) ([]model.MeltedRecord, error) {
	id := raw.ColumnIndex(model.IdentifierColumn)
	if id < 0 {
		return nil, model.ErrMissingIdentifier
	}

	out := make([]model.MeltedRecord, 0, raw.Len()*(len(raw.Columns)-1))
	for c, key := range raw.Columns {
		if c == id {
			continue
		}
		for _, row := range raw.Rows {
			athlete, medal := cellAt(row, id), cellAt(row, c)
			out = append(out, model.MeltedRecord{
				Athlete:     athlete.Value,
				AthleteNull: athlete.Null,
				Key:         key,
				Medal:       medal.Value,
				MedalNull:   medal.Null,
			})
		}
	}
	return out, nil
}

// cellAt treats cells past the end of a short row as missing.
func cellAt(row []model.Cell, i int) model.Cell {
	if i < len(row) {
		return row[i]
	}
	return model.Cell{Null: true}
}

// DropDuplicates keeps the first occurrence of every exact (athlete, key, medal) row.
// Missing values compare equal to each other and never to a present value.
func DropDuplicates(ctx context.Context, rows []model.MeltedRecord) []model.MeltedRecord {
	d := dedupe.NewInMemoryDeduper(dedupe.WithCapacityHint(len(rows)))
	out := make([]model.MeltedRecord, 0, len(rows))
	for _, r := range rows {
		k := dedupe.Key(nullable(r.Athlete, r.AthleteNull), r.Key, nullable(r.Medal, r.MedalNull))
		if d.SeenAndRecord(ctx, k) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func nullable(v string, null bool) string {
	if null {
		return "\x00"
	}
	return "=" + v
}

// DropMissing removes rows with a missing athlete or medal.
func DropMissing(rows []model.MeltedRecord) []model.MeltedRecord {
	out := make([]model.MeltedRecord, 0, len(rows))
	for _, r := range rows {
		if r.AthleteNull || r.MedalNull {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Split turns melted rows into tidy records and lists each malformed key once.
func Split(rows []model.MeltedRecord) ([]model.TidyRecord, []string) {
	out := make([]model.TidyRecord, 0, len(rows))
	var malformed []string
	flagged := make(map[string]struct{})
	for _, r := range rows {
		gender, event, ok := SplitKey(r.Key)
		if !ok {
			if _, dup := flagged[r.Key]; !dup {
				flagged[r.Key] = struct{}{}
				malformed = append(malformed, r.Key)
			}
		}
		out = append(out, model.TidyRecord{
			Athlete: r.Athlete,
			Event:   event,
			Medal:   r.Medal,
			Gender:  gender,
		})
	}
	return out, malformed
}

// CapitalizeRecords normalizes Event, Gender and Medal in place.
func CapitalizeRecords(records []model.TidyRecord) {
	c := newCapitalizer()
	for i := range records {
		records[i].Event = c.String(records[i].Event)
		records[i].Gender = c.String(records[i].Gender)
		records[i].Medal = c.String(records[i].Medal)
	}
}

// RepeatedMedals lists athletes holding more than one row for the same
// gender and event, in order of first appearance.
func RepeatedMedals(records []model.TidyRecord) []model.RepeatedMedal {
	type triple struct{ athlete, gender, event string }
	medals := make(map[triple][]string)
	var order []triple
	for _, r := range records {
		k := triple{r.Athlete, r.Gender, r.Event}
		if _, ok := medals[k]; !ok {
			order = append(order, k)
		}
		medals[k] = append(medals[k], r.Medal)
	}

	var out []model.RepeatedMedal
	for _, k := range order {
		if m := medals[k]; len(m) > 1 {
			out = append(out, model.RepeatedMedal{Athlete: k.athlete, Gender: k.gender, Event: k.event, Medals: m})
		}
	}
	return out
}
