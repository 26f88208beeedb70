package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/medalboard/internal/domain/model"
)

// naTokens are read as missing cells, matching what spreadsheet exports and
// pandas treat as not-available.
var naTokens = []string{ //nolint:gochecknoglobals // fixed token list
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None", "<NA>", "#N/A",
}

// Load reads the CSV at path into a RawTable.
func Load(ctx context.Context, path string) (*model.RawTable, error) {
	const op = "repository.load"
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrLoad, err)
	}
	defer func() { _ = f.Close() }()
	return LoadReader(ctx, f)
}

// LoadReader reads CSV from r into a RawTable. Every column is kept as text
// in header order.
func LoadReader(ctx context.Context, r io.Reader) (*model.RawTable, error) {
	const op = "repository.load"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naTokens),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrLoad, df.Err)
	}

	raw := fromDataFrame(df)
	if raw.ColumnIndex(model.IdentifierColumn) < 0 {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrLoad, model.ErrMissingIdentifier)
	}
	return raw, nil
}

func fromDataFrame(df dataframe.DataFrame) *model.RawTable {
	names := df.Names()
	rows := make([][]model.Cell, df.Nrow())
	for i := range rows {
		rows[i] = make([]model.Cell, len(names))
	}
	for c, name := range names {
		col := df.Col(name)
		values := col.Records()
		missing := col.IsNaN()
		for i := range rows {
			rows[i][c] = model.Cell{Value: values[i], Null: missing[i]}
			if missing[i] {
				rows[i][c].Value = ""
			}
		}
	}
	return &model.RawTable{Columns: names, Rows: rows}
}

// IsLoadError reports whether err came from reading the dataset.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoad)
}
