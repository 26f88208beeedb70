// Package export writes the tidy table as CSV, JSON or Parquet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/metrics"
)

// Format names an export encoding.
type Format string

// Supported formats.
const (
	CSV     Format = "csv"
	JSON    Format = "json"
	Parquet Format = "parquet"
)

// Formats lists every supported format.
var Formats = []Format{CSV, JSON, Parquet} //nolint:gochecknoglobals // fixed list

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case CSV, JSON, Parquet:
		return f, nil
	default:
		return "", fmt.Errorf("export.parse: %w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv; charset=utf-8"
	case JSON:
		return "application/json"
	case Parquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

// Filename returns the download name for f.
func (f Format) Filename() string {
	return "medalists_tidy." + string(f)
}

// header is the column order of CSV output.
var header = []string{"Athlete", "Event", "Medal", "Gender"} //nolint:gochecknoglobals // fixed header

// Write encodes records to w in format f.
func Write(w io.Writer, f Format, records []model.TidyRecord) error {
	var err error
	switch f {
	case CSV:
		err = writeCSV(w, records)
	case JSON:
		err = writeJSON(w, records)
	case Parquet:
		err = writeParquet(w, records)
	default:
		return fmt.Errorf("export.write: %w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return fmt.Errorf("export.write %s: %w", f, err)
	}
	metrics.RecordExport(string(f))
	return nil
}

func writeCSV(w io.Writer, records []model.TidyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Athlete, r.Event, r.Medal, r.Gender}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, records []model.TidyRecord) error {
	if records == nil {
		records = []model.TidyRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeParquet(w io.Writer, records []model.TidyRecord) error {
	pw := parquet.NewGenericWriter[model.TidyRecord](w)
	if _, err := pw.Write(records); err != nil {
		_ = pw.Close()
		return err
	}
	return pw.Close()
}
