// Package report prints the medal report as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/view"
)

// missing is printed for absent cells and counts.
const missing = "None"

var (
	goldColor   = color.New(color.FgYellow, color.Bold)
	silverColor = color.New(color.FgWhite, color.Bold)
	bronzeColor = color.New(color.FgRed)
	titleColor  = color.New(color.FgCyan, color.Bold)
)

// Printer writes report sections to an output stream.
type Printer struct {
	out   io.Writer
	color bool
}

// Option applies a configuration option to the Printer.
type Option func(*Printer)

// WithColor toggles ANSI colors for medals and section titles.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// New creates a Printer writing to out. Colors are off unless enabled.
func New(out io.Writer, opts ...Option) *Printer {
	p := &Printer{out: out}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Overview prints the pipeline stages, the pivot and the diagnostics.
func (p *Printer) Overview(v view.View) error {
	if err := p.raw(v.RawColumns, v.RawHead); err != nil {
		return err
	}
	if err := p.melted(v.MeltedHead); err != nil {
		return err
	}
	if err := p.tidy(v.TidyHead); err != nil {
		return err
	}
	if err := p.Pivot(v.Pivot); err != nil {
		return err
	}
	return p.Diagnostics(v.Diagnostics)
}

func (p *Printer) raw(columns []string, rows [][]model.Cell) error {
	p.title("Raw Data Preview")
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(columns))
		for i := range columns {
			line[i] = missing
			if i < len(row) && !row[i].Null {
				line[i] = row[i].Value
			}
		}
		data = append(data, line)
	}
	return p.table(columns, data, tw.AlignLeft)
}

func (p *Printer) melted(rows []model.MeltedRecord) error {
	p.title("Melted Data Preview")
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Athlete, r.Key, r.Medal})
	}
	return p.table([]string{model.IdentifierColumn, "event_gender", "medal"}, data, tw.AlignLeft)
}

func (p *Printer) tidy(rows []model.TidyRecord) error {
	p.title("Tidy Data Preview")
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Athlete, r.Event, p.medal(r.Medal), r.Gender})
	}
	return p.table([]string{"Athlete", "Event", "Medal", "Gender"}, data, tw.AlignLeft)
}

// Pivot prints the event × gender medal counts.
func (p *Printer) Pivot(t model.CountTable) error {
	p.title("Medal Count by Event and Gender")
	headers := append([]string{"Event"}, t.Genders...)
	data := make([][]string, 0, len(t.Events))
	for _, e := range t.Events {
		row := []string{e}
		for _, g := range t.Genders {
			if n, ok := t.Count(e, g); ok {
				row = append(row, strconv.Itoa(n))
			} else {
				row = append(row, missing)
			}
		}
		data = append(data, row)
	}
	return p.table(headers, data, tw.AlignRight)
}

// Diagnostics prints what the pipeline dropped or flagged.
func (p *Printer) Diagnostics(d model.Diagnostics) error {
	p.title("Pipeline Diagnostics")
	data := [][]string{
		{"raw rows", strconv.Itoa(d.RawRows)},
		{"melted rows", strconv.Itoa(d.MeltedRows)},
		{"duplicates dropped", strconv.Itoa(d.DuplicatesDropped)},
		{"missing dropped", strconv.Itoa(d.MissingDropped)},
		{"tidy rows", strconv.Itoa(d.TidyRows)},
		{"malformed keys", strconv.Itoa(len(d.MalformedKeys))},
		{"repeated medals", strconv.Itoa(len(d.RepeatedMedals))},
	}
	return p.table([]string{"Measure", "Value"}, data, tw.AlignRight)
}

// Athlete prints the achievements of one athlete.
func (p *Printer) Athlete(name string, achievements []model.Achievement) error {
	p.title("Achievement for " + name)
	if len(achievements) == 0 {
		_, err := fmt.Fprintf(p.out, "No medals found for %s.\n", name)
		return err
	}
	for _, a := range achievements {
		if _, err := fmt.Fprintf(p.out, "🏆 %s - %s Medal\n", a.Event, p.medal(a.Medal)); err != nil {
			return err
		}
	}
	return nil
}

// Medalists prints the medalists of one gendered event in rank order.
func (p *Printer) Medalists(gender, event string, medalists []model.Medalist) error {
	p.title(fmt.Sprintf("Medalists in %s (%s)", event, gender))
	data := make([][]string, 0, len(medalists))
	for i, m := range medalists {
		data = append(data, []string{strconv.Itoa(i), m.Athlete, p.medal(m.Medal)})
	}
	return p.table([]string{"#", "Athlete", "Medal"}, data, tw.AlignLeft)
}

func (p *Printer) table(headers []string, data [][]string, align tw.Align) error {
	table := tablewriter.NewWriter(p.out)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = align
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func (p *Printer) title(s string) {
	if p.color {
		s = titleColor.Sprint(s)
	}
	_, _ = fmt.Fprintf(p.out, "\n%s\n", s)
}

func (p *Printer) medal(m string) string {
	if !p.color {
		return m
	}
	switch m {
	case model.Gold:
		return goldColor.Sprint(m)
	case model.Silver:
		return silverColor.Sprint(m)
	case model.Bronze:
		return bronzeColor.Sprint(m)
	default:
		return m
	}
}
