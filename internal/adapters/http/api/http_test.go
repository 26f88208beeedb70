package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/medalboard/internal/adapters/chart"
	"github.com/okian/medalboard/internal/adapters/export"
	"github.com/okian/medalboard/internal/adapters/http/api"
	"github.com/okian/medalboard/internal/domain/lookup"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/pivot"
	. "github.com/smartystreets/goconvey/convey"
)

// mockReport serves fixed tables.
type mockReport struct {
	raw     *model.RawTable
	records []model.TidyRecord
	err     error
	lastN   int
}

func (m *mockReport) RawHead(_ context.Context, n int) (*model.RawTable, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastN = n
	return &model.RawTable{Columns: m.raw.Columns, Rows: m.raw.Head(n)}, nil
}

func (m *mockReport) Tidy(_ context.Context) ([]model.TidyRecord, error) {
	return m.records, m.err
}

func (m *mockReport) Pivot(_ context.Context) (model.CountTable, error) {
	return pivot.Count(m.records), m.err
}

func (m *mockReport) Diagnostics(_ context.Context) (model.Diagnostics, error) {
	return model.Diagnostics{TidyRows: len(m.records), MalformedKeys: []string{"decathlon"}}, m.err
}

func (m *mockReport) Athletes(_ context.Context) ([]string, error) {
	return lookup.Athletes(m.records), m.err
}

func (m *mockReport) Athlete(_ context.Context, name string) ([]model.Achievement, error) {
	return lookup.Achievements(m.records, name), m.err
}

func (m *mockReport) Medalists(_ context.Context, gender, event string) ([]model.Medalist, error) {
	return lookup.Medalists(m.records, gender, event), m.err
}

func (m *mockReport) Chart(_ context.Context, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	if len(m.records) == 0 {
		return fmt.Errorf("chart.svg: %w", chart.ErrNoData)
	}
	_, err := io.WriteString(w, "<svg></svg>")
	return err
}

func (m *mockReport) Export(_ context.Context, w io.Writer, f export.Format) error {
	if m.err != nil {
		return m.err
	}
	return export.Write(w, f, m.records)
}

type mockStats struct{}

func (mockStats) GetStats() map[string]any {
	return map[string]any{"started": true, "rawRows": 2}
}

func newMock() *mockReport {
	return &mockReport{
		raw: &model.RawTable{
			Columns: []string{"medalist_name", "male_judo"},
			Rows: [][]model.Cell{
				{{Value: "Ann"}, {Null: true}},
				{{Value: "Bo"}, {Value: "gold"}},
			},
		},
		records: []model.TidyRecord{
			{Athlete: "Bo", Event: "Judo", Medal: "Bronze", Gender: "Male"},
			{Athlete: "Cy", Event: "Judo", Medal: "Gold", Gender: "Male"},
			{Athlete: "Bo", Event: "Archery", Medal: "Silver", Gender: "Male"},
		},
	}
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestServer(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMock()
		mux := http.NewServeMux()
		api.NewServer(deps, mockStats{}, api.WithRawLimits(5, 10)).Register(context.Background(), mux)

		Convey("When the raw head is requested", func() {
			rec := serve(mux, http.MethodGet, "/api/raw?limit=2")

			Convey("Then missing cells are null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastN, ShouldEqual, 2)
				So(rec.Body.String(), ShouldContainSubstring, `"rows":[["Ann",null],["Bo","gold"]]`)
			})
		})

		Convey("When the raw head has no limit", func() {
			serve(mux, http.MethodGet, "/api/raw")

			Convey("Then the default limit applies", func() {
				So(deps.lastN, ShouldEqual, 5)
			})
		})

		Convey("When the raw limit is invalid or too large", func() {
			bad := serve(mux, http.MethodGet, "/api/raw?limit=abc")
			big := serve(mux, http.MethodGet, "/api/raw?limit=11")

			Convey("Then both are rejected", func() {
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
				So(bad.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
				So(big.Code, ShouldEqual, http.StatusBadRequest)
				So(big.Body.String(), ShouldContainSubstring, `"code":"limit_exceeded"`)
			})
		})

		Convey("When the tidy table is requested", func() {
			rec := serve(mux, http.MethodGet, "/api/tidy")

			Convey("Then it lists every record", func() {
				var got []model.TidyRecord
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, deps.records)
			})
		})

		Convey("When the pivot is requested", func() {
			rec := serve(mux, http.MethodGet, "/api/pivot")

			Convey("Then counts are laid out per event", func() {
				var got struct {
					Events  []string `json:"events"`
					Genders []string `json:"genders"`
					Counts  [][]int  `json:"counts"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Events, ShouldResemble, []string{"Archery", "Judo"})
				So(got.Genders, ShouldResemble, []string{"Male"})
				So(got.Counts, ShouldResemble, [][]int{{1}, {2}})
			})
		})

		Convey("When diagnostics are requested", func() {
			rec := serve(mux, http.MethodGet, "/api/diagnostics")

			Convey("Then malformed keys are listed and repeated medals is an array", func() {
				So(rec.Body.String(), ShouldContainSubstring, `"malformed_keys":["decathlon"]`)
				So(rec.Body.String(), ShouldContainSubstring, `"repeated_medals":[]`)
			})
		})

		Convey("When athletes are listed", func() {
			rec := serve(mux, http.MethodGet, "/api/athletes")

			Convey("Then they keep first-appearance order", func() {
				So(strings.TrimSpace(rec.Body.String()), ShouldEqual, `["Bo","Cy"]`)
			})
		})

		Convey("When one athlete is looked up", func() {
			rec := serve(mux, http.MethodGet, "/api/athletes/Bo")
			unknown := serve(mux, http.MethodGet, "/api/athletes/Nobody")
			blank := serve(mux, http.MethodGet, "/api/athletes/")

			Convey("Then achievements come in row order", func() {
				So(strings.TrimSpace(rec.Body.String()), ShouldEqual,
					`[{"event":"Judo","medal":"Bronze"},{"event":"Archery","medal":"Silver"}]`)
			})

			Convey("Then an unknown athlete gets an empty list", func() {
				So(unknown.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(unknown.Body.String()), ShouldEqual, `[]`)
			})

			Convey("Then a blank name is rejected", func() {
				So(blank.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When medalists are looked up", func() {
			rec := serve(mux, http.MethodGet, "/api/medalists?gender=Male&event=Judo")
			missing := serve(mux, http.MethodGet, "/api/medalists?gender=Male")

			Convey("Then gold comes first", func() {
				So(strings.TrimSpace(rec.Body.String()), ShouldEqual,
					`[{"athlete":"Cy","medal":"Gold"},{"athlete":"Bo","medal":"Bronze"}]`)
			})

			Convey("Then both selectors are required", func() {
				So(missing.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the chart is requested", func() {
			rec := serve(mux, http.MethodGet, "/chart.svg")

			Convey("Then it is served as SVG", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
			})
		})

		Convey("When an export is requested", func() {
			csv := serve(mux, http.MethodGet, "/export")
			parquet := serve(mux, http.MethodGet, "/export?format=parquet")
			bad := serve(mux, http.MethodGet, "/export?format=xlsx")

			Convey("Then csv is the default download", func() {
				So(csv.Code, ShouldEqual, http.StatusOK)
				So(csv.Header().Get("Content-Disposition"), ShouldContainSubstring, "medalists_tidy.csv")
				So(csv.Body.String(), ShouldStartWith, "Athlete,Event,Medal,Gender\n")
			})

			Convey("Then parquet is offered", func() {
				So(parquet.Code, ShouldEqual, http.StatusOK)
				So(parquet.Body.String(), ShouldStartWith, "PAR1")
			})

			Convey("Then an unknown format is a bad request", func() {
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When stats and health are requested", func() {
			stats := serve(mux, http.MethodGet, "/stats")
			health := serve(mux, http.MethodGet, "/healthz")
			scrape := serve(mux, http.MethodGet, "/metrics")

			Convey("Then all answer", func() {
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(stats.Body.String(), ShouldContainSubstring, `"started":true`)
				So(health.Code, ShouldEqual, http.StatusOK)
				So(health.Body.String(), ShouldContainSubstring, `"status":"ok"`)
				So(scrape.Code, ShouldEqual, http.StatusOK)
				So(scrape.Body.String(), ShouldContainSubstring, "medalboard_")
			})
		})

		Convey("When a non-GET method is used", func() {
			rec := serve(mux, http.MethodPost, "/api/tidy")

			Convey("Then it is not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given dependencies that fail", t, func() {
		deps := newMock()
		deps.err = errors.New("dataset not loaded")
		mux := http.NewServeMux()
		api.NewServer(deps, mockStats{}).Register(context.Background(), mux)

		Convey("Then every data route answers 500", func() {
			for _, target := range []string{"/api/raw", "/api/tidy", "/api/pivot", "/api/diagnostics", "/api/athletes", "/api/athletes/Bo", "/api/medalists?gender=Male&event=Judo", "/chart.svg", "/export"} {
				rec := serve(mux, http.MethodGet, target)
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldContainSubstring, `"code":"internal_error"`)
			}
		})
	})

	Convey("Given no tidy records", t, func() {
		deps := newMock()
		deps.records = nil
		mux := http.NewServeMux()
		api.NewServer(deps, mockStats{}).Register(context.Background(), mux)

		Convey("Then the chart is not found and tables are empty arrays", func() {
			So(serve(mux, http.MethodGet, "/chart.svg").Code, ShouldEqual, http.StatusNotFound)
			So(strings.TrimSpace(serve(mux, http.MethodGet, "/api/tidy").Body.String()), ShouldEqual, "[]")
			So(strings.TrimSpace(serve(mux, http.MethodGet, "/api/athletes").Body.String()), ShouldEqual, "[]")
		})
	})
}

func TestRegisterNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then Register panics", func() {
			So(func() { api.NewServer(newMock(), mockStats{}).Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
