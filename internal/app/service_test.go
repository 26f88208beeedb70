package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/okian/medalboard/internal/adapters/export"
	"github.com/okian/medalboard/internal/adapters/repository"
	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/tidy"
	"github.com/okian/medalboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const medalsCSV = `medalist_name,male_judo,female_judo,female_archery
Ann Lee,,bronze,gold
Bo Park,silver,,
Cy Tan,,gold,
Dee Moss,,bronze,
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medals.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	opts = append([]service.Option{
		service.WithLogger(logger.Nop()),
		service.WithDataPath(writeCSV(t, medalsCSV)),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over a valid dataset", t, func() {
		svc := startService(t)
		defer svc.Stop()

		Convey("Then it reports itself started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["rawRows"], ShouldEqual, 4)
			So(stats["activeSessions"], ShouldEqual, 0)
		})

		Convey("Then starting twice is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given a service over a missing file", t, func() {
		svc := service.New(
			service.WithLogger(logger.Nop()),
			service.WithDataPath(filepath.Join(t.TempDir(), "absent.csv")),
		)

		Convey("Then Start fails with a load error", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given strict keys and a key without a separator", t, func() {
		svc := service.New(
			service.WithLogger(logger.Nop()),
			service.WithDataPath(writeCSV(t, "medalist_name,decathlon\nAnn,gold\n")),
			service.WithStrictKeys(true),
		)

		Convey("Then Start fails with ErrMalformedKey", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, tidy.ErrMalformedKey), ShouldBeTrue)
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))

		Convey("Then queries fail with ErrNotStarted", func() {
			_, err := svc.Tidy(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.NewSession()
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			svc.Stop()
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t, service.WithPreviewRows(2))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When the report is built with an empty selection", func() {
			v, err := svc.Report(ctx, model.Selection{})

			Convey("Then previews and defaults are filled in", func() {
				So(err, ShouldBeNil)
				So(v.RawHead, ShouldHaveLength, 2)
				So(v.Selection, ShouldResemble, model.Selection{Athlete: "Bo Park", Gender: "Male", Event: "Judo"})
				So(v.Achievements, ShouldResemble, []model.Achievement{{Event: "Judo", Medal: "Silver"}})
			})
		})

		Convey("When an athlete is looked up", func() {
			got, err := svc.Athlete(ctx, "Ann Lee")

			Convey("Then achievements come back in table order", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []model.Achievement{
					{Event: "Judo", Medal: "Bronze"},
					{Event: "Archery", Medal: "Gold"},
				})
			})
		})

		Convey("When women's judo medalists are looked up", func() {
			got, err := svc.Medalists(ctx, "Female", "Judo")

			Convey("Then gold leads and bronzes keep their order", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []model.Medalist{
					{Athlete: "Cy Tan", Medal: "Gold"},
					{Athlete: "Ann Lee", Medal: "Bronze"},
					{Athlete: "Dee Moss", Medal: "Bronze"},
				})
			})
		})

		Convey("When the pivot is requested", func() {
			table, err := svc.Pivot(ctx)

			Convey("Then counts match the tidy rows", func() {
				So(err, ShouldBeNil)
				So(table.Events, ShouldResemble, []string{"Archery", "Judo"})
				n, _ := table.Count("Judo", "Female")
				So(n, ShouldEqual, 3)
			})
		})

		Convey("When the raw head is requested", func() {
			head, err := svc.RawHead(ctx, 1)

			Convey("Then it keeps the header and cuts the rows", func() {
				So(err, ShouldBeNil)
				So(head.Columns[0], ShouldEqual, model.IdentifierColumn)
				So(head.Len(), ShouldEqual, 1)
			})
		})

		Convey("When diagnostics are requested", func() {
			d, err := svc.Diagnostics(ctx)

			Convey("Then they account for the dropped cells", func() {
				So(err, ShouldBeNil)
				So(d.MeltedRows, ShouldEqual, 12)
				So(d.TidyRows, ShouldEqual, 5)
				So(d.MalformedKeys, ShouldBeEmpty)
			})
		})

		Convey("When the chart and an export are written", func() {
			var svg, csv bytes.Buffer
			So(svc.Chart(ctx, &svg), ShouldBeNil)
			So(svc.Export(ctx, &csv, export.CSV), ShouldBeNil)

			Convey("Then both carry the data", func() {
				So(svg.String(), ShouldContainSubstring, "<svg")
				So(csv.String(), ShouldStartWith, "Athlete,Event,Medal,Gender\n")
				So(csv.String(), ShouldContainSubstring, "Bo Park,Judo,Silver,Male")
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t, service.WithSessionTTL(time.Hour), service.WithMaxSessions(5))
		defer svc.Stop()

		Convey("When two sessions save selections", func() {
			a, err := svc.NewSession()
			So(err, ShouldBeNil)
			b, err := svc.NewSession()
			So(err, ShouldBeNil)
			So(svc.SaveSelection(a, model.Selection{Athlete: "Ann Lee"}), ShouldBeNil)
			So(svc.SaveSelection(b, model.Selection{Athlete: "Cy Tan"}), ShouldBeNil)

			Convey("Then each keeps its own selection", func() {
				selA, ok := svc.Selection(a)
				So(ok, ShouldBeTrue)
				So(selA.Athlete, ShouldEqual, "Ann Lee")
				selB, _ := svc.Selection(b)
				So(selB.Athlete, ShouldEqual, "Cy Tan")
				So(svc.GetStats()["activeSessions"], ShouldEqual, 2)
			})
		})
	})
}
