package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/medalboard/internal/adapters/http/api"
	app "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/config"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

const medalsCSV = `medalist_name,male_judo,female_judo
Bo Park,silver,
Ann Lee,,bronze
Cy Tan,,gold
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medals.csv")
	if err := os.WriteFile(path, []byte(medalsCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("MEDALBOARD_ADDR", ":8080")
			_ = os.Setenv("MEDALBOARD_PREVIEW_ROWS", "10")
			_ = os.Setenv("MEDALBOARD_STRICT_KEYS", "true")
			defer func() {
				_ = os.Unsetenv("MEDALBOARD_ADDR")
				_ = os.Unsetenv("MEDALBOARD_PREVIEW_ROWS")
				_ = os.Unsetenv("MEDALBOARD_STRICT_KEYS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PreviewRows, convey.ShouldEqual, 10)
				convey.So(cfg.StrictKeys, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with custom options", func() {
				svc := app.New(
					app.WithDataPath("medals.csv"),
					app.WithPreviewRows(3),
					app.WithSessionTTL(time.Minute),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.DataPath = writeCSV(t)

		svc := app.New(app.WithLogger(logger.Nop()), app.WithDataPath(cfg.DataPath))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, svc, cfg, logger.Nop())
		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then the report page is served at the root", func() {
			w := get("/")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "2008 Olympic Medalists - Tidy Data Project")
		})

		convey.Convey("Then the API and docs routes are served", func() {
			convey.So(get("/api/tidy").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api/medalists?gender=Female&event=Judo").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then unknown paths are not found", func() {
			convey.So(get("/nope").Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("Then the raw limit honors the configured preview", func() {
			convey.So(get("/api/raw?limit=2000").Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metrics updates", func() {
			convey.Convey("Then they should not panic on an unstarted service", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(app.New()) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When the API server is built without limits", func() {
			convey.Convey("Then it should still be creatable", func() {
				svc := app.New()
				convey.So(api.NewServer(svc, svc), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the listen address is empty", func() {
			_ = os.Setenv("MEDALBOARD_ADDR", "")
			defer func() { _ = os.Unsetenv("MEDALBOARD_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the data file is missing", func() {
			svc := app.New(app.WithLogger(logger.Nop()), app.WithDataPath(filepath.Join(t.TempDir(), "absent.csv")))

			convey.Convey("Then the service refuses to start", func() {
				convey.So(svc.Start(context.Background()), convey.ShouldNotBeNil)
			})
		})
	})
}
