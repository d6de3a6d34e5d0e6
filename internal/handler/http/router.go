package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shifttrack/timecard-backend-go/internal/handler/http/middleware"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/jwt"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/metrics"
	"github.com/unrolled/secure"
)

// RouterOptions carries the transport settings read from config.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Production     bool
	PunchRateLimit int // requests per IP per minute
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, m *metrics.Metrics, timecardHandler TimecardHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        opts.Production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !opts.Production,
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(secureMiddleware.Handler)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(m.Middleware)

	r.Handle("/metrics", m.Handler())

	punchLimit := opts.PunchRateLimit
	if punchLimit <= 0 {
		punchLimit = 30
	}
	punchLimiter := httprate.Limit(punchLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.With(punchLimiter).Post("/punches", timecardHandler.Punch)

			r.Route("/windows", func(r chi.Router) {
				r.Get("/weeks", timecardHandler.ListWeekWindows)
				r.Get("/pay-periods", timecardHandler.ListPayPeriods)
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				// Own data or manager
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireSelfOrManager)
					r.Get("/status", timecardHandler.GetStatus)
					r.Get("/timecard", timecardHandler.GetTimecard)
				})

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Put("/timecard/{date}/clock-out", timecardHandler.Amend)
					r.Get("/corrections", timecardHandler.ListCorrections)
				})
			})

			// Manager only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/team/summary", timecardHandler.TeamSummary)
				r.Get("/exports/timecards", timecardHandler.Export)
			})
		})
	})
	return r
}
