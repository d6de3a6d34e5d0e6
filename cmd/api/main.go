package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	_ "time/tzdata"

	"github.com/go-chi/httplog/v3"
	"github.com/shifttrack/timecard-backend-go/internal/config"
	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	appHTTP "github.com/shifttrack/timecard-backend-go/internal/handler/http"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/cron"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/database"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/jwt"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/metrics"
	"github.com/shifttrack/timecard-backend-go/internal/repository/memory"
	"github.com/shifttrack/timecard-backend-go/internal/repository/postgresql"
	timecardService "github.com/shifttrack/timecard-backend-go/internal/service/timecard"
	"golang.org/x/sync/errgroup"
)

const appName = "timecard-backend"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	anchor, err := cfg.Anchor()
	if err != nil {
		return err
	}

	var eventRepo timecard.EventRepository
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		slog.Warn("Using in-memory event store, data is lost on restart")
		eventRepo = memory.NewEventRepository()
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		eventRepo = postgresql.NewEventRepository(db)
	}

	m := metrics.New()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	svc := timecardService.NewTimecardService(eventRepo, timecardService.Settings{
		Location:          loc,
		Anchor:            anchor,
		OvertimeThreshold: cfg.OvertimeThreshold(),
		WeekWindowCount:   cfg.Timecard.WeekWindowCount,
		AutoClockOutAfter: cfg.Timecard.AutoClockOutAfter,
	}, m)

	timecardHandler := appHTTP.NewTimecardHandler(svc)
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Production:     cfg.IsProduction(),
		PunchRateLimit: cfg.App.PunchRateLimit,
	}, JWTService, m, timecardHandler)

	scheduler := cron.NewScheduler()
	cron.NewTimecardJobs(svc, cfg.Timecard.AutoClockOutInterval).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: httplog.SchemaECS.Concise(!cfg.IsProduction()).ReplaceAttr,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With(
		slog.String("app", appName),
		slog.String("env", cfg.App.Env),
	)
}
