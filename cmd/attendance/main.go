package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gosuda/attendance/internal/api/ws"
	"github.com/gosuda/attendance/internal/config"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
	"github.com/gosuda/attendance/internal/identity"
	slackmsg "github.com/gosuda/attendance/internal/messenger/slack"
	"github.com/gosuda/attendance/internal/metrics"
	"github.com/gosuda/attendance/internal/notify"
	"github.com/gosuda/attendance/internal/server"
	redisstore "github.com/gosuda/attendance/internal/store/redis"
	"github.com/gosuda/attendance/internal/workforce"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogging(cfg.Log)

	var opts []workforce.Option

	// Slack leave notifications and denied-admission alerts.
	if cfg.Slack.Enabled() {
		registry := notify.NewRegistry()
		registry.Register(slackmsg.NewFromToken(cfg.Slack.BotToken))
		notifier := notify.New(registry, notify.Target{
			Platform:  "slack",
			ChannelID: cfg.Slack.Channel,
		}).WithAlerts(notify.Target{
			Platform:  "slack",
			ChannelID: cfg.Slack.AlertChannel,
		})
		opts = append(opts, workforce.WithNotifier(notifier), workforce.WithAlerter(notifier))
		log.Info().
			Str("channel", cfg.Slack.Channel).
			Str("alert_channel", cfg.Slack.AlertChannel).
			Msg("Slack notifications enabled")
	}

	// Redis fan-out for the live map. The hub answers snapshots from the
	// service it publishes for, so it reads svc lazily.
	var (
		svc *workforce.Service
		hub *ws.Hub
	)
	if cfg.Redis.Addr != "" {
		pubsub, redisErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if redisErr != nil {
			return redisErr
		}
		defer pubsub.Close()

		hub = ws.NewHub(pubsub, ws.SnapshotFunc(func() []domain.PositionSample {
			return svc.CurrentPositions()
		}))
		opts = append(opts, workforce.WithPublisher(hub))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("live position stream enabled")
	}

	svc = workforce.New(workforce.Config{
		Gate: gate.Config{
			NetworkPrefix: cfg.Office.NetworkPrefix,
			Office:        domain.Coordinate{Lat: cfg.Office.Lat, Lng: cfg.Office.Lng},
			RadiusMeters:  cfg.Office.RadiusMeters,
		},
		Identity: identity.Config{
			IDPattern:           cfg.Registration.IDPattern,
			DefaultDepartment:   cfg.Registration.DefaultDepartment,
			DefaultCompensation: cfg.Registration.DefaultCompensation,
			DefaultOffice:       domain.Coordinate{Lat: cfg.Office.Lat, Lng: cfg.Office.Lng},
		},
		AuditRetention:    cfg.Retention.AuditEntries,
		PositionRetention: cfg.Retention.PositionSamples,
		RecordRejections:  cfg.Retention.RecordRejections,
	}, opts...)

	// Seed the bootstrap administrator.
	if cfg.Admin.Enabled() {
		admin, provErr := svc.Provision(ctx, domain.Principal{
			ID:             cfg.Admin.ID,
			Name:           cfg.Admin.Name,
			Email:          cfg.Admin.Email,
			Role:           domain.RoleAdmin,
			Department:     "Administration",
			OfficeLocation: domain.Coordinate{Lat: cfg.Office.Lat, Lng: cfg.Office.Lng},
		}, cfg.Admin.Secret)
		if provErr != nil {
			return provErr
		}
		log.Info().Str("principal", admin.ID).Msg("bootstrap administrator provisioned")
	} else {
		log.Warn().Msg("no bootstrap administrator configured; admin routes are unreachable until one is provisioned")
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, svc, hub)

	metricsSrv := &http.Server{
		Addr:              cfg.Server.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.MetricsAddr).Msg("starting metrics server")
		if mErr := metricsSrv.ListenAndServe(); mErr != nil && !errors.Is(mErr, http.ErrServerClosed) {
			log.Error().Err(mErr).Msg("metrics server error")
		}
	}()

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("office", cfg.Office.Name).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if mErr := metricsSrv.Shutdown(shutdownCtx); mErr != nil {
		log.Warn().Err(mErr).Msg("metrics server shutdown")
	}
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

// setupLogging configures the global zerolog logger. With a log file set,
// output goes to both stdout and a rotated file.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stdout
	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, rotator)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
