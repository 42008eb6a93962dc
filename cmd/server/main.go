package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/config"
	"github.com/ErlanBelekov/barbershop-booking/internal/email"
	"github.com/ErlanBelekov/barbershop-booking/internal/events"
	"github.com/ErlanBelekov/barbershop-booking/internal/health"
	"github.com/ErlanBelekov/barbershop-booking/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/barbershop-booking/internal/infrastructure/redis"
	ctxlog "github.com/ErlanBelekov/barbershop-booking/internal/log"
	"github.com/ErlanBelekov/barbershop-booking/internal/metrics"
	"github.com/ErlanBelekov/barbershop-booking/internal/session"
	httptransport "github.com/ErlanBelekov/barbershop-booking/internal/transport/http"
	"github.com/ErlanBelekov/barbershop-booking/internal/transport/http/handler"
	"github.com/ErlanBelekov/barbershop-booking/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	deps := []health.Dependency{{Name: "postgres", Pinger: pool}}

	// Events
	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.NATSURL != "" {
		nc, err := events.NewNATSPublisher(cfg.NATSURL, logger)
		if err != nil {
			stop()
			log.Fatalf("nats: %v", err)
		}
		defer nc.Close()
		publisher = nc
		deps = append(deps, health.Dependency{Name: "nats", Pinger: nc})
	}

	// Validation throttle
	opts := httptransport.Options{
		InternalAPIToken:  cfg.InternalAPIToken,
		TrustedProxies:    cfg.TrustedProxies,
		ValidateRateLimit: cfg.ValidateRateLimit,
	}
	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		opts.ValidateLimiter = redis.NewFixedWindowLimiter(rdb, "booking:validate")
		deps = append(deps, health.Dependency{
			Name:   "redis",
			Pinger: health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		})
	} else {
		logger.Warn("REDIS_URL not set, per-IP throttle on link validation disabled")
	}

	loc := cfg.Location()
	sessions := session.NewManager([]byte(cfg.JWTSecret), session.DefaultTTL)
	opts.Sessions = sessions

	tokenRepo := postgres.NewBookingTokenRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)

	notifier := email.NewShopNotifier(email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger), loc)

	// Booking links
	linkUsecase := usecase.NewBookingLinkUsecase(tokenRepo, catalogRepo, publisher, logger, cfg.BookingBaseURL)
	linkHandler := handler.NewBookingLinkHandler(linkUsecase, sessions, !cfg.IsLocal(), logger)

	// Availability
	availabilityUsecase := usecase.NewAvailabilityUsecase(appointmentRepo, catalogRepo, loc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, loc, logger)

	// Appointments
	appointmentUsecase := usecase.NewAppointmentUsecase(appointmentRepo, customerRepo, catalogRepo, publisher, notifier, logger)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer, deps...)

	router, err := httptransport.NewRouter(logger, httptransport.Handlers{
		BookingLink:  linkHandler,
		Availability: availabilityHandler,
		Appointment:  appointmentHandler,
	}, opts)
	if err != nil {
		stop()
		log.Fatalf("router: %v", err)
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.WithCORS(router, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	appointmentUsecase.Wait()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
