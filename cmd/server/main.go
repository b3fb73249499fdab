package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"eventpages/config"
	_ "eventpages/docs" // swagger docs registration
	"eventpages/internal/adapters/auth"
	"eventpages/internal/adapters/blob"
	"eventpages/internal/adapters/email"
	"eventpages/internal/adapters/token"
	httpdelivery "eventpages/internal/delivery/http"
	"eventpages/internal/delivery/http/controllers"
	"eventpages/internal/delivery/http/middleware"
	"eventpages/internal/ratelimit"
	"eventpages/internal/repository/postgres"
	"eventpages/internal/services"
)

const (
	serviceTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
	reminderWindow  = 24 * time.Hour
)

// @title           eventpages API
// @version         1.0
// @description     Event pages, guest invites, and RSVP backend.

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	collabRepo := postgres.NewCollaboratorRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	pageConfigRepo := postgres.NewPageConfigRepository(db)
	previewRepo := postgres.NewPreviewTokenRepository(db)
	mediaRepo := postgres.NewMediaAssetRepository(db)
	outboxRepo := postgres.NewEmailOutboxRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(0)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	tokens := token.NewSource()
	mailer, err := email.NewMailer(cfg.Email, logger)
	if err != nil {
		logger.Error("init mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	ctx := context.Background()
	blobs, err := blob.NewMinioStore(ctx, cfg.Media)
	if err != nil {
		logger.Error("init blob store", "err", err)
		os.Exit(1)
	}

	var limiter ratelimit.Limiter
	switch cfg.Rate.Backend {
	case "redis":
		redisLimiter, err := ratelimit.NewRedisLimiter(cfg.Rate.RedisURL)
		if err != nil {
			logger.Error("init redis limiter", "err", err)
			os.Exit(1)
		}
		limiter = redisLimiter
	default:
		memLimiter := ratelimit.NewMemoryLimiter(time.Minute)
		defer memLimiter.Close()
		limiter = memLimiter
	}

	// Services
	emailService := services.NewEmailService(mailer, renderer, logger)
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry, emailService, logger)
	eventService := services.NewEventService(eventRepo, collabRepo, userRepo, pageConfigRepo, serviceTimeout)
	inviteService := services.NewInviteService(inviteRepo, eventRepo, collabRepo, userRepo,
		outboxRepo, tokens, cfg.PublicBaseURL, serviceTimeout)
	rsvpService := services.NewRSVPService(rsvpRepo, inviteRepo, eventRepo, collabRepo, userRepo,
		outboxRepo, tokens, serviceTimeout)
	pageConfigService := services.NewPageConfigService(pageConfigRepo, previewRepo, eventRepo, collabRepo,
		tokens, logger, serviceTimeout)
	mediaService := services.NewMediaService(mediaRepo, eventRepo, collabRepo, blobs,
		cfg.Media.MaxUploadBytes, logger, serviceTimeout)
	analyticsService := services.NewAnalyticsService(analyticsRepo, eventRepo, collabRepo,
		inviteRepo, rsvpRepo, tokens, serviceTimeout)

	// Outbox sweeper and housekeeping on a cron schedule.
	processor := services.NewOutboxProcessor(outboxRepo, inviteRepo, rsvpRepo, eventRepo,
		renderer, mailer, logger, cfg.Email.OutboxBatchSize, cfg.PublicBaseURL)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Email.OutboxSchedule, func() {
		sent, failed, err := processor.Run(ctx)
		if err != nil {
			logger.Error("outbox run", "err", err)
			return
		}
		if sent > 0 || failed > 0 {
			logger.Info("outbox run", "sent", sent, "failed", failed)
		}
	}); err != nil {
		logger.Error("schedule outbox sweeper", "err", err)
		os.Exit(1)
	}
	if _, err := scheduler.AddFunc("@hourly", func() {
		queued, err := processor.EnqueueEventReminders(ctx, reminderWindow)
		if err != nil {
			logger.Error("enqueue reminders", "err", err)
			return
		}
		if queued > 0 {
			logger.Info("reminders queued", "count", queued)
		}
		if n, err := previewRepo.DeleteExpired(ctx, time.Now()); err == nil && n > 0 {
			logger.Info("expired preview tokens removed", "count", n)
		}
	}); err != nil {
		logger.Error("schedule reminder fan-out", "err", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	mux := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:     logger,
		Verifier:   verifier,
		Limiter:    limiter,
		RateLimit:  cfg.Rate.Limit,
		RateWin:    cfg.Rate.Window,
		Auth:       controllers.NewAuthController(logger, authService),
		Events:     controllers.NewEventController(logger, eventService),
		Invites:    controllers.NewInviteController(logger, inviteService),
		RSVP:       controllers.NewRSVPController(logger, rsvpService),
		PageConfig: controllers.NewPageConfigController(logger, pageConfigService),
		Media:      controllers.NewMediaController(logger, mediaService, cfg.Media.MaxUploadBytes),
		Analytics:  controllers.NewAnalyticsController(logger, analyticsService),
	})

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
