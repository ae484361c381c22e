package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-portal/internal/config"
	"clinic-portal/internal/database"
	"clinic-portal/internal/handler"
	"clinic-portal/internal/middleware"
	"clinic-portal/internal/notify"
	"clinic-portal/internal/repository"
	"clinic-portal/internal/router"
	"clinic-portal/internal/service"
	"clinic-portal/internal/session"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	for _, warning := range cfg.Warnings() {
		slog.Warn("configuration", "warning", warning)
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), database.Options{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewResetTokenRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	clinicRepo := repository.NewClinicRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	cleanupFuncs := []func(){db.Close}

	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	resolver := session.NewResolver(codec, userRepo)
	cookie := session.CookieOptions{Secure: cfg.IsProduction(), TTL: codec.TTL()}

	notifier, closeNotifier := buildNotifier(cfg)
	if closeNotifier != nil {
		cleanupFuncs = append(cleanupFuncs, closeNotifier)
	}

	auditService := service.NewAuditService(auditRepo)
	authService := service.NewAuthService(userRepo, codec, auditService)
	resetService := service.NewResetService(userRepo, resetRepo, notifier, auditService, cfg.AppBaseURL, cfg.ResetTokenTTL)
	accessService := service.NewAccessService(userRepo, permissionRepo)
	staffService := service.NewStaffService(userRepo, auditService)
	patientService := service.NewPatientService(userRepo, accessService, auditService)
	doctorService := service.NewDoctorService(userRepo)
	clinicService := service.NewClinicService(clinicRepo, auditService)
	appointmentService := service.NewAppointmentService(appointmentRepo, userRepo, accessService, auditService)

	appRouter := router.New(cfg,
		middleware.NewSessionMiddleware(resolver),
		middleware.NewRouteGate(resolver),
		accessService,
		router.Handlers{
			Auth:        handler.NewAuthHandler(authService, resetService, cookie),
			Staff:       handler.NewStaffHandler(staffService),
			Patient:     handler.NewPatientHandler(patientService),
			Doctor:      handler.NewDoctorHandler(doctorService),
			Clinic:      handler.NewClinicHandler(clinicService),
			Appointment: handler.NewAppointmentHandler(appointmentService),
			Audit:       handler.NewAuditHandler(auditService),
			Page:        handler.NewPageHandler(),
			Health:      handler.NewHealthHandler(db),
		},
	)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go resetService.StartSweeper(sweepCtx, cfg.ResetSweepInterval)
	cleanupFuncs = append(cleanupFuncs, sweepCancel)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: cleanupFuncs}, nil
}

// buildNotifier picks the reset delivery targets from config, falling back to
// the log when none is set.
func buildNotifier(cfg *config.Config) (service.ResetNotifier, func()) {
	var targets notify.Fanout
	var closer func()

	if cfg.RedisAddr != "" {
		client := notify.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		targets = append(targets, notify.NewRedisStream(client, cfg.ResetOutboxStream))
		closer = func() { _ = client.Close() }
		slog.Info("reset delivery via redis stream", "addr", cfg.RedisAddr, "stream", cfg.ResetOutboxStream)
	}
	if cfg.ResetWebhookURL != "" {
		targets = append(targets, notify.NewWebhook(cfg.ResetWebhookURL, 10*time.Second))
		slog.Info("reset delivery via webhook")
	}
	if len(targets) == 0 {
		return notify.LogNotifier{}, nil
	}
	return targets, closer
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}

	slog.Info("server stopped")
	return nil
}
