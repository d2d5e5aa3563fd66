package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/family-health-api/internal/auth"
	"github.com/redmonkez12/family-health-api/internal/clock"
	"github.com/redmonkez12/family-health-api/internal/config"
	"github.com/redmonkez12/family-health-api/internal/database"
	"github.com/redmonkez12/family-health-api/internal/familymember"
	"github.com/redmonkez12/family-health-api/internal/healthindicator"
	httpServer "github.com/redmonkez12/family-health-api/internal/http"
	"github.com/redmonkez12/family-health-api/internal/httputil"
	"github.com/redmonkez12/family-health-api/internal/logging"
	"github.com/redmonkez12/family-health-api/internal/medicalrecord"
	"github.com/redmonkez12/family-health-api/internal/memstore"
	"github.com/redmonkez12/family-health-api/internal/ownership"
	"github.com/redmonkez12/family-health-api/internal/prescription"
	"github.com/redmonkez12/family-health-api/internal/ratelimit"
	"github.com/redmonkez12/family-health-api/internal/user"
)

// @title           Family Health Records API
// @version         1.0
// @description     Family members, medical records, prescriptions and health indicators, scoped to the authenticated user.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// stores is the persistence backend selected by STORE_DRIVER.
type stores struct {
	users            auth.UserStore
	familyMembers    familymember.Store
	medicalRecords   medicalrecord.Store
	prescriptions    prescription.Store
	healthIndicators healthindicator.Store
	closer           io.Closer
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store,
		"token_format", cfg.Auth.TokenFormat,
	)

	ctx := context.Background()

	st, err := initStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	if st.closer != nil {
		defer st.closer.Close()
	}

	limiter, closeLimiter, err := initLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	defer closeLimiter()

	tokenService, err := initTokenService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.HashAlgo, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	// Services
	authService, err := auth.NewService(st.users, hasher, tokenService, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	resolver := ownership.NewResolver(st.familyMembers)

	// Handlers
	responder := httputil.NewResponder(cfg.Server.IsDevelopment())
	handlers := httpServer.Handlers{
		Auth:             auth.NewHandler(authService, responder),
		FamilyMembers:    familymember.NewHandler(familymember.NewService(st.familyMembers, resolver), responder),
		MedicalRecords:   medicalrecord.NewHandler(medicalrecord.NewService(st.medicalRecords, resolver), responder),
		Prescriptions:    prescription.NewHandler(prescription.NewService(st.prescriptions, resolver), responder),
		HealthIndicators: healthindicator.NewHandler(healthindicator.NewService(st.healthIndicators, resolver), responder),
	}
	authMiddleware := auth.NewMiddleware(tokenService, responder)

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, limiter, responder, logger)

	// Initialize HTTP server
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func initStores(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		db := memstore.New()
		return &stores{
			users:            db.Users(),
			familyMembers:    db.FamilyMembers(),
			medicalRecords:   db.MedicalRecords(),
			prescriptions:    db.Prescriptions(),
			healthIndicators: db.HealthIndicators(),
		}, nil
	}

	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &stores{
		users:            user.NewRepository(db),
		familyMembers:    familymember.NewRepository(db),
		medicalRecords:   medicalrecord.NewRepository(db),
		prescriptions:    prescription.NewRepository(db),
		healthIndicators: healthindicator.NewRepository(db),
		closer:           db,
	}, nil
}

// initLimiter uses Redis when configured so limits hold across replicas,
// and a per-process token bucket otherwise.
func initLimiter(ctx context.Context, cfg *config.Config, logger *logging.Logger) (ratelimit.Limiter, func(), error) {
	if !cfg.Redis.Enabled() {
		logger.Info("rate limiting in process")
		local := ratelimit.NewLocalLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, nil)
		sweepCtx, stop := context.WithCancel(ctx)
		go local.Run(sweepCtx, cfg.RateLimit.Window)
		return local, stop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	logger.Info("rate limiting via redis", "addr", cfg.Redis.Address())
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window), func() { _ = client.Close() }, nil
}

func initTokenService(cfg *config.Config) (auth.TokenService, error) {
	production := !cfg.Server.IsDevelopment()
	if cfg.Auth.TokenFormat == config.TokenPaseto {
		return auth.NewPasetoServiceFromHex(cfg.Auth.PasetoKeyHex, production, clock.System{})
	}
	return auth.NewJWTService(cfg.Auth.JWTSecret, production, clock.System{})
}
