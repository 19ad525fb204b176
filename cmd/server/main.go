package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	rediscache "aria/internal/cache/redis"
	"aria/internal/config"
	"aria/internal/decoder"
	"aria/internal/extractor"
	"aria/internal/extractor/claude"
	"aria/internal/extractor/gemini"
	"aria/internal/extractor/openai"
	"aria/internal/extractor/vertex"
	"aria/internal/handler"
	"aria/internal/logger"
	"aria/internal/minter"
	"aria/internal/notify"
	"aria/internal/port"
	"aria/internal/publisher"
	"aria/internal/repository/postgres"
	"aria/internal/router"
	"aria/internal/scanner"
	"aria/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize extraction
	var closers []func() error
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()
	registerExtractors(ctx, &closers)

	checks := map[string]handler.ReadinessCheck{}
	ext, err := buildExtractor(ctx, cfg, log, &closers, checks)
	if err != nil {
		return err
	}

	// Initialize publishing and minting
	pub, err := publisher.New(ctx, &cfg.Publisher)
	if err != nil {
		return fmt.Errorf("failed to initialize publisher: %w", err)
	}
	mint := minter.NewInvoker(&cfg.Mint, log)

	// Initialize the pending-mint registry
	var pendingRepo port.PendingMintRepository
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		pendingRepo = postgres.NewPendingMintRepo(db)
		checks["database"] = db.PingContext
	} else {
		log.Warn().Msg("database disabled; failed mints will only be logged and alerted")
	}

	notifier, err := notify.New(ctx, &cfg.Notify, log)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Initialize services
	attestationSvc := service.NewAttestationService(
		decoder.New(),
		scanner.New(log),
		ext,
		pub,
		mint,
		pendingRepo,
		notifier,
		service.OptionsFromConfig(cfg),
		log,
	)

	// Initialize handlers
	attestationH := handler.NewAttestationHandler(attestationSvc, cfg.Server.MaxUploadMB<<20)
	healthH := handler.NewHealthHandler(checks)

	// Setup router
	r := router.Setup(log, cfg.CORS.AllowedOrigins, attestationH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Port).Str("publisher", cfg.Publisher.Provider).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func registerExtractors(ctx context.Context, closers *[]func() error) {
	extractor.RegisterProvider("gemini", func(c *config.ExtractorProviderConfig) (port.Extractor, error) {
		return gemini.NewExtractor(c), nil
	})
	extractor.RegisterProvider("claude", func(c *config.ExtractorProviderConfig) (port.Extractor, error) {
		return claude.NewExtractor(c), nil
	})
	extractor.RegisterProvider("openai", func(c *config.ExtractorProviderConfig) (port.Extractor, error) {
		return openai.NewExtractor(c), nil
	})
	extractor.RegisterProvider("vertex", func(c *config.ExtractorProviderConfig) (port.Extractor, error) {
		e, err := vertex.NewExtractor(ctx, c)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, e.Close)
		return e, nil
	})
}

// buildExtractor creates the provider chain, wrapped in fallback when more than
// one provider is configured and in the Redis cache when enabled.
func buildExtractor(ctx context.Context, cfg *config.Config, log zerolog.Logger, closers *[]func() error, checks map[string]handler.ReadinessCheck) (port.Extractor, error) {
	chain := cfg.Extractor.Chain()
	extractors := make([]port.Extractor, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, pc := range chain {
		e, err := extractor.NewExtractor(pc)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s extractor: %w", pc.Provider, err)
		}
		extractors = append(extractors, e)
		names = append(names, pc.Provider)
	}

	var ext port.Extractor = extractors[0]
	if len(extractors) > 1 {
		ext = extractor.NewFallbackExtractor(extractors, names, log)
	}
	log.Info().Strs("providers", names).Msg("extractor chain ready")

	switch cfg.Cache.Provider {
	case "", "none":
		return ext, nil
	case "redis":
		cache, err := rediscache.NewCache(ctx, &cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize extraction cache: %w", err)
		}
		*closers = append(*closers, cache.Close)
		checks["cache"] = cache.Ping
		return extractor.NewCachedExtractor(ext, cache, cfg.Cache.TTL, log), nil
	default:
		return nil, fmt.Errorf("unknown cache provider: %s", cfg.Cache.Provider)
	}
}
