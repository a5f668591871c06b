package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zatekoja/rfp-response-pipeline/internal/adapters/cache"
	"github.com/zatekoja/rfp-response-pipeline/internal/adapters/database"
	"github.com/zatekoja/rfp-response-pipeline/internal/adapters/events"
	"github.com/zatekoja/rfp-response-pipeline/internal/adapters/search"
	"github.com/zatekoja/rfp-response-pipeline/internal/adapters/storage"
	"github.com/zatekoja/rfp-response-pipeline/internal/api/handlers"
	"github.com/zatekoja/rfp-response-pipeline/internal/api/routes"
	"github.com/zatekoja/rfp-response-pipeline/internal/application/services"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/repositories"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/extraction"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/openai"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/redis"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/rfp-response-pipeline/internal/infrastructure/observability"
	"github.com/zatekoja/rfp-response-pipeline/pkg/config"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it the service runs uncached and
	// without event publishing
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
	}

	objectStore, err := storage.NewGCSAdapter(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize object storage")
	}
	defer objectStore.Close()
	logger.Info().Str("bucket", cfg.Storage.DocumentsBucket).Msg("object storage initialized")

	// Repositories
	documentRepo := database.NewDocumentAdapter(pgClient)
	processRepo := database.NewProcessAdapter(pgClient)
	auditRepo := database.NewAuditAdapter(pgClient)

	var knowledgeRepo repositories.KnowledgeRepository = database.NewKnowledgeAdapter(pgClient)
	if cacheProvider != nil {
		knowledgeRepo = database.NewCachedKnowledgeAdapter(knowledgeRepo, cacheProvider)
		logger.Info().Msg("knowledge repository wrapped with caching layer")
	}

	// Knowledge search index (optional)
	var searcher services.KnowledgeSearcher
	if cfg.Typesense.Enabled {
		typesenseClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Typesense client, search disabled")
		} else {
			adapter := search.NewTypesenseAdapter(typesenseClient)
			if err := adapter.InitSchema(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to init Typesense schema")
			}
			searcher = adapter
			logger.Info().Msg("knowledge search initialized")
		}
	}

	completionClient, err := openai.NewClient(&cfg.Completion)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize completion client")
	}
	defer completionClient.Close()

	extractionClient, err := extraction.NewHTTPClient(&cfg.Extraction)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize extraction client")
	}

	signedURLTTL := time.Duration(cfg.Storage.SignedURLTTLMins) * time.Minute

	// Services
	knowledgeService := services.NewKnowledgeService(knowledgeRepo, searcher)
	auditService := services.NewAuditService(auditRepo)
	archiveService := services.NewArchiveService(objectStore)
	uploadService := services.NewUploadService(documentRepo, objectStore, extractionClient, signedURLTTL)
	pipelineService := services.NewPipelineService(
		processRepo,
		documentRepo,
		completionClient,
		knowledgeService,
		auditService,
		archiveService,
		eventBus,
		metrics,
		signedURLTTL,
	)

	// HTTP surface
	rfpHandler := handlers.NewRFPHandler(uploadService, pipelineService)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService)
	streamHandler := handlers.NewStreamHandler(eventBus)
	router := routes.NewRouter(rfpHandler, knowledgeHandler, streamHandler, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
}
