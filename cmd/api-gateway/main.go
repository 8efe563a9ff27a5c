package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/univisa-api/api/swagger"
	"github.com/noah-isme/univisa-api/internal/handler"
	"github.com/noah-isme/univisa-api/internal/rag"
	"github.com/noah-isme/univisa-api/internal/repository"
	"github.com/noah-isme/univisa-api/internal/service"
	"github.com/noah-isme/univisa-api/pkg/cache"
	"github.com/noah-isme/univisa-api/pkg/config"
	"github.com/noah-isme/univisa-api/pkg/database"
	"github.com/noah-isme/univisa-api/pkg/export"
	"github.com/noah-isme/univisa-api/pkg/jobs"
	"github.com/noah-isme/univisa-api/pkg/logger"
	"github.com/noah-isme/univisa-api/pkg/storage"
)

// @title UniVisa API
// @version 1.0.0
// @description Visa compliance risk engine for F-1 and J-1 students and their DSOs.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, "univisa", logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Risk.CacheTTL, logr, redisClient != nil)
	validate := validator.New()

	profileRepo := repository.NewStudentProfileRepository(db)
	cptRepo := repository.NewCPTRequestRepository(db)
	dsoRepo := repository.NewDSOUserRepository(db)
	exportRepo := repository.NewExportJobRepository(db)

	var insights service.InsightSource = service.NewStaticInsightSource(nil)
	if cfg.Risk.InsightsFile != "" {
		insights = service.NewFileInsightSource(cfg.Risk.InsightsFile, logr)
	}
	engine := service.NewRiskEngine(insights)

	studentSvc := service.NewStudentService(profileRepo, cacheSvc, validate, logr)
	riskSvc := service.NewRiskService(profileRepo, engine, cacheSvc, metricsSvc, cfg.Risk.CacheTTL, logr)
	cohortSvc := service.NewCohortService(profileRepo, riskSvc, cfg.Risk.CohortConcurrency, logr)
	cptSvc := service.NewCPTService(cptRepo, profileRepo, validate, logr)
	authSvc := service.NewAuthService(dsoRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	seeder := service.NewSeedService(profileRepo, dsoRepo, service.SeedOptions{
		DemoStudent: cfg.Seed.DemoStudent,
		DSOEmail:    cfg.Seed.DSOEmail,
		DSOPassword: cfg.Seed.DSOPassword,
		DSOName:     cfg.Seed.DSOName,
	}, logr)
	if err := seeder.Run(ctx); err != nil {
		return err
	}

	embedder, store, llm, credential := buildRAG(ctx, cfg.RAG, logr)
	pipeline := rag.NewPipeline(embedder, store, llm, rag.Config{TopK: cfg.RAG.TopK, CredentialName: credential}, logr)
	defer func() {
		if err := pipeline.Close(); err != nil {
			logr.Warn("close rag pipeline", zap.Error(err))
		}
	}()
	chatSvc := service.NewChatService(profileRepo, pipeline, metricsSvc, logr)

	ingestSvc := service.NewIngestService(embedder, store, validate, metricsSvc, service.IngestConfig{
		ChunkSize:    cfg.RAG.ChunkSize,
		ChunkOverlap: cfg.RAG.ChunkOverlap,
	}, logr)
	ingestQueue := jobs.NewQueue("ingest", ingestSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.RAG.IngestWorkers,
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	ingestSvc.AttachQueue(ingestQueue)

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return err
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(profileRepo, riskSvc, cohortSvc, fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())
	exportWorker := service.NewExportWorker(exportRepo, exportSvc, metricsSvc, cfg.Exports.WorkerRetries, logr)
	exportQueue := jobs.NewQueue("export", exportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	exportJobSvc := service.NewExportJobService(exportRepo, profileRepo, exportQueue, exportSvc, logr, service.ExportJobConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	})

	ingestQueue.Start(ctx)
	exportQueue.Start(ctx)
	defer ingestQueue.Stop()
	defer exportQueue.Stop()
	exportJobSvc.RecoverPendingJobs(ctx)
	exportJobSvc.StartCleanup(ctx)

	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}

	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	metricsHandler.WatchQueue("export", exportQueue)
	metricsHandler.WatchQueue("ingest", ingestQueue)

	router := newRouter(cfg, logr, metricsSvc, authSvc, handlers{
		auth:      handler.NewAuthHandler(authSvc),
		students:  handler.NewStudentHandler(studentSvc),
		risk:      handler.NewRiskHandler(riskSvc, exportSvc),
		chat:      handler.NewChatHandler(chatSvc),
		cpt:       handler.NewCPTHandler(cptSvc),
		dso:       handler.NewDSOHandler(cohortSvc),
		exports:   handler.NewExportHandler(exportJobSvc),
		documents: handler.NewDocumentHandler(ingestSvc),
		metrics:   metricsHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRAG assembles the advisor collaborators. Anything without credentials is
// returned as a nil interface so the pipeline can degrade on its own.
func buildRAG(ctx context.Context, cfg config.RAGConfig, logr *zap.Logger) (rag.Embedder, rag.VectorStore, rag.LLM, string) {
	openaiCfg := rag.OpenAIConfig{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
		MaxTokens:      cfg.MaxTokens,
	}

	var embedder rag.Embedder
	if cfg.OpenAIAPIKey != "" {
		embedder = rag.NewOpenAIEmbedder(openaiCfg)
	}

	var store rag.VectorStore
	if cfg.WeaviateURL != "" {
		weaviateStore, err := rag.NewWeaviateStore(cfg.WeaviateURL, cfg.WeaviateClass, logr)
		if err != nil {
			logr.Warn("weaviate unavailable, retrieval disabled", zap.Error(err))
		} else {
			schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := weaviateStore.EnsureSchema(schemaCtx); err != nil {
				logr.Warn("weaviate schema not ensured", zap.Error(err))
			}
			cancel()
			store = weaviateStore
		}
	}

	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return embedder, store, nil, "OPENAI_API_KEY"
		}
		return embedder, store, rag.NewOpenAILLM(openaiCfg), "OPENAI_API_KEY"
	default:
		llm := rag.NewAnthropicLLM(rag.AnthropicConfig{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.AnthropicModel,
			URL:       cfg.AnthropicBaseURL,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
		return embedder, store, llm, "ANTHROPIC_API_KEY"
	}
}
