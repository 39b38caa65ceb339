package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/api/router"
	"github.com/reflectcare/reflection-platform/internal/compliance"
	appconfig "github.com/reflectcare/reflection-platform/internal/config"
	"github.com/reflectcare/reflection-platform/internal/extract"
	"github.com/reflectcare/reflection-platform/internal/http/handlers"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/reflection"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting reflection platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"provider", cfg.LLMProvider,
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", "error", err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	openaiClient, err := ai.NewOpenAIClient(cfg.OpenAIAPIKey)
	if err != nil {
		logger.Error("failed to create OpenAI client", "error", err.Error())
		os.Exit(1)
	}

	// Vision and transcription always go through OpenAI; the selected
	// provider only serves text completions.
	var completion ai.CompletionClient = openaiClient
	completionModel := cfg.OpenAIModel
	structureModel := cfg.OpenAIStructureModel
	loopModel := cfg.OpenAIVisionModel
	if cfg.LLMProvider == "gemini" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create Gemini client", "error", err.Error())
			os.Exit(1)
		}
		defer gemini.Close()
		completion = gemini
		completionModel = cfg.GeminiModel
		structureModel = cfg.GeminiModel
		loopModel = cfg.GeminiModel
	}

	awsCfg, err := appconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err.Error())
		os.Exit(1)
	}
	s3Client := s3.NewFromConfig(awsCfg)
	fetcher := extract.NewArtifactFetcher(&http.Client{Timeout: 60 * time.Second}, s3Client)

	pipelineMetrics := metrics.NewPipelineMetrics(nil)

	vision := extract.NewVisionExtractor(openaiClient, cfg.OpenAIVisionModel)
	extractor := extract.NewExtractor(fetcher, vision, logger, pipelineMetrics)
	audio := extract.NewAudioExtractor(fetcher, openaiClient, logger)

	synth := reflection.NewSynthesizer(completion, completionModel, structureModel, cfg.MaxInputChars, logger, pipelineMetrics)
	refiner := reflection.NewSelfPlayRefiner(completion, completionModel, cfg.SelfPlayTurnTimeout, logger, pipelineMetrics)
	tagger := reflection.NewCPDTagger(completion, completionModel, logger)
	loopGen := reflection.NewLearningLoopGenerator(completion, loopModel, cfg.LearningLoopTimeout, logger, pipelineMetrics)

	// Persistence is optional: without a database the rating endpoint
	// is absent and audit logging is a no-op.
	var auditSvc *compliance.AuditService
	var reinforceHandler *handlers.ReinforceHandler
	var auditEventsHandler *handlers.AuditEventsHandler
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open audit database", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		auditSvc = compliance.NewAuditService(db)
		auditEventsHandler = handlers.NewAuditEventsHandler(auditSvc, logger)

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()
		store := reflection.NewPostgresRatingStore(pool, logger)
		reinforceHandler = handlers.NewReinforceHandler(store, logger)
	}

	routerCfg := &router.Config{
		Logger:              logger,
		ExtractHandler:      handlers.NewExtractHandler(extractor, synth, auditSvc, pipelineMetrics, logger),
		TranscribeHandler:   handlers.NewTranscribeHandler(audio, auditSvc, pipelineMetrics, logger),
		StructureHandler:    handlers.NewStructureHandler(synth, auditSvc, pipelineMetrics, logger),
		SelfPlayHandler:     handlers.NewSelfPlayHandler(refiner, logger),
		ReinforceHandler:    reinforceHandler,
		CPDHandler:          handlers.NewCPDHandler(tagger, logger),
		LearningLoopHandler: handlers.NewLearningLoopHandler(loopGen, logger),
		ExportHandler:       handlers.NewExportHandler(auditSvc, logger),
		AuditEventsHandler:  auditEventsHandler,
		HealthHandler:       handlers.NewHealthHandler(cfg.LLMProvider, true),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RequestCeiling:      cfg.RequestCeiling,
		RateLimitPerSecond:  2,
		RateLimitBurst:      5,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestCeiling + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("server stopped")
}
