package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"clinisum/internal/config"
	"clinisum/internal/extract"
	"clinisum/internal/metrics"
	"clinisum/internal/ocr"
	"clinisum/internal/pipeline"
	"clinisum/internal/scheduler"
	"clinisum/internal/server"
	"clinisum/internal/summarizer"
)

const (
	summaryCacheMaxEntries = 1024
	summaryCacheTTL        = time.Hour
	shutdownTimeout        = 10 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config",
			slog.Any("err", err))

		return
	}

	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required")

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder, err := metrics.New(ctx, cfg.DBPath, logger)
	if err != nil {
		slog.Error("Failed to initialize metrics recorder",
			slog.Any("err", err),
			slog.String("dbPath", cfg.DBPath))

		return
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Error("Failed to close metrics recorder",
				slog.Any("err", err),
				slog.String("dbPath", cfg.DBPath))
		}
	}()
	slog.Info("Metrics recorder is initialized")

	textSummarizer, err := summarizer.NewOpenAISummarizer(cfg.OpenAIAPIKey, cfg.SummaryModel)
	if err != nil {
		slog.Error("Failed to create summarizer",
			slog.Any("err", err))

		return
	}
	cached := summarizer.NewCached(textSummarizer, summaryCacheMaxEntries, summaryCacheTTL)
	slog.Info("Summarizer is initialized",
		slog.String("model", cfg.SummaryModel))

	pipe := pipeline.New(
		extract.NewFileExtractor(cfg.DocMinTextChars, logger),
		extract.NewURLExtractor(&http.Client{Timeout: cfg.FetchTimeout}, cfg.URLMinReadableChars, logger),
		extract.NewImageExtractor(initVision(cfg), initOCR(cfg, logger), logger),
		cached,
		pipeline.Policy{
			VisionConfidence: cfg.VisionConfidence,
			VisionModelLabel: cfg.VisionModel,
			TextConfidence:   cfg.TextConfidence,
			TextModelLabel:   cfg.SummaryModel,
		},
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	handler := server.NewHandler(pipe, recorder, cfg.RequestTimeout, logger)
	handler.RegisterRoutes(e.Group("/api"))

	sched := scheduler.New(ctx, recorder, logger)
	if err := sched.Start(); err != nil {
		slog.Error("Failed to start scheduler",
			slog.Any("err", err))

		return
	}
	defer sched.Stop()
	slog.Info("Scheduler is started")

	go func() {
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped",
				slog.Any("err", err))
		}
	}()
	slog.Info("Server is started",
		slog.String("addr", cfg.Addr))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	slog.Info("Exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down server",
			slog.Any("err", err))
	}
	slog.Info("Server is stopped")
}

func initVision(cfg config.Config) extract.VisionModel {
	if !cfg.VisionConfigured() {
		slog.Warn("VISION_MODEL is missing so image input will use OCR only")

		return nil
	}

	vision, err := summarizer.NewOpenAIVision(cfg.OpenAIAPIKey, cfg.VisionModel)
	if err != nil {
		slog.Error("Failed to create vision model so OCR will be used",
			slog.Any("err", err))

		return nil
	}

	slog.Info("Vision model is initialized",
		slog.String("model", cfg.VisionModel))

	return vision
}

func initOCR(cfg config.Config, logger *slog.Logger) extract.Recognizer {
	if !cfg.OCRConfigured() {
		slog.Warn("OCR_ENDPOINT is missing so OCR fallback is disabled")

		return nil
	}

	slog.Info("OCR client is initialized",
		slog.String("endpoint", cfg.OCREndpoint))

	return ocr.NewClient(
		&http.Client{Timeout: cfg.FetchTimeout},
		cfg.OCREndpoint,
		cfg.OCRLanguage,
		logger,
	)
}
