// Package server exposes the summarization entry point and the metrics read
// side over HTTP. It is the only public surface of the core; the referral UI
// is a client, nothing more.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"clinisum/internal/domain"
)

const maxUploadBytes = 20 << 20

// Runner executes one summarization request.
type Runner interface {
	Run(ctx context.Context, req domain.Request) (domain.Result, error)
}

// MetricsStore is the append-only sink plus its window aggregates.
type MetricsStore interface {
	Record(ctx context.Context, rec domain.Record) error
	CountInWindow(ctx context.Context, start, end time.Time) (int64, error)
	AvgProcessingTimeInWindow(ctx context.Context, start, end time.Time) (float64, error)
	AvgConfidenceInWindow(ctx context.Context, start, end time.Time) (float64, error)
}

type Handler struct {
	runner         Runner
	metrics        MetricsStore
	requestTimeout time.Duration
	log            *slog.Logger
}

func NewHandler(runner Runner, metrics MetricsStore, requestTimeout time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		runner:         runner,
		metrics:        metrics,
		requestTimeout: requestTimeout,
		log:            log,
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/summarize", h.Summarize)
	api.GET("/metrics/summary", h.MetricsSummary)
}

type summarizeRequest struct {
	InputType string `json:"inputType"`
	Text      string `json:"text"`
	URL       string `json:"url"`
}

type summarizeResponse struct {
	Success          bool   `json:"success"`
	Summary          string `json:"summary,omitempty"`
	Method           string `json:"method,omitempty"`
	Confidence       int64  `json:"confidence"`
	ModelUsed        string `json:"modelUsed,omitempty"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	Error            string `json:"error,omitempty"`
	ErrorDetail      string `json:"errorDetail,omitempty"`
}

func (h *Handler) Summarize(c echo.Context) error {
	requestID := uuid.NewString()
	c.Response().Header().Set("X-Request-ID", requestID)

	req, err := bindRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.requestTimeout)
	defer cancel()

	result, runErr := h.runner.Run(ctx, req)
	if runErr != nil {
		typed := domain.AsError(runErr, domain.ErrSummarizationFailed)

		h.log.WarnContext(ctx, "Summarization request failed",
			"requestID", requestID,
			"inputType", req.InputType,
			"kind", typed.Kind,
			"detail", typed.Detail)

		return c.JSON(statusForKind(typed.Kind), summarizeResponse{
			Success:     false,
			Error:       string(typed.Kind),
			ErrorDetail: typed.Detail,
		})
	}

	if recordErr := h.metrics.Record(ctx, domain.Record{
		InputType:        req.InputType,
		InputPreview:     domain.Preview(previewSource(req)),
		Summary:          result.Summary,
		Confidence:       result.Confidence,
		ModelUsed:        result.ModelUsed,
		ProcessingTimeMs: result.ProcessingTimeMs,
		CreatedAt:        time.Now().UTC(),
	}); recordErr != nil {
		// The summary is still delivered; the dashboard count is eventually
		// consistent at best anyway.
		h.log.ErrorContext(ctx, "Failed to record summary metrics",
			"error", recordErr,
			"requestID", requestID,
			"inputType", req.InputType)
	}

	return c.JSON(http.StatusOK, summarizeResponse{
		Success:          true,
		Summary:          result.Summary,
		Method:           string(result.Method),
		Confidence:       result.Confidence,
		ModelUsed:        result.ModelUsed,
		ProcessingTimeMs: result.ProcessingTimeMs,
	})
}

func bindRequest(c echo.Context) (domain.Request, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return bindMultipart(c)
	}

	var body summarizeRequest
	if err := c.Bind(&body); err != nil {
		return domain.Request{}, errors.New("request body is not valid JSON")
	}

	return domain.Request{
		InputType: domain.InputType(strings.TrimSpace(body.InputType)),
		Text:      body.Text,
		URL:       body.URL,
	}, nil
}

func bindMultipart(c echo.Context) (domain.Request, error) {
	inputType := domain.InputType(strings.TrimSpace(c.FormValue("inputType")))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.Request{}, errors.New("multipart request has no file part")
	}
	if fileHeader.Size > maxUploadBytes {
		return domain.Request{}, errors.New("uploaded file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.Request{}, errors.New("uploaded file could not be opened")
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return domain.Request{}, errors.New("uploaded file could not be read")
	}

	return domain.Request{
		InputType: inputType,
		FileBytes: data,
		FileName:  fileHeader.Filename,
	}, nil
}

func previewSource(req domain.Request) string {
	switch req.InputType {
	case domain.InputText:
		return strings.TrimSpace(req.Text)
	case domain.InputURL:
		return strings.TrimSpace(req.URL)
	default:
		return req.FileName
	}
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrEmptyInput, domain.ErrInvalidURL, domain.ErrUnsupportedFileType:
		return http.StatusBadRequest
	case domain.ErrInsufficientContent, domain.ErrNoUsableContent:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
