// Package pipeline orchestrates the multi-modal summarization flow: classify
// the request, run the matching extractor, hold the content to the validity
// floor, summarize (unless the vision path already produced the summary), and
// tag the result with the confidence policy.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clinisum/internal/domain"
	"clinisum/internal/extract"
	"clinisum/internal/summarizer"
)

type Pipeline struct {
	file       *extract.FileExtractor
	url        *extract.URLExtractor
	image      *extract.ImageExtractor
	summarizer summarizer.Summarizer
	policy     Policy
	log        *slog.Logger
}

func New(
	file *extract.FileExtractor,
	url *extract.URLExtractor,
	image *extract.ImageExtractor,
	s summarizer.Summarizer,
	policy Policy,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		file:       file,
		url:        url,
		image:      image,
		summarizer: s,
		policy:     policy,
		log:        log,
	}
}

// Run executes one summarization request. Every failure is a *domain.Error;
// no failure path escapes unlabeled. Requests are independent: the pipeline
// holds no mutable state across calls.
func (p *Pipeline) Run(ctx context.Context, req domain.Request) (domain.Result, error) {
	started := time.Now()

	if err := classify(req); err != nil {
		return domain.Result{}, err
	}

	content, err := p.extract(ctx, req)
	if err != nil {
		return domain.Result{}, domain.AsError(err, domain.ErrNoUsableContent)
	}

	if err := validateContent(content); err != nil {
		return domain.Result{}, err
	}

	// The vision fast path: the findings are the summary, no second model
	// call.
	if content.SourceMethod == domain.SourceVision {
		return p.tag(domain.MethodVision, content.Text, started), nil
	}

	summary, err := p.summarizer.Summarize(ctx, summarizer.Input{Text: content.Text})
	if err != nil {
		p.log.ErrorContext(ctx, "Summarization failed",
			"error", err,
			"inputType", req.InputType,
			"sourceMethod", content.SourceMethod)

		return domain.Result{}, domain.NewError(
			domain.ErrSummarizationFailed, "summarization failed: %v", err)
	}

	return p.tag(domain.MethodText, summary, started), nil
}

func (p *Pipeline) extract(ctx context.Context, req domain.Request) (domain.ExtractedContent, error) {
	switch req.InputType {
	case domain.InputText:
		return extract.Text(req.Text), nil
	case domain.InputFile:
		return p.file.Extract(req.FileName, req.FileBytes)
	case domain.InputURL:
		return p.url.Extract(ctx, strings.TrimSpace(req.URL))
	default:
		return p.image.Extract(ctx, req.FileBytes)
	}
}

// validateContent is the single choke point every extraction path passes
// before the expensive summarization call.
func validateContent(content domain.ExtractedContent) *domain.Error {
	if strings.TrimSpace(content.Text) == "" {
		return domain.NewError(domain.ErrNoUsableContent,
			"no usable content could be extracted from the input")
	}

	return nil
}

func (p *Pipeline) tag(method domain.Method, summary string, started time.Time) domain.Result {
	confidence, model := p.policy.Tag(method)

	return domain.Result{
		Summary:          summary,
		Method:           method,
		Confidence:       confidence,
		ModelUsed:        model,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}
}
