package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"clinisum/internal/domain"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	maxFetchBodyBytes = 10 << 20
)

// URLExtractor fetches a remote resource and reduces it to visible text.
// HTML pages are stripped of markup; syndication feeds are reduced to their
// item titles and descriptions.
type URLExtractor struct {
	client      *http.Client
	feedParser  *gofeed.Parser
	minReadable int
	log         *slog.Logger
}

func NewURLExtractor(client *http.Client, minReadable int, log *slog.Logger) *URLExtractor {
	return &URLExtractor{
		client:      client,
		feedParser:  gofeed.NewParser(),
		minReadable: minReadable,
		log:         log,
	}
}

func (e *URLExtractor) Extract(ctx context.Context, rawURL string) (domain.ExtractedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrInvalidURL, "URL %q is not fetchable: %v", rawURL, err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrFetchFailed, "fetch %q: %v", rawURL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			e.log.ErrorContext(ctx, "Failed to close response body",
				"error", closeErr,
				"url", rawURL)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrFetchFailed, "fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBodyBytes))
	if err != nil {
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrFetchFailed, "read %q: %v", rawURL, err)
	}

	text := e.readableText(ctx, rawURL, resp.Header.Get("Content-Type"), body)
	if utf8.RuneCountInString(text) < e.minReadable {
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrInsufficientContent,
			"page at %q has %d readable characters, need at least %d",
			rawURL, utf8.RuneCountInString(text), e.minReadable)
	}

	return domain.ExtractedContent{
		Text:         text,
		SourceMethod: domain.SourceWebScrape,
	}, nil
}

func (e *URLExtractor) readableText(ctx context.Context, rawURL, contentType string, body []byte) string {
	if looksLikeFeed(contentType, body) {
		text, err := e.feedText(body)
		if err == nil {
			return text
		}

		e.log.WarnContext(ctx, "Feed-shaped body did not parse, falling back to markup strip",
			"error", err,
			"url", rawURL)
	}

	return visibleText(body)
}

// feedText joins the titles and descriptions of every feed item.
func (e *URLExtractor) feedText(body []byte) (string, error) {
	feed, err := e.feedParser.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	var parts []string
	if title := strings.TrimSpace(feed.Title); title != "" {
		parts = append(parts, title)
	}

	for _, item := range feed.Items {
		if title := strings.TrimSpace(item.Title); title != "" {
			parts = append(parts, title)
		}
		if desc := strings.TrimSpace(item.Description); desc != "" {
			parts = append(parts, visibleText([]byte(desc)))
		}
	}

	return collapseWhitespace(strings.Join(parts, "\n")), nil
}

// visibleText strips markup down to what a reader would see, with whitespace
// collapsed.
func visibleText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return collapseWhitespace(string(body))
	}

	doc.Find("script, style, noscript, head").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	return collapseWhitespace(text)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func looksLikeFeed(contentType string, body []byte) bool {
	contentType = strings.ToLower(contentType)
	if strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml") {
		return true
	}

	head := body
	if len(head) > 512 {
		head = head[:512]
	}

	lowered := strings.ToLower(string(head))

	return strings.Contains(lowered, "<rss") || strings.Contains(lowered, "<feed")
}
