package extract

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinisum/internal/domain"
)

func newTestURLExtractor(minReadable int) *URLExtractor {
	return NewURLExtractor(&http.Client{Timeout: 5 * time.Second}, minReadable, slog.Default())
}

func TestURLExtractorStripsMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>ignored</title></head><body>
			<script>var tracking = true;</script>
			<h1>Discharge   note</h1>
			<p>BP 140/90, started lisinopril.</p>
		</body></html>`))
	}))
	defer srv.Close()

	content, err := newTestURLExtractor(10).Extract(t.Context(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if content.SourceMethod != domain.SourceWebScrape {
		t.Fatalf("unexpected source method: %q", content.SourceMethod)
	}

	if content.Text != "Discharge note BP 140/90, started lisinopril." {
		t.Fatalf("unexpected text: %q", content.Text)
	}

	if strings.Contains(content.Text, "tracking") {
		t.Fatalf("expected script content to be stripped: %q", content.Text)
	}
}

func TestURLExtractorRejectsShortBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>loading...</body></html>`))
	}))
	defer srv.Close()

	_, err := newTestURLExtractor(50).Extract(t.Context(), srv.URL)
	if err == nil {
		t.Fatalf("expected an error for a near-empty page")
	}

	if kind, ok := domain.KindOf(err); !ok || kind != domain.ErrInsufficientContent {
		t.Fatalf("unexpected error kind: %v", err)
	}
}

func TestURLExtractorReportsStatusOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestURLExtractor(50).Extract(t.Context(), srv.URL)
	if err == nil {
		t.Fatalf("expected an error for a 404 response")
	}

	if kind, ok := domain.KindOf(err); !ok || kind != domain.ErrFetchFailed {
		t.Fatalf("unexpected error kind: %v", err)
	}

	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected error to name the status, got %q", err.Error())
	}
}

func TestURLExtractorParsesFeedBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
			<rss version="2.0"><channel>
				<title>Clinic bulletin</title>
				<item><title>Flu season advisory</title>
					<description>&lt;p&gt;Vaccination clinic open daily.&lt;/p&gt;</description></item>
			</channel></rss>`))
	}))
	defer srv.Close()

	content, err := newTestURLExtractor(10).Extract(t.Context(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(content.Text, "Clinic bulletin") ||
		!strings.Contains(content.Text, "Flu season advisory") ||
		!strings.Contains(content.Text, "Vaccination clinic open daily.") {
		t.Fatalf("unexpected feed text: %q", content.Text)
	}

	if strings.Contains(content.Text, "<p>") {
		t.Fatalf("expected markup stripped from description: %q", content.Text)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := collapseWhitespace("  a\n\n b\t\tc  ")
	if got != "a b c" {
		t.Fatalf("unexpected result: %q", got)
	}
}
