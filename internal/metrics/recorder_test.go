package metrics

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"clinisum/internal/domain"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()

	r, err := New(t.Context(), filepath.Join(t.TempDir(), "test.sqlite"), slog.Default())
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("close recorder: %v", err)
		}
	})

	return r
}

func TestRecorderWindowAggregates(t *testing.T) {
	r := newTestRecorder(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []domain.Record{
		{InputType: domain.InputText, InputPreview: "a", Summary: "- a",
			Confidence: 80, ModelUsed: "text-model", ProcessingTimeMs: 100, CreatedAt: base},
		{InputType: domain.InputImage, InputPreview: "b", Summary: "- b",
			Confidence: 90, ModelUsed: "vision-model", ProcessingTimeMs: 300, CreatedAt: base.Add(time.Hour)},
		{InputType: domain.InputURL, InputPreview: "c", Summary: "- c",
			Confidence: 70, ModelUsed: "text-model", ProcessingTimeMs: 500, CreatedAt: base.Add(48 * time.Hour)},
	}

	for _, rec := range records {
		if err := r.Record(t.Context(), rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	start := base.Add(-time.Hour)
	end := base.Add(24 * time.Hour)

	count, err := r.CountInWindow(t.Context(), start, end)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("unexpected count: %d", count)
	}

	avgTime, err := r.AvgProcessingTimeInWindow(t.Context(), start, end)
	if err != nil {
		t.Fatalf("avg processing time: %v", err)
	}
	if avgTime != 200 {
		t.Fatalf("unexpected average processing time: %v", avgTime)
	}

	avgConfidence, err := r.AvgConfidenceInWindow(t.Context(), start, end)
	if err != nil {
		t.Fatalf("avg confidence: %v", err)
	}
	if avgConfidence != 85 {
		t.Fatalf("unexpected average confidence: %v", avgConfidence)
	}
}

func TestRecorderEmptyWindow(t *testing.T) {
	r := newTestRecorder(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	count, err := r.CountInWindow(t.Context(), start, end)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("unexpected count: %d", count)
	}

	avgTime, err := r.AvgProcessingTimeInWindow(t.Context(), start, end)
	if err != nil {
		t.Fatalf("avg processing time: %v", err)
	}
	if avgTime != 0 {
		t.Fatalf("unexpected average for empty window: %v", avgTime)
	}
}

func TestRecorderRejectsEmptySummary(t *testing.T) {
	r := newTestRecorder(t)

	err := r.Record(t.Context(), domain.Record{
		InputType:    domain.InputText,
		InputPreview: "x",
		Summary:      "   ",
	})
	if err == nil {
		t.Fatalf("expected an error for an empty summary")
	}
}

func TestRecorderTruncatesPreview(t *testing.T) {
	r := newTestRecorder(t)

	long := make([]byte, 0, 300)
	for range 300 {
		long = append(long, 'x')
	}

	if err := r.Record(t.Context(), domain.Record{
		InputType:    domain.InputText,
		InputPreview: string(long),
		Summary:      "- long",
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	var preview string
	if err := r.db.QueryRowContext(t.Context(),
		"select input_preview from summary_records limit 1").Scan(&preview); err != nil {
		t.Fatalf("query preview: %v", err)
	}

	if len(preview) != 100 {
		t.Fatalf("unexpected preview length: %d", len(preview))
	}
}
