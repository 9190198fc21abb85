package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinisum/internal/domain"
)

// Record appends one summary record. Records are never updated or deleted.
func (r *Recorder) Record(ctx context.Context, rec domain.Record) error {
	summary := strings.TrimSpace(rec.Summary)
	if summary == "" {
		return errors.New("summary is empty")
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `insert into summary_records
	(input_type, input_preview, summary, confidence, model_used, processing_time_ms, created_at)
	values (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		string(rec.InputType),
		domain.Preview(rec.InputPreview),
		summary,
		rec.Confidence,
		rec.ModelUsed,
		rec.ProcessingTimeMs,
		createdAt,
	)

	return err
}

// CountInWindow reports the number of records created in [start, end).
func (r *Recorder) CountInWindow(ctx context.Context, start, end time.Time) (int64, error) {
	query := `select count(*) from summary_records
	where created_at >= ? and created_at < ?`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return count, nil
}

// AvgProcessingTimeInWindow averages processing time over [start, end).
// Returns 0 for an empty window.
func (r *Recorder) AvgProcessingTimeInWindow(ctx context.Context, start, end time.Time) (float64, error) {
	return r.avgInWindow(ctx, "processing_time_ms", start, end)
}

// AvgConfidenceInWindow averages confidence over [start, end). Returns 0 for
// an empty window.
func (r *Recorder) AvgConfidenceInWindow(ctx context.Context, start, end time.Time) (float64, error) {
	return r.avgInWindow(ctx, "confidence", start, end)
}

func (r *Recorder) avgInWindow(ctx context.Context, column string, start, end time.Time) (float64, error) {
	// column is one of two compile-time constants, never user input.
	query := fmt.Sprintf(`select coalesce(avg(%s), 0) from summary_records
	where created_at >= ? and created_at < ?`, column)

	var avg float64
	if err := r.db.QueryRowContext(ctx, query, start, end).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return avg, nil
}
