package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPreviewTruncates(t *testing.T) {
	if got := Preview("short"); got != "short" {
		t.Fatalf("unexpected preview: %q", got)
	}

	long := strings.Repeat("é", 150)
	got := Preview(long)
	if len([]rune(got)) != 100 {
		t.Fatalf("unexpected preview length: %d", len([]rune(got)))
	}
}

func TestErrorCarriesKindThroughWrapping(t *testing.T) {
	inner := NewError(ErrFetchFailed, "fetch %q: unexpected status %d", "https://example.com", 503)
	wrapped := fmt.Errorf("run pipeline: %w", inner)

	kind, ok := KindOf(wrapped)
	if !ok || kind != ErrFetchFailed {
		t.Fatalf("unexpected kind: %q ok=%v", kind, ok)
	}

	if !strings.Contains(wrapped.Error(), "503") {
		t.Fatalf("expected detail to survive wrapping: %q", wrapped.Error())
	}
}

func TestAsErrorWrapsUnlabeledFailures(t *testing.T) {
	typed := AsError(errors.New("boom"), ErrSummarizationFailed)

	if typed.Kind != ErrSummarizationFailed || typed.Detail != "boom" {
		t.Fatalf("unexpected typed error: %+v", typed)
	}

	already := NewError(ErrEmptyInput, "text input is empty")
	if got := AsError(already, ErrSummarizationFailed); got.Kind != ErrEmptyInput {
		t.Fatalf("expected existing kind to be preserved, got %q", got.Kind)
	}
}
