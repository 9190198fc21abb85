package ocr

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientRecognize(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if lang := r.FormValue("language"); lang != "eng" {
			t.Errorf("unexpected language hint: %q", lang)
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			t.Errorf("read image part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer func() {
			_ = file.Close()
		}()

		got, _ := io.ReadAll(file)
		if !bytes.Equal(got, image) {
			t.Errorf("unexpected image bytes: %v", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  Rx: metformin 500mg  "}`))
	}))
	defer srv.Close()

	client := NewClient(&http.Client{Timeout: 5 * time.Second}, srv.URL, "eng", slog.Default())

	text, err := client.Recognize(t.Context(), image)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Rx: metformin 500mg" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestClientRecognizeEmptyTextIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer srv.Close()

	client := NewClient(&http.Client{Timeout: 5 * time.Second}, srv.URL, "eng", slog.Default())

	text, err := client.Recognize(t.Context(), []byte{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestClientRecognizeServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(&http.Client{Timeout: 5 * time.Second}, srv.URL, "eng", slog.Default())

	if _, err := client.Recognize(t.Context(), []byte{0x01}); err == nil {
		t.Fatalf("expected an error for a 500 response")
	}
}
