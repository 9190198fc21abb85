package domain

import "time"

// InputType selects which handling mode applies to a summarization request.
type InputType string

const (
	InputText  InputType = "text"
	InputFile  InputType = "file"
	InputURL   InputType = "url"
	InputImage InputType = "image"
)

// SourceMethod records which extraction strategy produced the content.
type SourceMethod string

const (
	SourceDirect        SourceMethod = "direct"
	SourceDocumentParse SourceMethod = "document_parse"
	SourceWebScrape     SourceMethod = "web_scrape"
	SourceVision        SourceMethod = "vision"
	SourceOCR           SourceMethod = "ocr"
)

// Method tags which code path produced the final summary.
type Method string

const (
	MethodText   Method = "text"
	MethodVision Method = "vision"
)

// Request is an immutable summarization request. Exactly the fields relevant
// to InputType are populated; pipeline stages never mutate it.
type Request struct {
	InputType InputType
	Text      string
	FileBytes []byte
	FileName  string
	URL       string
}

// ExtractedContent is the plain-text output of an extractor.
type ExtractedContent struct {
	Text         string
	SourceMethod SourceMethod
}

// Result is the outcome of one successful pipeline run.
type Result struct {
	Summary          string
	Method           Method
	Confidence       int64
	ModelUsed        string
	ProcessingTimeMs int64
}

// Record is the append-only metrics row written after a successful run.
type Record struct {
	InputType        InputType
	InputPreview     string
	Summary          string
	Confidence       int64
	ModelUsed        string
	ProcessingTimeMs int64
	CreatedAt        time.Time
}

const previewMaxChars = 100

// Preview truncates s to the length stored in a Record's InputPreview.
func Preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewMaxChars {
		return s
	}

	return string(runes[:previewMaxChars])
}
