package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"clinisum/internal/domain"
)

// PlaceholderNoDocText is substituted when an office document's text layer is
// missing or below the floor. Summarizing "nothing found" beats hard-failing
// the referral workflow.
const PlaceholderNoDocText = "No readable text found in this Word document."

var supportedExtensions = []string{"txt", "doc", "docx"}

// FileExtractor dispatches on file extension and returns the text layer of
// the upload. It is safe to invoke with attacker-controlled bytes: documents
// are parsed, never executed.
type FileExtractor struct {
	minTextChars int
	log          *slog.Logger
}

func NewFileExtractor(minTextChars int, log *slog.Logger) *FileExtractor {
	return &FileExtractor{
		minTextChars: minTextChars,
		log:          log,
	}
}

func (e *FileExtractor) Extract(fileName string, data []byte) (domain.ExtractedContent, error) {
	switch ext := extensionOf(fileName); ext {
	case "", "txt":
		return domain.ExtractedContent{
			Text:         strings.TrimSpace(decodeUTF8(data)),
			SourceMethod: domain.SourceDirect,
		}, nil

	case "docx":
		text, err := docxText(data)
		if err != nil {
			return domain.ExtractedContent{}, domain.NewError(
				domain.ErrUnsupportedFileType,
				"file %q could not be read as a Word document: %v", fileName, err,
			)
		}

		return e.documentContent(fileName, text), nil

	case "doc":
		text, err := legacyDocText(data)
		if err != nil {
			return domain.ExtractedContent{}, domain.NewError(
				domain.ErrUnsupportedFileType,
				"file %q could not be read as a Word document: %v", fileName, err,
			)
		}

		return e.documentContent(fileName, text), nil

	default:
		return domain.ExtractedContent{}, domain.NewError(
			domain.ErrUnsupportedFileType,
			"file type %q is not supported; supported types: %s",
			ext, strings.Join(supportedExtensions, ", "),
		)
	}
}

// documentContent applies the document floor: a text layer below the minimum
// becomes the explicit placeholder instead of an error or a silent empty
// string.
func (e *FileExtractor) documentContent(fileName, text string) domain.ExtractedContent {
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) < e.minTextChars {
		e.log.Warn("Document text layer below floor, using placeholder",
			"fileName", fileName,
			"chars", utf8.RuneCountInString(text),
			"minTextChars", e.minTextChars)

		text = PlaceholderNoDocText
	}

	return domain.ExtractedContent{
		Text:         text,
		SourceMethod: domain.SourceDocumentParse,
	}
}

// extensionOf returns the lowercased text after the final dot, or "" when the
// name has no extension.
func extensionOf(fileName string) string {
	fileName = strings.TrimSpace(fileName)

	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}

	return strings.ToLower(fileName[idx+1:])
}

func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
