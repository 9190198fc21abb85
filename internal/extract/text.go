package extract

import (
	"strings"

	"clinisum/internal/domain"
)

// Text is the identity extractor for raw text input.
func Text(input string) domain.ExtractedContent {
	return domain.ExtractedContent{
		Text:         strings.TrimSpace(input),
		SourceMethod: domain.SourceDirect,
	}
}
