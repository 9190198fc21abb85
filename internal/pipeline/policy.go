package pipeline

import "clinisum/internal/domain"

// Policy maps the method that produced a summary to the caller-visible
// confidence value and model label. Two fixed bands, injected rather than
// hard-coded, so the numbers can be tuned without touching pipeline logic.
type Policy struct {
	VisionConfidence int64
	VisionModelLabel string
	TextConfidence   int64
	TextModelLabel   string
}

func (p Policy) Tag(method domain.Method) (int64, string) {
	if method == domain.MethodVision {
		return p.VisionConfidence, p.VisionModelLabel
	}

	return p.TextConfidence, p.TextModelLabel
}
