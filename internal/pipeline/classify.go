package pipeline

import (
	"net/url"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"

	"clinisum/internal/domain"
)

var httpURLRe = mustHTTPURLRe()

func mustHTTPURLRe() *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme("https?://")
	if err != nil {
		panic(err)
	}

	return re
}

// classify performs the cheap upfront go/no-go validation for a request.
// Pure: no side effects, no I/O.
func classify(req domain.Request) *domain.Error {
	switch req.InputType {
	case domain.InputText:
		if strings.TrimSpace(req.Text) == "" {
			return domain.NewError(domain.ErrEmptyInput, "text input is empty")
		}

	case domain.InputFile:
		if len(req.FileBytes) == 0 {
			return domain.NewError(domain.ErrEmptyInput, "no file was uploaded")
		}
		if strings.TrimSpace(req.FileName) == "" {
			return domain.NewError(domain.ErrEmptyInput, "uploaded file has no name")
		}

	case domain.InputURL:
		if err := validateURL(req.URL); err != nil {
			return err
		}

	case domain.InputImage:
		if len(req.FileBytes) == 0 {
			return domain.NewError(domain.ErrEmptyInput, "no image was uploaded")
		}

	default:
		return domain.NewError(domain.ErrEmptyInput,
			"unknown input type %q", req.InputType)
	}

	return nil
}

func validateURL(raw string) *domain.Error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.NewError(domain.ErrInvalidURL, "URL is empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return domain.NewError(domain.ErrInvalidURL, "URL %q is malformed: %v", raw, err)
	}
	if parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return domain.NewError(domain.ErrInvalidURL,
			"URL %q must be absolute with an http or https scheme", raw)
	}

	if httpURLRe.FindString(raw) != raw {
		return domain.NewError(domain.ErrInvalidURL, "URL %q is malformed", raw)
	}

	return nil
}
