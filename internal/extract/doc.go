package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/richardlehane/mscfb"
)

const maxDocumentXMLBytes = 32 << 20

// docxText returns the text layer of a .docx upload: the w:t runs of
// word/document.xml, with paragraph boundaries preserved as newlines.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open document part: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", errors.New("word/document.xml is missing")
	}
	defer func() {
		_ = docXML.Close()
	}()

	dec := xml.NewDecoder(io.LimitReader(docXML, maxDocumentXMLBytes))

	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, tokErr := dec.Token()
		if tokErr == io.EOF {
			break
		}
		if tokErr != nil {
			return "", fmt.Errorf("decode document part: %w", tokErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

const legacyDocMinRunChars = 4

// legacyDocText salvages the readable text of a legacy OLE .doc file by
// scanning printable runs of the WordDocument stream. Not a full parser: the
// goal is a usable text layer, with the document floor catching the rest.
func legacyDocText(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open compound file: %w", err)
	}

	for entry, entryErr := doc.Next(); entryErr == nil; entry, entryErr = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}

		stream, readErr := io.ReadAll(entry)
		if readErr != nil {
			return "", fmt.Errorf("read WordDocument stream: %w", readErr)
		}

		return printableRuns(stream), nil
	}

	return "", errors.New("WordDocument stream is missing")
}

// printableRuns joins runs of printable single-byte characters of at least
// legacyDocMinRunChars, dropping the control and pointer noise around them.
// NUL bytes are transparent, so UTF-16LE text layers fold down to their
// ASCII bytes instead of breaking every run at length one.
func printableRuns(stream []byte) string {
	var (
		sb  strings.Builder
		run []byte
	)

	flush := func() {
		if len(run) >= legacyDocMinRunChars {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.Write(run)
		}
		run = run[:0]
	}

	for _, b := range stream {
		if b == 0 {
			continue
		}

		r := rune(b)
		if r == '\r' {
			r = '\n'
		}

		if r == '\n' || r == '\t' || (r < unicode.MaxASCII && unicode.IsPrint(r)) {
			run = append(run, byte(r))
			continue
		}

		flush()
	}
	flush()

	return sb.String()
}
