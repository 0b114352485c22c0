// Package ingest turns uploaded files and fetched pages into the plain text
// stored as source content.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

var (
	ErrNotPDF       = errors.New("file is not a PDF document")
	ErrEmptyContent = errors.New("no text could be extracted")
)

// Document is the text extracted from a file.
type Document struct {
	Text  string
	Pages int
}

// DetectMIME sniffs the media type of data.
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsPDF reports whether data looks like a PDF file.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is("application/pdf")
}

// ExtractPDF returns the plain text of every readable page, pages separated
// by a blank line. Unreadable pages are skipped.
func ExtractPDF(data []byte) (Document, error) {
	if !IsPDF(data) {
		return Document{}, ErrNotPDF
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("read pdf: %w", err)
	}

	var pages []string
	total := r.NumPage()
	for n := 1; n <= total; n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return Document{Pages: total}, ErrEmptyContent
	}
	return Document{Text: strings.Join(pages, "\n\n"), Pages: total}, nil
}
