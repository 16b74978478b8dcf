// Package pdf reads resume text out of uploaded PDFs and renders analysis
// reports back to PDF.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
)

var (
	// ErrInvalidPDF is returned for uploads that are not readable PDFs.
	ErrInvalidPDF = errors.New("not a readable pdf")
	// ErrNoText is returned for PDFs without an extractable text layer
	// (scanned images).
	ErrNoText = errors.New("pdf has no extractable text")
)

// ExtractText returns the plain text of every page, one page per block.
// Pages that fail to decode are skipped.
func ExtractText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrInvalidPDF, p)
		}
	}()

	doc, err := lpdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}

	var sb strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := plainText(page)
		if err != nil {
			continue
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}

	if sb.Len() == 0 {
		return "", ErrNoText
	}
	return sb.String(), nil
}

// plainText guards against the decoder panicking on malformed content
// streams.
func plainText(page lpdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode page: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}
