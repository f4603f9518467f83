package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfPages extracts per-page text from PDF bytes so sections keep the page
// number of their first occurrence.
func pdfPages(content []byte) (pages []pageText, err error) {
	// The pdf package panics on some malformed files; fold that into the
	// extraction error instead of crashing the pipeline.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not lose the rest of the
			// document; record it as empty and move on.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, pageText{number: i, text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text")
	}
	return pages, nil
}
