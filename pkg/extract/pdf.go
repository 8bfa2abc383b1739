package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// pdfText concatenates the text of every readable page. Unreadable pages are skipped.
func pdfText(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", ErrNoText
	}

	var (
		sb      strings.Builder
		lastErr error
	)
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			lastErr = err
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			lastErr = err
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			lastErr = err
			continue
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	if sb.Len() == 0 && lastErr != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", lastErr)
	}
	return sb.String(), nil
}
