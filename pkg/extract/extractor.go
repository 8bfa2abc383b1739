// Package extract turns stored resume documents into plain text.
package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"maplehr-backend/internal/domain"

	"github.com/unidoc/unipdf/v3/common/license"
)

var (
	ErrUnsupportedFormat = errors.New("extract: unsupported document format")
	ErrNoText            = domain.ErrNoText
)

const mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type format int

const (
	formatUnknown format = iota
	formatPDF
	formatDOCX
	formatText
)

// Extractor dispatches on file extension, then on MIME type.
type Extractor struct{}

var _ domain.TextExtractor = (*Extractor)(nil)

// New returns an Extractor. A non-empty unidocKey is registered as the unipdf metered license.
func New(unidocKey string) (*Extractor, error) {
	if unidocKey != "" {
		if err := license.SetMeteredKey(unidocKey); err != nil {
			return nil, err
		}
	}
	return &Extractor{}, nil
}

func (e *Extractor) Extract(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch detectFormat(fileName, mimeType) {
	case formatPDF:
		text, err = pdfText(data)
	case formatDOCX:
		text, err = docxText(data)
	case formatText:
		text = plainText(data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func detectFormat(fileName, mimeType string) format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")) {
	case "pdf":
		return formatPDF
	case "docx":
		return formatDOCX
	case "txt", "text", "md":
		return formatText
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == "application/pdf":
		return formatPDF
	case mt == mimeDOCX:
		return formatDOCX
	case strings.HasPrefix(mt, "text/"):
		return formatText
	}
	return formatUnknown
}

func plainText(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
