package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extract returns the plain text of a file plus its MIME type, picking
// the extractor by extension.
func Extract(path string) (text, mimeType string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		text, err = readPlain(path)
		return text, "text/plain", err
	case ".md":
		text, err = readPlain(path)
		return text, "text/markdown", err
	case ".pdf":
		text, err = readPDF(path)
		return text, "application/pdf", err
	default:
		return "", "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
