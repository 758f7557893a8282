package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"auditrag/internal/domain"
)

// FSSource reads corpus documents from a directory tree. Files are
// matched against doublestar include/exclude patterns relative to the
// root; the extension decides the extractor.
type FSSource struct {
	root     string
	includes []string
	excludes []string
	logger   *slog.Logger
}

func NewFSSource(root string, includes, excludes []string, logger *slog.Logger) *FSSource {
	if len(includes) == 0 {
		includes = []string{"**/*.txt", "**/*.md", "**/*.pdf"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FSSource{
		root:     root,
		includes: includes,
		excludes: excludes,
		logger:   logger,
	}
}

// List walks the root and extracts text from every matching file.
// Unreadable or unsupported files are logged and skipped, never fatal:
// one bad PDF must not block the rest of the corpus. Results come back
// sorted by name so rebuilds are deterministic.
func (s *FSSource) List() ([]domain.RawDocument, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("document root not accessible: %w", err)
	}

	var docs []domain.RawDocument
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return rerr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if s.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.shouldInclude(relPath) || s.shouldExclude(relPath) {
			return nil
		}

		text, mime, xerr := Extract(path)
		if xerr != nil {
			s.logger.Warn("skipping unreadable document", "path", relPath, "error", xerr)
			return nil
		}
		if text == "" {
			s.logger.Warn("skipping document with no extractable text", "path", relPath)
			return nil
		}

		docs = append(docs, domain.RawDocument{
			Name:     relPath,
			MimeType: mime,
			Text:     text,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (s *FSSource) shouldInclude(path string) bool {
	for _, pattern := range s.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (s *FSSource) shouldExclude(path string) bool {
	for _, pattern := range s.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
