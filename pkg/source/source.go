// Package source finds and reads input documents for batch extraction.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Format is the kind of file a document was read from.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

var formats = map[string]Format{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".pdf":      FormatPDF,
}

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Document is an input document. HTML documents keep their markup; the
// extractor strips page chrome itself.
type Document struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Format  Format `json:"format"`
	Content string `json:"-"`
}

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, bool) {
	f, ok := formats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Discover returns the supported files under dir in lexical order.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := FormatOf(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads one document.
func Load(path string) (*Document, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	text := string(content)
	if format == FormatPDF {
		text, err = PDFText(content)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract text from %s", path)
		}
	}

	return &Document{
		ID:      uuid.New().String(),
		Path:    path,
		Format:  format,
		Content: text,
	}, nil
}

// LoadAll discovers and loads every document under dir. Unreadable files
// are logged and skipped.
func LoadAll(dir string, logger *logrus.Logger) ([]*Document, error) {
	files, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(files))
	for _, file := range files {
		doc, err := Load(file)
		if err != nil {
			logger.WithError(err).WithField("path", file).Error("Failed to load document")
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
