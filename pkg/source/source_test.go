package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"notes.txt", FormatText, true},
		{"README.MD", FormatMarkdown, true},
		{"page.htm", FormatHTML, true},
		{"paper.pdf", FormatPDF, true},
		{"data.json", "", false},
		{"Makefile", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatOf(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "a.md"), "a")
	writeFile(t, filepath.Join(dir, "sub", "c.html"), "<p>c</p>")
	writeFile(t, filepath.Join(dir, "skip.json"), "{}")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "c.html"),
	}, files)

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	writeFile(t, path, "<html><body><p>Hello</p></body></html>")

	doc, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, FormatHTML, doc.Format)
	assert.Equal(t, "<html><body><p>Hello</p></body></html>", doc.Content, "markup is kept")

	_, err = Load(filepath.Join(dir, "data.json"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestLoadInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	writeFile(t, path, "not a pdf")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAllSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.txt"), "plain text")
	writeFile(t, filepath.Join(dir, "broken.pdf"), "not a pdf")

	logger, hook := test.NewNullLogger()
	docs, err := LoadAll(dir, logger)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "plain text", docs[0].Content)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, filepath.Join(dir, "broken.pdf"), hook.LastEntry().Data["path"])
}
