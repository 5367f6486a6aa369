package text

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMinContentLength is the extracted length below which a warning is logged.
const DefaultMinContentLength = 100

var markupPattern = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// LooksLikeMarkup reports whether s contains HTML tags.
func LooksLikeMarkup(s string) bool {
	return markupPattern.MatchString(s)
}

const blacklistSelector = "script, style, noscript, template, nav, header, footer, aside, iframe, form, button, svg, " +
	"[role=navigation], [role=banner], [role=contentinfo], [role=dialog], [role=alertdialog], " +
	"[role=search], [role=menu], [aria-hidden=true]"

var chromeClassPattern = regexp.MustCompile(`(?i)(banner|modal|popup|cookie|share|social|newsletter|breadcrumb|sidebar|advert|\bads?\b)`)

const paragraphSelector = "p, blockquote, li, dd, figcaption"

var containerSelectors = []string{
	"article", "main", "[role=main]", "#content", "#main-content", "#main",
	".content", ".post-content", ".entry-content", ".article-body",
}

// ContentExtractor pulls readable body text out of HTML.
type ContentExtractor struct {
	logger             *logrus.Logger
	minParagraphLength int
	minContentLength   int
}

// ContentOption configures a ContentExtractor.
type ContentOption func(*ContentExtractor)

// WithLogger sets the logger used for extraction warnings.
func WithLogger(logger *logrus.Logger) ContentOption {
	return func(e *ContentExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMinParagraphLength sets the minimum length of a kept paragraph.
func WithMinParagraphLength(n int) ContentOption {
	return func(e *ContentExtractor) {
		if n > 0 {
			e.minParagraphLength = n
		}
	}
}

// WithMinContentLength sets the length below which extraction is reported as short.
func WithMinContentLength(n int) ContentOption {
	return func(e *ContentExtractor) {
		if n > 0 {
			e.minContentLength = n
		}
	}
}

// NewContentExtractor creates a new content extractor
func NewContentExtractor(opts ...ContentOption) *ContentExtractor {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := &ContentExtractor{
		logger:             logger,
		minParagraphLength: DefaultMinLength,
		minContentLength:   DefaultMinContentLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the body text of markup. Input without tags is returned
// unchanged. Short results are logged and still returned.
func (e *ContentExtractor) Extract(markup string) (string, error) {
	if !LooksLikeMarkup(markup) {
		return markup, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse HTML content")
	}

	doc.Find(blacklistSelector).Remove()
	doc.Find("[class], [id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		switch goquery.NodeName(s) {
		case "html", "body", "main", "article":
			return false
		}
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		return chromeClassPattern.MatchString(class + " " + id)
	}).Remove()

	fragments := e.paragraphs(doc)
	source := "paragraphs"
	if len(fragments) == 0 {
		fragments = containerText(doc)
		source = "containers"
	}

	content := strings.Join(fragments, " ")
	if utf8.RuneCountInString(content) < e.minContentLength {
		e.logger.WithFields(logrus.Fields{
			"markup_length":  len(markup),
			"content_length": utf8.RuneCountInString(content),
			"fragments":      len(fragments),
			"source":         source,
		}).Warn("Extracted content is shorter than expected")
	}
	return content, nil
}

func (e *ContentExtractor) paragraphs(doc *goquery.Document) []string {
	var fragments []string
	doc.Find(paragraphSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(paragraphSelector).Length() > 0 {
			return
		}
		fragment := Normalize(spacedText(s))
		if IsSubstantial(fragment, e.minParagraphLength) {
			fragments = append(fragments, fragment)
		}
	})
	return fragments
}

func containerText(doc *goquery.Document) []string {
	for _, selector := range containerSelectors {
		var fragments []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if fragment := Normalize(spacedText(s)); fragment != "" {
				fragments = append(fragments, fragment)
			}
		})
		if len(fragments) > 0 {
			return fragments
		}
	}
	return nil
}

// spacedText is Selection.Text with a space between element boundaries, so
// "<li>a</li><li>b</li>" reads "a b" rather than "ab".
func spacedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				b.WriteString(c.Text())
				return
			}
			b.WriteByte(' ')
			walk(c)
			b.WriteByte(' ')
		})
	}
	walk(s)
	return b.String()
}
