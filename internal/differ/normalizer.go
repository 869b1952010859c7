package differ

import (
	"bytes"
	"regexp"
	"strings"
	"sync"

	"pagewatcher/internal/common"

	"github.com/PuerkitoBio/goquery"
)

// Normalizer reduces raw fetched content to the comparable text the
// fingerprint is computed over. HTML is stripped down to its visible text;
// volatile markup (scripts, styles) is removed before any extraction rule
// runs, so churn in ad slots or inline state blobs does not register as a
// content change.
type Normalizer struct {
	regexpCache sync.Map // pattern string -> *regexp.Regexp
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// ExtractionRule narrows normalization to the fragment of the page that
// matters. Selector is a CSS selector applied to HTML documents; Regexp keeps
// the concatenated matches of a pattern applied to the normalized text.
type ExtractionRule struct {
	Selector string
	Regexp   string
}

// Normalize converts raw content into canonical comparable text.
// HTML content types (or anything that looks like markup) are reduced to
// visible text line-per-line; everything else gets whitespace normalization.
func (n *Normalizer) Normalize(content []byte, contentType string, rule ExtractionRule) (string, error) {
	var text string
	if isHTML(contentType, content) {
		htmlText, err := n.normalizeHTML(content, rule.Selector)
		if err != nil {
			return "", err
		}
		text = htmlText
	} else {
		text = normalizeText(string(content))
	}

	if rule.Regexp != "" {
		extracted, err := n.applyRegexp(text, rule.Regexp)
		if err != nil {
			return "", err
		}
		text = extracted
	}

	return text, nil
}

func (n *Normalizer) normalizeHTML(content []byte, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", common.WrapError(err, "failed to parse HTML content")
	}

	doc.Find("script, style, noscript").Remove()

	root := doc.Selection
	if selector != "" {
		root = doc.Find(selector)
	}

	var lines []string
	root.Each(func(_ int, s *goquery.Selection) {
		for _, line := range strings.Split(s.Text(), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	})

	return strings.Join(lines, "\n"), nil
}

func (n *Normalizer) applyRegexp(text, pattern string) (string, error) {
	re, err := n.compile(pattern)
	if err != nil {
		return "", common.NewValidationError("extract_regexp", pattern, err.Error())
	}

	matches := re.FindAllString(text, -1)
	return strings.Join(matches, "\n"), nil
}

func (n *Normalizer) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := n.regexpCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	n.regexpCache.Store(pattern, re)
	return re, nil
}

// normalizeText collapses a plain-text body to trimmed, non-empty lines.
func normalizeText(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// isHTML decides whether content should go through the HTML text extraction
// path. The content type wins when present; otherwise a cheap sniff of the
// body is used.
func isHTML(contentType string, content []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") {
		return true
	}
	if ct != "" && !strings.Contains(ct, "text/plain") {
		return false
	}
	head := bytes.ToLower(bytes.TrimSpace(content))
	if len(head) > 256 {
		head = head[:256]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
