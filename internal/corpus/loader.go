package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultContentSelector targets the main content region of the reference
// pages, matching the selector list used for article extraction.
const DefaultContentSelector = "main, article, .content, .article-content, #content, body"

// DefaultFetchTimeout bounds a single document fetch.
const DefaultFetchTimeout = 30 * time.Second

// Loader loads document text from web URLs or local files. Web pages are
// reduced to their visible text via a CSS content selector.
type Loader struct {
	client   *http.Client
	selector string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the HTTP client used for web sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) { l.client = client }
}

// WithContentSelector replaces the CSS selector used to extract page content.
func WithContentSelector(selector string) LoaderOption {
	return func(l *Loader) { l.selector = selector }
}

// NewLoader creates a Loader with the default fetch timeout and content selector.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:   &http.Client{Timeout: DefaultFetchTimeout},
		selector: DefaultContentSelector,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the text of a single source. Sources beginning with http:// or
// https:// are fetched and stripped to visible content text; anything else is
// read as a local file path.
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.loadWeb(ctx, source)
	}
	return l.loadFile(source)
}

func (l *Loader) loadWeb(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}

	text := extractText(doc, l.selector)
	if text == "" {
		text = extractText(doc, "body")
	}
	slog.Debug("Loader.loadWeb: document loaded", "url", url, "chars", len(text))
	return text, nil
}

func (l *Loader) loadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	slog.Debug("Loader.loadFile: document loaded", "path", path, "chars", len(data))
	return collapseWhitespace(string(data)), nil
}

// extractText collects the visible text of every node matched by the
// selector, in document order.
func extractText(doc *goquery.Document, selector string) string {
	var parts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if t := collapseWhitespace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

// collapseWhitespace normalizes runs of whitespace within lines while keeping
// paragraph breaks, so chunking is stable across markup reformatting.
func collapseWhitespace(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
