// Package fetch retrieves job postings from the web and reduces them to plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeAgent/1.0)"

// MinTextLength is the shortest posting text Fetch will return.
const MinTextLength = 50

const googleDocsBase = "https://docs.google.com"

var googleDocIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Page is the raw response of a single GET.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// RenderFunc returns the HTML of a page after client-side rendering.
type RenderFunc func(ctx context.Context, url string) (string, error)

// Fetcher downloads a posting over HTTP and falls back to a rendered
// browser session when the static HTML carries too little text.
type Fetcher struct {
	client    *http.Client
	userAgent string
	render    RenderFunc
	// renderSet is true once an option chose the renderer
	renderSet bool
	docsBase  string
	log       *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithRenderer replaces the headless browser used for fallback rendering.
func WithRenderer(r RenderFunc) Option {
	return func(f *Fetcher) { f.render, f.renderSet = r, true }
}

// WithoutBrowser disables the browser fallback.
func WithoutBrowser() Option {
	return func(f *Fetcher) { f.render, f.renderSet = nil, true }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// New returns a Fetcher with a 30s HTTP timeout and chromedp fallback.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		docsBase:  googleDocsBase,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if !f.renderSet {
		f.render = Browser(DefaultBrowserOptions(), f.log)
	}
	return f
}

// Fetch returns the posting text at rawURL. Google Docs links are read
// through the plain-text export endpoint.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if id := GoogleDocID(rawURL); id != "" {
		text, err := f.fetchGoogleDoc(ctx, id)
		if err == nil && len(text) >= MinTextLength {
			f.log.Info("fetched google doc export", zap.Int("chars", len(text)))
			return text, nil
		}
		f.log.Warn("google doc export failed, trying page scrape", zap.String("url", rawURL), zap.Error(err))
	}

	var text string
	page, err := f.get(ctx, rawURL)
	if err == nil {
		text, err = extractPosting(page.HTML, rawURL)
	}

	if f.render != nil && (err != nil || ShouldUseBrowser(text)) {
		platform := DetectPlatform(rawURL)
		f.log.Info("falling back to browser rendering",
			zap.String("url", rawURL),
			zap.String("platform", string(platform)),
			zap.Bool("client_side", RendersClientSide(platform)),
			zap.Int("http_chars", len(text)))
		html, rerr := f.render(ctx, rawURL)
		if rerr != nil {
			f.log.Warn("browser rendering failed", zap.String("url", rawURL), zap.Error(rerr))
		} else if rendered, xerr := extractPosting(html, rawURL); xerr == nil && len(rendered) > len(text) {
			text, err = rendered, nil
		}
	}

	if err != nil {
		return "", err
	}
	if len(text) < MinTextLength {
		return "", &Error{
			URL:     rawURL,
			Message: fmt.Sprintf("extracted only %d characters; paste the job description into a file instead", len(text)),
		}
	}
	return text, nil
}

func (f *Fetcher) fetchGoogleDoc(ctx context.Context, id string) (string, error) {
	page, err := f.get(ctx, f.docsBase+"/document/d/"+id+"/export?format=txt")
	if err != nil {
		return "", err
	}
	return cleanWhitespace(page.HTML), nil
}

// get performs a GET and returns the page. Non-200 responses return both
// the page and an *Error.
func (f *Fetcher) get(ctx context.Context, urlStr string) (*Page, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// GoogleDocID returns the document id of a Google Docs URL, or "".
func GoogleDocID(rawURL string) string {
	if !strings.Contains(rawURL, "docs.google.com") {
		return ""
	}
	m := googleDocIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractPosting(html, rawURL string) (string, error) {
	platform := DetectPlatform(rawURL)
	return ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
}

// ExtractMainText parses HTML and returns the main body text.
// Noise selectors are removed first; the first matching content selector
// wins, otherwise the whole body is used.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, iframe, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 && strings.TrimSpace(sel.First().Text()) != "" {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

// JobPostingSelectors returns selectors for generic job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".jobsearch-jobDescriptionText",
		".description__text",
		"#job-description",
		".job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"[class*='description']",
		"main",
		"article",
		"#content",
	}
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
