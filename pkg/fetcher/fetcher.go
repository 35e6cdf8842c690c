package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sitegauge/sitegauge/internal/config"
)

// FetchError is the single fatal error class of an audit: the primary page
// could not be retrieved. StatusCode is zero for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Page is the result of fetching the audit target.
type Page struct {
	URL            string
	FinalURL       string
	Body           []byte
	StatusCode     int
	ContentType    string
	ContentLength  int64
	ResponseTimeMs int64
}

// Fetcher retrieves the target page and raw auxiliary resources. It owns a
// single tuned HTTP client; construct one per process and inject it.
type Fetcher struct {
	client *http.Client
	cfg    config.FetcherConfig
}

// New builds a Fetcher from config with connection pooling tuned for a
// handful of parallel audits.
func New(cfg config.FetcherConfig) *Fetcher {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Fetcher{
		client: &http.Client{Transport: transport},
		cfg:    cfg,
	}
}

// FetchPage performs the single GET for the audit target. Non-2xx status,
// timeout, or a non-HTML payload all surface as *FetchError; there is no
// retry at this layer.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.PageTimeout)
	defer cancel()

	start := time.Now()
	resp, body, err := f.get(ctx, pageURL)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("not an HTML document: %s", contentType)}
	}

	return &Page{
		URL:            pageURL,
		FinalURL:       resp.Request.URL.String(),
		Body:           body,
		StatusCode:     resp.StatusCode,
		ContentType:    contentType,
		ContentLength:  int64(len(body)),
		ResponseTimeMs: elapsed.Milliseconds(),
	}, nil
}

// FetchAux retrieves an auxiliary resource (robots.txt, sitemap XML) under
// the shorter auxiliary timeout. A 404 is reported via found=false with no
// error, since absence is a finding rather than a failure.
func (f *Fetcher) FetchAux(ctx context.Context, resourceURL string) (body []byte, found bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.AuxTimeout)
	defer cancel()

	resp, data, err := f.get(ctx, resourceURL)
	if err != nil {
		return nil, false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("fetch %s: unexpected status %d", resourceURL, resp.StatusCode)
	}
	return data, true, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodySize))
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

func isHTMLContentType(contentType string) bool {
	mime := strings.TrimSpace(strings.Split(strings.ToLower(contentType), ";")[0])
	switch mime {
	case "text/html", "application/xhtml+xml", "application/xhtml", "":
		return true
	}
	return false
}
