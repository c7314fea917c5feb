// Package wiktionary looks up lemma glosses through the Wiktionary REST
// definition endpoint.
package wiktionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/translate"
)

const (
	defaultBaseURL   = "https://en.wiktionary.org/api/rest_v1/page/definition"
	defaultLanguage  = "grc"
	defaultUserAgent = "lexstat/1.0 (corpus statistics)"
	maxBodyBytes     = 4 << 20
)

// Config holds provider settings.
type Config struct {
	BaseURL   string
	Language  string
	Separator string
	UserAgent string
	Timeout   time.Duration
}

// Provider fetches glosses from Wiktionary.
type Provider struct {
	baseURL    string
	language   string
	sep        string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

var _ translate.Lookup = (*Provider)(nil)

// NewProvider creates a Provider. Zero config fields take defaults.
func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.Separator == "" {
		cfg.Separator = "; "
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   cfg.Language,
		sep:        cfg.Separator,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "wiktionary"),
	}
}

// WithHTTPClient replaces the HTTP client.
func (p *Provider) WithHTTPClient(c *http.Client) *Provider {
	if c != nil {
		p.httpClient = c
	}
	return p
}

// Translate returns the cleaned glosses for lemma in the configured language.
// Returns nil, nil if the page or the language section does not exist.
// Any other failure wraps internalerr.ErrLookupUnavailable.
func (p *Provider) Translate(ctx context.Context, lemma string) ([]string, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(lemma)

	p.log.DebugContext(ctx, "wiktionary request", slog.String("lemma", lemma))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wiktionary: create request: %w: %v", internalerr.ErrLookupUnavailable, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiktionary: request failed: %w: %v", internalerr.ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiktionary: %w: unexpected status %d", internalerr.ErrLookupUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("wiktionary: read body: %w: %v", internalerr.ErrLookupUnavailable, err)
	}

	var usages map[string][]apiUsage
	if err := json.Unmarshal(body, &usages); err != nil {
		return nil, fmt.Errorf("wiktionary: decode json: %w: %v", internalerr.ErrLookupUnavailable, err)
	}

	glosses := translate.CleanGlosses(collect(usages[p.language]), p.sep)

	p.log.DebugContext(ctx, "wiktionary response",
		slog.String("lemma", lemma),
		slog.Int("status", resp.StatusCode),
		slog.Int("glosses", len(glosses)),
	)
	return glosses, nil
}

// collect flattens definitions in response order.
func collect(usages []apiUsage) []string {
	var raw []string
	for _, u := range usages {
		for _, d := range u.Definitions {
			raw = append(raw, d.Definition)
		}
	}
	return raw
}
