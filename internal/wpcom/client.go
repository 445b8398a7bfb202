package wpcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/perch/internal/form"
)

// SettingsAPI is the remote settings source and sink used by the poller,
// the UI and the CLI. *Client implements it; tests substitute fakes.
type SettingsAPI interface {
	FetchSite(ctx context.Context, site string) (*Site, error)
	FetchSettings(ctx context.Context, site string) (Settings, error)
	SaveSettings(ctx context.Context, siteID int64, fields form.FieldSet) (Settings, error)
}

// Ensure Client implements SettingsAPI at compile time.
var _ SettingsAPI = (*Client)(nil)

// Client talks to the WordPress.com REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
	limiter   *rate.Limiter
}

const (
	DefaultBaseURL   = "https://public-api.wordpress.com"
	defaultUserAgent = "perch/0.1"
	requestTimeout   = 10 * time.Second
	apiPrefix        = "/rest/v1.1"

	requestsPerSecond = 4
	requestBurst      = 4
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithRateLimit overrides the client-side request rate.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewClient builds a Client for baseURL. An empty baseURL uses the public API.
func NewClient(baseURL, token string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		token:     strings.TrimSpace(token),
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(requestsPerSecond, requestBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchSite retrieves site identity and capabilities. site is a numeric ID
// or a domain.
func (c *Client) FetchSite(ctx context.Context, site string) (*Site, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	site, err := siteRef(site)
	if err != nil {
		return nil, err
	}
	var payload Site
	if err := c.do(ctx, http.MethodGet, "/sites/"+site, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchSettings retrieves the raw settings payload for site.
func (c *Client) FetchSettings(ctx context.Context, site string) (Settings, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	site, err := siteRef(site)
	if err != nil {
		return nil, err
	}
	var payload settingsResponse
	if err := c.do(ctx, http.MethodGet, "/sites/"+site+"/settings", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Settings == nil {
		return Settings{}, nil
	}
	return payload.Settings, nil
}

// SaveSettings submits fields for siteID and returns the values the server
// reports as updated. It is never retried.
func (c *Client) SaveSettings(ctx context.Context, siteID int64, fields form.FieldSet) (Settings, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if siteID <= 0 {
		return nil, fmt.Errorf("site id required")
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var payload saveResponse
	path := fmt.Sprintf("/sites/%d/settings", siteID)
	if err := c.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return nil, err
	}
	return payload.Updated, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	rel := &url.URL{Path: apiPrefix + path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp, rel.Path)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, path string) error {
	apiErr := &APIError{Status: resp.StatusCode, Path: path}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, apiErr)
	return apiErr
}

func siteRef(site string) (string, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return "", fmt.Errorf("site required")
	}
	// paths on multi-site installs are written with "::" instead of "/"
	if strings.ContainsAny(site, "/?#") {
		return "", fmt.Errorf("invalid site %q", site)
	}
	return site, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
