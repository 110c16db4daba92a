package upstream

import (
	"bytes"
	"context"
	"emd/internal/models"
	"emd/internal/providers"
	"emd/internal/structures"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const maxErrorBodySize = 64 << 10 // 64 KB

// Health is the backend's self-report, used to resolve the active account
// at bootstrap.
type Health struct {
	Status       string `json:"status"`
	CurrentEmail string `json:"currentEmail"`
	Service      string `json:"service"`
}

// ClientInterface is the fetch capability the controllers depend on. Every
// call is bounded by the configured hard deadline and is cancellable through
// its context.
type ClientInterface interface {
	EmailStats(ctx context.Context, hours int, account string) (models.EmailStats, error)
	EmailActivity(ctx context.Context, hours int) ([]models.ActivityBucket, error)
	EmailSearch(ctx context.Context, account, term string, hours int) (models.SearchResult, error)
	Accounts(ctx context.Context) ([]models.Account, error)
	Health(ctx context.Context) (Health, error)
	SetEmailService(ctx context.Context, email string) error
}

type Client struct {
	baseUrl string
	http    *http.Client
	timeout time.Duration
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	return &Client{
		baseUrl: strings.TrimRight(conf.Upstream.BaseUrl, "/"),
		http:    &http.Client{},
		timeout: conf.Upstream.RequestTimeout,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Client) EmailStats(ctx context.Context, hours int, account string) (models.EmailStats, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))
	if account != "" {
		q.Set("account", account)
	}
	var stats models.EmailStats
	err := c.getJSON(ctx, "/email-stats", q, &stats)
	return stats, err
}

func (c *Client) EmailActivity(ctx context.Context, hours int) ([]models.ActivityBucket, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))
	var activity []models.ActivityBucket
	err := c.getJSON(ctx, "/email-activity", q, &activity)
	return activity, err
}

func (c *Client) EmailSearch(ctx context.Context, account, term string, hours int) (models.SearchResult, error) {
	q := url.Values{}
	q.Set("service", account)
	q.Set("search_term", term)
	q.Set("hours", strconv.Itoa(hours))
	var result models.SearchResult
	err := c.getJSON(ctx, "/email-search", q, &result)
	return result, err
}

func (c *Client) Accounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := c.getJSON(ctx, "/accounts", nil, &accounts)
	return accounts, err
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var health Health
	err := c.getJSON(ctx, "/health", nil, &health)
	return health, err
}

func (c *Client) SetEmailService(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/set-email-service", map[string]string{"email": email})
}

// getJSON issues a GET bounded by the configured hard deadline and decodes
// the body into out. Non-2xx replies come back as a StatusError with the
// detail field of the body when present.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseUrl + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, path)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) do(req *http.Request, path string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveUpstreamDuration(path, time.Since(start))
	if err != nil {
		c.metrics.IncUpstreamRequests(path, 0)
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	c.metrics.IncUpstreamRequests(path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, c.statusError(resp)
	}
	return resp, nil
}

func (c *Client) statusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err == nil && len(body) > 0 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &payload) == nil {
			se.Detail = payload.Detail
		}
	}
	return se
}
