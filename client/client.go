package client

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

	"github.com/patrickmn/go-cache"
)

const (
	defaultTimeout = 10 * time.Second
	detailCacheTTL = time.Minute
	userAgent      = "rdmc-registry-client"
)

// StatusError is returned when the registry answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
}

func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:  &httpClient,
		cache:   cache.New(detailCacheTTL, 2*detailCacheTTL),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// Ingest uploads a manifest and returns the stored detail.
func (c *Client) Ingest(ctx context.Context, request IngestRequest) (Detail, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to encode request: %v", err)
	}

	var detail Detail
	err = c.HttpRequest(ctx, http.MethodPost, "/rdmcs", bytes.NewReader(body), &detail)
	if err != nil {
		return Detail{}, err
	}

	c.cache.Delete(request.ExternalID)
	return detail, nil
}

// Get returns the detail of externalID. Results are cached for a minute.
func (c *Client) Get(ctx context.Context, externalID string) (Detail, error) {
	if cached, found := c.cache.Get(externalID); found {
		return cached.(Detail), nil
	}

	var detail Detail
	err := c.HttpRequest(ctx, http.MethodGet, "/rdmcs/"+url.PathEscape(externalID), nil, &detail)
	if err != nil {
		return Detail{}, err
	}

	c.cache.SetDefault(externalID, detail)
	return detail, nil
}

func (c *Client) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	query := url.Values{}
	if opts.Subject != "" {
		query.Set("subject", opts.Subject)
	}
	if opts.License != "" {
		query.Set("license_", opts.License)
	}
	if opts.ContainerConcept != "" {
		query.Set("container_concept", opts.ContainerConcept)
	}

	path := "/rdmcs"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var summaries []Summary
	err := c.HttpRequest(ctx, http.MethodGet, path, nil, &summaries)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *Client) ByContributor(ctx context.Context, orcid, email string) ([]Summary, error) {
	query := url.Values{}
	if orcid != "" {
		query.Set("orcid", orcid)
	}
	if email != "" {
		query.Set("email", email)
	}

	var summaries []Summary
	err := c.HttpRequest(ctx, http.MethodGet, "/rdmcs/by-contributor?"+query.Encode(), nil, &summaries)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *Client) Contributors(ctx context.Context, externalID string) ([]Contributor, error) {
	var contributors []Contributor
	err := c.HttpRequest(ctx, http.MethodGet, "/rdmcs/"+url.PathEscape(externalID)+"/contributors", nil, &contributors)
	if err != nil {
		return nil, err
	}
	return contributors, nil
}

func (c *Client) HttpRequest(ctx context.Context, method, path string, body io.Reader, response any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	err = json.NewDecoder(resp.Body).Decode(response)
	if err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}

	return nil
}
