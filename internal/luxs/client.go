// Package luxs provides the HTTP client for the LUXS Insights API.
//
// Authentication uses OAuth2 client credentials; token acquisition and
// refresh are handled by the oauth2 transport, so callers never deal
// with tokens directly.
package luxs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/woonstad/datamakelaar/pkg/models"
)

const (
	// DefaultBaseURL is the acceptance environment API endpoint.
	DefaultBaseURL = "https://api.accept.luxsinsights.com"
	// DefaultAuthURL is the acceptance environment token endpoint.
	DefaultAuthURL = "https://auth.accept.luxsinsights.com/oauth2/token"

	// DefaultPageSize is the page size used when fetching all objects.
	DefaultPageSize = 2000

	defaultTimeout = 60 * time.Second
)

// ClientConfig contains configuration for creating a new Client.
type ClientConfig struct {
	// ClientID is the OAuth2 client ID. If empty, uses LUXS_CLIENT_ID.
	ClientID string
	// ClientSecret is the OAuth2 client secret. If empty, uses LUXS_CLIENT_SECRET.
	ClientSecret string
	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string
	// AuthURL is the OAuth2 token URL. Defaults to DefaultAuthURL.
	AuthURL string
	// Timeout bounds each HTTP request, token fetches included.
	Timeout time.Duration
}

// Client talks to the LUXS Insights REST API.
type Client struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	baseURL    string
}

// NewClient creates a new API client from the given configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = os.Getenv("LUXS_CLIENT_ID")
	}
	clientSecret := cfg.ClientSecret
	if clientSecret == "" {
		clientSecret = os.Getenv("LUXS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("missing API credentials: set LUXS_CLIENT_ID and LUXS_CLIENT_SECRET")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// The token endpoint expects client_id/client_secret in the form
	// body rather than a basic-auth header.
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     authURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// Bound token fetches by the same timeout as API calls. The oauth2
	// transport picks its HTTP client out of this context.
	base := &http.Client{Timeout: timeout}
	octx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	httpClient := cc.Client(octx)
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		tokens:     cc.TokenSource(octx),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping verifies that the credentials can obtain a token.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.tokens.Token(); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	return nil
}

// Metadata fetches attribute metadata. If objectType is non-empty the
// result is filtered to that object type.
func (c *Client) Metadata(ctx context.Context, objectType string) (*Metadata, error) {
	params := url.Values{}
	if objectType != "" {
		params.Set("objectType", objectType)
	}

	var md Metadata
	if err := c.get(ctx, "/v1/metadata", params, &md); err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	return &md, nil
}

// Objects fetches a single page of objects matching the query.
func (c *Client) Objects(ctx context.Context, q ObjectQuery) (*ObjectPage, error) {
	if q.ObjectType == "" {
		return nil, fmt.Errorf("object type is required")
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	params := url.Values{}
	params.Set("objectType", q.ObjectType)
	params.Set("onlyActive", strconv.FormatBool(q.OnlyActive))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	for _, attr := range q.Attributes {
		params.Add("attributes", attr)
	}
	if q.Identifier != "" {
		params.Set("identifier", q.Identifier)
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/v1/objects/filterByObjectType", params, &raw); err != nil {
		return nil, fmt.Errorf("fetch objects: %w", err)
	}

	// The endpoint answers with either a page envelope or a bare array.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var objects []models.Object
		if err := json.Unmarshal(raw, &objects); err != nil {
			return nil, fmt.Errorf("decode objects: %w", err)
		}
		return &ObjectPage{
			Objects:     objects,
			TotalCount:  len(objects),
			TotalPages:  1,
			CurrentPage: q.Page,
			PageSize:    pageSize,
		}, nil
	}

	var page ObjectPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode object page: %w", err)
	}
	page.PageSize = pageSize
	return &page, nil
}

// AllObjects fetches every page of objects matching the query. A page
// returning fewer objects than the page size marks the end.
func (c *Client) AllObjects(ctx context.Context, q ObjectQuery) ([]models.Object, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	var all []models.Object
	for page := 0; ; page++ {
		q.Page = page
		resp, err := c.Objects(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, resp.Objects...)
		if len(resp.Objects) < q.PageSize {
			break
		}
	}
	return all, nil
}

// UpsertObjects creates or updates objects via POST /v1/objects.
func (c *Client) UpsertObjects(ctx context.Context, updates []models.ObjectUpdate) ([]models.UpdateResult, error) {
	var results []models.UpdateResult
	if err := c.send(ctx, http.MethodPost, "/v1/objects", updates, &results); err != nil {
		return nil, fmt.Errorf("upsert objects: %w", err)
	}
	return results, nil
}

// UpdateObjects updates existing objects via PUT /v1/objects.
func (c *Client) UpdateObjects(ctx context.Context, updates []models.ObjectUpdate) ([]models.UpdateResult, error) {
	var results []models.UpdateResult
	if err := c.send(ctx, http.MethodPut, "/v1/objects", updates, &results); err != nil {
		return nil, fmt.Errorf("update objects: %w", err)
	}
	return results, nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

// send performs a request with a JSON body and decodes the response.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Body holds the beginning of the response body.
	Body string
}

func newStatusError(resp *http.Response) *StatusError {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(snippet)),
	}
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}
