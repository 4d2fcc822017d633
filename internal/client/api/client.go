package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"user-search-service/internal/domain/user"
)

const (
	// DefaultPath is the listing route of the query service.
	DefaultPath = "/api/users"
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second

	fetchFailedMessage = "Failed to fetch users"
	maxBodyBytes       = 1 << 20
)

// Page is one decoded listing response.
type Page struct {
	Users      []user.User
	Pagination user.Pagination
	Search     string
	Timestamp  time.Time
}

// Client fetches user pages from the query service over HTTP.
type Client struct {
	baseURL    *url.URL
	path       string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPath overrides the listing route, e.g. "/index.php".
func WithPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.path = path
		}
	}
}

// WithTimeout sets the per-fetch timeout. Non-positive values disable it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		path:       DefaultPath,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type listResponse struct {
	Success    bool        `json:"success"`
	Data       []userJSON  `json:"data"`
	Pagination *pagination `json:"pagination"`
	Search     string      `json:"search"`
	Timestamp  string      `json:"timestamp"`
	Total      int64       `json:"total"`
	PerPage    int64       `json:"per_page"`
	Error      string      `json:"error"`
}

type userJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// FetchUsers requests one page of users matching search. An empty search is
// omitted from the query string.
func (c *Client) FetchUsers(ctx context.Context, search string, page int64) (*Page, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(search, page), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	var out listResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fetchFailedMessage
		if decodeErr == nil && out.Error != "" {
			msg = out.Error
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "Invalid response from server"}
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = fetchFailedMessage
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	return out.page(), nil
}

func (c *Client) endpoint(search string, page int64) string {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	params.Set("page", strconv.FormatInt(page, 10))

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + c.path
	u.RawQuery = params.Encode()
	return u.String()
}

func (r *listResponse) page() *Page {
	users := make([]user.User, len(r.Data))
	for i, u := range r.Data {
		users[i] = user.User{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	p := &Page{
		Users:  users,
		Search: r.Search,
	}
	if ts, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
		p.Timestamp = ts
	}
	if r.Pagination != nil {
		p.Pagination = user.Pagination{
			Total:      r.Pagination.Total,
			Page:       r.Pagination.Page,
			PerPage:    r.Pagination.PerPage,
			TotalPages: r.Pagination.TotalPages,
			HasNext:    r.Pagination.HasNext,
			HasPrev:    r.Pagination.HasPrev,
		}
	} else {
		// Older servers only send the flat fields.
		perPage := r.PerPage
		if perPage <= 0 {
			perPage = user.PerPage
		}
		p.Pagination = *user.NewPagination(r.Total, 1, perPage)
	}
	return p
}
