package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/five82/reclamos/internal/logging"
	"github.com/five82/reclamos/internal/status"
)

// API is the full surface of the municipal backend used by the console.
// *Client implements it; screens depend on narrower slices of it.
type API interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	ListComplaints(ctx context.Context, query ComplaintQuery) ([]Complaint, error)
	GetComplaint(ctx context.Context, id string) (Complaint, error)
	CreateComplaint(ctx context.Context, req CreateComplaintRequest) (Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, next status.Status) (Complaint, error)
	UpdateComplaintArea(ctx context.Context, id, area string) (Complaint, error)
	AssignDriver(ctx context.Context, id, driverID string) (Complaint, error)
	ConvertToTask(ctx context.Context, id string) error
	AddObservation(ctx context.Context, id, text string) error

	ListSectors(ctx context.Context) ([]CatalogEntry, error)
	CreateSector(ctx context.Context, name string) (CatalogEntry, error)
	ListTaskTypes(ctx context.Context) ([]CatalogEntry, error)
	CreateTaskType(ctx context.Context, name string) (CatalogEntry, error)

	ListVehicles(ctx context.Context) ([]Vehicle, error)
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error

	CreateFuelLoad(ctx context.Context, req CreateFuelLoadRequest) (FuelLoad, error)
	CreateFuelLoads(ctx context.Context, loads []CreateFuelLoadRequest) ([]FuelLoad, error)
	MonthlyFuelReport(ctx context.Context, year, month int) ([]MonthlyReportItem, error)

	SearchUsers(ctx context.Context, query string) ([]User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (MessageResponse, error)
	UpdateUser(ctx context.Context, id string, req CreateUserRequest) (MessageResponse, error)

	DriversStatus(ctx context.Context) ([]DriverStatus, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the municipal backend over JSON/HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *log.Logger

	mu    sync.RWMutex
	token string
}

const (
	defaultAPIURL    = "http://localhost:3001"
	defaultUserAgent = "reclamos/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10
)

// Option customises a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the logger used for request traces.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the given base URL. An empty value uses the
// local development backend.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetToken replaces the bearer token, e.g. after login or logout.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates an operator. Only ADMIN and CALL_CENTER users may use
// the console.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp)
	switch {
	case isStatus(err, http.StatusUnauthorized):
		return LoginResponse{}, ErrInvalidCredentials
	case err != nil:
		return LoginResponse{}, err
	}
	if resp.User.Role != RoleAdmin && resp.User.Role != RoleCallCenter {
		return LoginResponse{}, ErrForbiddenRole
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + rel.Path
	reqURL.RawQuery = rel.RawQuery

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
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
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.WithFields(log.Fields{
		"method":  method,
		"path":    rel.Path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("api request")

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			Path:       rel.Path,
			StatusCode: resp.StatusCode,
			Message:    parseErrorMessage(raw),
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
