package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"mkulima/soko/internal/config"
	"mkulima/soko/internal/models"
)

// IClient defines the gateway's view of the marketplace backend. Each call
// is a single request/response with no retry and no caching.
type IClient interface {
	ListProducts(ctx context.Context) ([]models.Listing, error)
	CreateProduct(ctx context.Context, draft models.ListingDraft) (int64, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateOffer(ctx context.Context, draft models.OfferDraft) (int64, error)
	Login(ctx context.Context, phone, password string) (*models.User, error)
	Register(ctx context.Context, fullname, phone, password, role string) error
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	AdminUsers(ctx context.Context) ([]models.User, error)
	AdminOffers(ctx context.Context) ([]models.Offer, error)
	SetOfferStatus(ctx context.Context, id int64, status string) error
	AdminDeleteProduct(ctx context.Context, id int64) error
}

// client implements IClient.
type client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client from the gateway configuration.
func NewClient(cfg *config.Config) IClient {
	return &client{
		baseURL:    strings.TrimRight(cfg.BackendBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.BackendTimeout},
	}
}

// errorBody is the backend's uniform failure envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do issues one request and decodes the response into out (when non-nil).
// Any non-2xx status or transport error yields a *Failure.
func (c *client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request for %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Backend unreachable (%s %s): %v", method, path, err)
		return &Failure{Kind: FailureNetwork, Message: genericNetworkMessage, cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading backend response (%s %s): %v", method, path, err)
		return &Failure{Kind: FailureNetwork, Message: genericNetworkMessage, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Surface the server's message verbatim when present.
		msg := genericServerMessage
		var eb errorBody
		if unmarshalErr := json.Unmarshal(respBody, &eb); unmarshalErr == nil && eb.Error != "" {
			msg = eb.Error
		}
		log.Printf("Backend returned %d for %s %s: %s", resp.StatusCode, method, path, msg)
		return &Failure{Kind: FailureServer, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			log.Printf("Error decoding backend response (%s %s): %v - Body: %s", method, path, err, string(respBody))
			return &Failure{Kind: FailureServer, StatusCode: resp.StatusCode, Message: genericServerMessage, cause: err}
		}
	}

	return nil
}

// ListProducts fetches the full product collection (GET /api/products).
func (c *client) ListProducts(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// CreateProduct submits a new listing draft and returns the server-assigned ID.
func (c *client) CreateProduct(ctx context.Context, draft models.ListingDraft) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/products", draft, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// DeleteProduct removes a listing (DELETE /api/products/{id}).
func (c *client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil)
}

// CreateOffer submits an offer draft and returns the server-assigned ID.
func (c *client) CreateOffer(ctx context.Context, draft models.OfferDraft) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/offers", draft, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Login authenticates against the backend and returns the user profile.
func (c *client) Login(ctx context.Context, phone, password string) (*models.User, error) {
	payload := map[string]string{"phone": phone, "password": password}
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates a new backend account.
func (c *client) Register(ctx context.Context, fullname, phone, password, role string) error {
	payload := map[string]string{
		"fullname": fullname,
		"phone":    phone,
		"password": password,
		"role":     role,
	}
	return c.do(ctx, http.MethodPost, "/api/register", payload, nil)
}

// AdminStats fetches the dashboard counters (GET /api/admin/stats).
func (c *client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminUsers fetches all registered users (GET /api/admin/users).
func (c *client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminOffers fetches all offers with joined product fields
// (GET /api/admin/offers).
func (c *client) AdminOffers(ctx context.Context) ([]models.Offer, error) {
	var offers []models.Offer
	if err := c.do(ctx, http.MethodGet, "/api/admin/offers", nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// SetOfferStatus updates an offer's status (PUT /api/admin/offers/{id}).
func (c *client) SetOfferStatus(ctx context.Context, id int64, status string) error {
	payload := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/offers/%d", id), payload, nil)
}

// AdminDeleteProduct removes a listing via the admin endpoint.
func (c *client) AdminDeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", id), nil, nil)
}

// NewClientForURL is a convenience constructor for tests and tools that have
// a base URL but no full config.
func NewClientForURL(baseURL string, timeout time.Duration) IClient {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}
