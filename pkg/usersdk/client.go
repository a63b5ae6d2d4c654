package usersdk

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
	"time"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// Client talks to the public endpoints of the accounts service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client with a 10s request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetLiveness calls GET /livez.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness calls GET /readyz.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var user UserResponse
	if err := c.do(ctx, http.MethodPost, "/v1/users", "", req, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) IsIDTaken(ctx context.Context, id string) (bool, error) {
	return c.taken(ctx, "/v1/users/id/"+url.PathEscape(id))
}

func (c *Client) IsNickNameTaken(ctx context.Context, nickName string) (bool, error) {
	return c.taken(ctx, "/v1/users/nickName/"+url.PathEscape(nickName))
}

func (c *Client) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return c.taken(ctx, "/v1/users/email/"+url.PathEscape(email))
}

// taken maps 200 to false and 400 already_taken to true.
func (c *Client) taken(ctx context.Context, path string) (bool, error) {
	var out AvailabilityResponse
	err := c.do(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK)

	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) && apiErr.Code == httpx.CodeAlreadyTaken {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !out.Available, nil
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var tok TokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: email, Password: password}, &tok, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return newSession(c, &tok), nil
}

// Refresh trades an access token, usually an expired one, for a new token.
func (c *Client) Refresh(ctx context.Context, accessToken string) (*TokenResponse, error) {
	var tok TokenResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", accessToken, nil, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// do sends a JSON request and decodes the response into out when the status
// matches want. out may be nil for empty responses.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != want {
		return parseErrorResponse(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse turns an error body into *httpx.APIError. Bodies that
// are not in the service's error format still yield an APIError carrying the
// status code.
func parseErrorResponse(status int, raw []byte) error {
	apiErr := &httpx.APIError{StatusCode: status}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = httpx.CodeServerError
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}
