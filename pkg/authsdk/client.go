// Package authsdk is the Go client for the Wayfarer auth service. Other
// Wayfarer services use it to call the auth API and to share its wire types
// and error shapes.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Wayfarer authentication service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns the initial token pair.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.postJSON(ctx, "/v1/auth/register", req, "", &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email/password and returns a token pair.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.postJSON(ctx, "/v1/auth/login", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a fresh access token.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.postJSON(ctx, "/v1/auth/refresh", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout disables a refresh token. Succeeds even when the token is already
// disabled or unknown.
func (c *SDKClient) Logout(ctx context.Context, refreshToken string) error {
	req := LogoutRequest{RefreshToken: refreshToken}
	return c.postJSON(ctx, "/v1/auth/logout", req, "", nil, http.StatusNoContent)
}

// BeginPasswordReset requests a reset code be emailed to the address.
func (c *SDKClient) BeginPasswordReset(ctx context.Context, emailAddress string) error {
	req := PasswordResetRequest{EmailAddress: emailAddress}
	return c.postJSON(ctx, "/v1/auth/password-reset", req, "", nil, http.StatusNoContent)
}

// ConfirmPasswordReset redeems a reset code and sets the new password.
func (c *SDKClient) ConfirmPasswordReset(ctx context.Context, req PasswordResetConfirmRequest) error {
	return c.postJSON(ctx, "/v1/auth/password-reset/confirm", req, "", nil, http.StatusNoContent)
}

// Me fetches the profile of the user behind the access token.
func (c *SDKClient) Me(ctx context.Context, accessToken string) (*MeResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/v1/me"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var out MeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Healthy reports whether the service's readiness probe passes.
func (c *SDKClient) Healthy(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/readyz"), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	var out HealthResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// postJSON sends a JSON body and decodes the response. A nil out with
// expectedStatus 204 checks the status without decoding.
func (c *SDKClient) postJSON(
	ctx context.Context,
	path string,
	body any,
	accessToken string,
	out any,
	expectedStatus int,
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	if out == nil {
		return checkStatus(resp, expectedStatus)
	}
	return decodeJSON(resp, out, expectedStatus)
}

// decodeJSON decodes a JSON response into the target. Returns a typed
// *APIError when the status does not match.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// checkStatus returns a typed error when the response status does not match.
func checkStatus(resp *http.Response, expectedStatus int) error {
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}

	return nil
}
