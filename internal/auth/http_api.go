package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	retry "github.com/appleboy/go-httpretry"

	"github.com/go-authgate/authchain/internal/core"
)

// HTTPAPIBackend verifies credentials against an external HTTP API
type HTTPAPIBackend struct {
	url         string
	retryClient *retry.Client
}

// NewHTTPAPIBackend creates a backend posting to url through retryClient.
func NewHTTPAPIBackend(url string, retryClient *retry.Client) *HTTPAPIBackend {
	return &HTTPAPIBackend{
		url:         url,
		retryClient: retryClient,
	}
}

// APIAuthRequest is the request payload sent to external API
type APIAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APIAuthResponse is the expected response from external API. Missing
// account-state flags are treated as true.
type APIAuthResponse struct {
	Success               bool     `json:"success"`
	Username              string   `json:"username,omitempty"`
	Authorities           []string `json:"authorities,omitempty"`
	Enabled               *bool    `json:"enabled,omitempty"`
	AccountNonExpired     *bool    `json:"account_non_expired,omitempty"`
	AccountNonLocked      *bool    `json:"account_non_locked,omitempty"`
	CredentialsNonExpired *bool    `json:"credentials_non_expired,omitempty"`
	Message               string   `json:"message,omitempty"`
}

// Verify posts the credentials and maps the answer onto the backend error contract.
func (b *HTTPAPIBackend) Verify(
	ctx context.Context,
	username, password string,
) (*core.Identity, error) {
	jsonData, err := json.Marshal(APIAuthRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := b.retryClient.Post(
		ctx,
		b.url,
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		// Exhausted retries still hand back the last response.
		if resp != nil {
			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, fmt.Errorf(
				"%w: %v - %s",
				core.ErrBackendUnavailable,
				err,
				bodyPreview(body),
			)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", core.ErrBackendUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, core.ErrBadCredentials
	case resp.StatusCode == http.StatusNotFound:
		return nil, core.ErrUserNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf(
			"%w: HTTP %d - %s",
			core.ErrBackendUnavailable,
			resp.StatusCode,
			bodyPreview(body),
		)
	}

	var authResp APIAuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", core.ErrBackendUnavailable, err)
	}

	if !authResp.Success {
		return nil, core.ErrBadCredentials
	}

	name := authResp.Username
	if name == "" {
		name = username
	}

	return &core.Identity{
		Username:              name,
		Credential:            password,
		Authorities:           authResp.Authorities,
		Enabled:               flagOrTrue(authResp.Enabled),
		AccountNonExpired:     flagOrTrue(authResp.AccountNonExpired),
		AccountNonLocked:      flagOrTrue(authResp.AccountNonLocked),
		CredentialsNonExpired: flagOrTrue(authResp.CredentialsNonExpired),
	}, nil
}

// Name returns backend name for logging
func (b *HTTPAPIBackend) Name() string {
	return "http_api"
}

func flagOrTrue(v *bool) bool {
	return v == nil || *v
}

const maxErrorBody = 4096

// bodyPreview limits error bodies to 200 characters.
func bodyPreview(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
