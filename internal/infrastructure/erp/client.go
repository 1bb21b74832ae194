package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

const (
	// maxResponseSize is the maximum allowed response size from the provider (10MB)
	maxResponseSize = 10 * 1024 * 1024
	// maxAuthRetries bounds how often a request is retried after the
	// provider rejects the credential
	maxAuthRetries = 3
	// noDataErrorCode is the provider's "no data found" signal; paired with
	// a not-found status it means an empty result, not an error
	noDataErrorCode = "NO_DATA_FOUND"

	loginPath = "/login"
	dataPath  = "/get"
)

// credential is the cached provider token. It is mutated in place on refresh
// and marked stale by moving expiresAt into the past, never by clearing the
// value, so concurrent readers never observe a missing token mid-refresh.
type credential struct {
	value     string
	expiresAt time.Time
}

// validFor reports whether the credential is usable for at least margin.
func (c credential) validFor(margin time.Duration) bool {
	return c.value != "" && time.Now().Before(c.expiresAt.Add(-margin))
}

// Client executes authenticated calls against the provider's remote
// interface. It owns the cached credential, refreshes it exactly once under
// concurrent demand, and classifies provider error responses.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger

	mu     sync.Mutex // protects cred
	cred   credential
	flight singleflight.Group
}

// NewClient creates a new provider client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// requestEnvelope is the body of one data call.
type requestEnvelope struct {
	Method  string                        `json:"method"`
	Filters map[string]integration.Filter `json:"filters,omitempty"`
	Offset  int                           `json:"offset"`
	Limit   int                           `json:"limit"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// errorBody is the provider's structured error shape, parsed best-effort.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ensureCredential guarantees a fresh credential before a call. Concurrent
// callers that observe a stale credential are coalesced into a single login:
// one of them performs the call, the rest wait for its outcome. The shared
// flight is released on completion either way, so a later caller can retry
// after a failure.
func (c *Client) ensureCredential(ctx context.Context) error {
	c.mu.Lock()
	fresh := c.cred.validFor(c.config.TokenSafetyMargin)
	c.mu.Unlock()
	if fresh {
		return nil
	}

	_, err, _ := c.flight.Do("login", func() (any, error) {
		// A caller that raced in just as a refresh completed sees the new
		// credential here and skips the login entirely.
		c.mu.Lock()
		fresh := c.cred.validFor(c.config.TokenSafetyMargin)
		c.mu.Unlock()
		if fresh {
			return nil, nil
		}
		return nil, c.login(ctx)
	})
	return err
}

// login obtains a fresh token from the provider and stores it with
// expiresAt = now + TTL.
func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(loginRequest{Username: c.config.Username, Password: c.config.Password})
	if err != nil {
		return fmt.Errorf("erp: failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erp: failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("erp: failed to read login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &integration.AuthError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil || lr.Token == "" {
		// A success status without a usable token is still a login failure.
		return &integration.AuthError{StatusCode: resp.StatusCode, Body: "login response missing token"}
	}

	c.mu.Lock()
	c.cred = credential{value: lr.Token, expiresAt: time.Now().Add(c.config.TokenTTL)}
	c.mu.Unlock()

	c.logger.Debug("ERP credential refreshed",
		zap.String("base_url", c.config.BaseURL),
		zap.Duration("ttl", c.config.TokenTTL),
	)
	return nil
}

// invalidateCredential marks the cached credential stale in place.
func (c *Client) invalidateCredential() {
	c.mu.Lock()
	c.cred.expiresAt = time.Now().Add(-time.Minute)
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cred.value
}

// Request sends one envelope to the provider's data endpoint and returns the
// normalized record page. Credential-rejected responses trigger an immediate
// refresh-and-retry up to maxAuthRetries times; the provider's "no data
// found" signal is translated into an empty page.
func (c *Client) Request(ctx context.Context, method string, filters map[string]integration.Filter, offset, limit int) ([]json.RawMessage, error) {
	payload, err := json.Marshal(requestEnvelope{
		Method:  method,
		Filters: filters,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("erp: failed to marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		if err := c.ensureCredential(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+dataPath, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("erp: failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.bearer())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", integration.ErrProviderUnavailable, err)
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("erp: failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			if attempt >= maxAuthRetries {
				return nil, integration.ErrAuthRetriesExhausted
			}
			c.invalidateCredential()
			c.logger.Debug("ERP credential rejected, refreshing",
				zap.String("method", method),
				zap.Int("attempt", attempt+1),
			)
			continue

		case resp.StatusCode == http.StatusNotFound && parseErrorCode(raw) == noDataErrorCode:
			return []json.RawMessage{}, nil

		case resp.StatusCode >= 400:
			return nil, newAPIError(resp.StatusCode, raw)
		}

		return normalizePage(raw)
	}
}

// parseErrorCode extracts the provider error code, if the body parses.
func parseErrorCode(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return ""
	}
	return eb.Error.Code
}

// newAPIError builds an APIError with a best-effort parsed message.
func newAPIError(status int, raw []byte) *integration.APIError {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error.Message != "" {
		return &integration.APIError{StatusCode: status, Code: eb.Error.Code, Message: eb.Error.Message}
	}
	return &integration.APIError{StatusCode: status, Message: strings.TrimSpace(string(raw))}
}

// normalizePage unifies the provider's two response shapes at the transport
// boundary: a bare array and a {"data": [...]} wrapper both become a flat
// record slice, anything else an empty one.
func normalizePage(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []json.RawMessage{}, nil
	}

	if trimmed[0] == '[' {
		var page []json.RawMessage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("erp: failed to parse response: %w", err)
		}
		return page, nil
	}

	var wrapper struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("erp: failed to parse response: %w", err)
	}
	if wrapper.Data == nil {
		return []json.RawMessage{}, nil
	}
	return wrapper.Data, nil
}
