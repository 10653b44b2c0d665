// Package remote is the HTTP client for the Remote Cart Service: read,
// replace, and delete operations on the per-user cart resource, addressed
// by a bearer credential. The service owns all business logic; this client
// only moves the line-item payload back and forth.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/roach88/cartsync/internal/cart"
)

// Sentinel errors callers branch on with errors.Is.
var (
	// ErrNoCredential means no bearer token is available. Callers treat
	// this as "skip the call", not as a failure.
	ErrNoCredential = errors.New("remote: no credential")

	// ErrMalformedResponse means the service answered 2xx but the body was
	// not a cart document. Treated equivalently to "no remote cart".
	ErrMalformedResponse = errors.New("remote: malformed response")
)

// Request headers stamped on replace calls.
const (
	// HeaderCartVersion carries the monotonic push-version stamp. If two
	// pushes are in flight at once, the service can use it to let the
	// later state win; enforcement is the service's call.
	HeaderCartVersion = "X-Cart-Version"

	// HeaderPushToken carries a UUIDv7 identifying the push attempt, for
	// log correlation between client and service.
	HeaderPushToken = "X-Push-Token"
)

// DefaultTimeout bounds each request when the config does not say otherwise.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer credential identifying the authenticated
// user. Implemented by localstore.Store; the credential itself is owned by
// the authentication flow.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Client talks to the Remote Cart Service.
type Client struct {
	baseURL string
	tokens  TokenSource
	httpc   *http.Client
}

// NewClient creates a client for the cart resource under baseURL.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Fetch reads the remote cart.
//
// Returns ErrNoCredential when no token is available, ErrMalformedResponse
// (wrapped) when the body is not a cart document, and (nil, nil) when the
// service reports no cart for this user (404).
func (c *Client) Fetch(ctx context.Context) (cart.Items, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch cart: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch cart: read body: %w", err)
	}

	items, err := cart.UnmarshalItems(body)
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w: %w", ErrMalformedResponse, err)
	}

	return items, nil
}

// Replace pushes the full line-item set, overwriting the remote cart.
// The response body is not consumed beyond the status code.
func (c *Client) Replace(ctx context.Context, items cart.Items, version int64, pushToken string) error {
	payload, err := cart.MarshalItems(items)
	if err != nil {
		return fmt.Errorf("replace cart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderCartVersion, strconv.FormatInt(version, 10))
	if pushToken != "" {
		req.Header.Set(HeaderPushToken, pushToken)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("replace cart: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) // drain for connection reuse

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("replace cart: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// Delete removes the remote cart.
func (c *Client) Delete(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodDelete, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// A cart that is already gone counts as deleted.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete cart: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// newRequest builds a request against the cart resource with the bearer
// credential attached. Returns ErrNoCredential when no token is available.
func (c *Client) newRequest(ctx context.Context, method string, body []byte) (*http.Request, error) {
	token, ok := c.tokens.Token(ctx)
	if !ok {
		return nil, ErrNoCredential
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/cart", rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	return req, nil
}
