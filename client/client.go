// Package client is a Go client for the wallet API. It owns the HTTP
// boundary: request shaping, bearer authentication, and translation of
// failure responses into the apierr taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pochi-pay/pochi_pay/client/apierr"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the current access token, or "" when logged out.
type TokenSource func() string

// Client talks to the wallet API over HTTP.
type Client struct {
	baseURL        string
	http           *http.Client
	tokenSource    TokenSource
	onUnauthorized func()
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource wires the token provider used for the Authorization header.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokenSource = ts }
}

// WithOnUnauthorized registers a hook invoked whenever the server answers 401.
// The session layer uses it to purge credentials and redirect to login.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New builds a client against baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource replaces the token provider after construction.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokenSource = ts
}

// SetOnUnauthorized replaces the 401 hook after construction.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", body, &out)
	return out, err
}

// Signup creates an account and returns its first session.
func (c *Client) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/signup", input, &out)
	return out, err
}

// Me fetches the authenticated profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out.User, err
}

// Wallets lists the caller's wallets with balances.
func (c *Client) Wallets(ctx context.Context) ([]Wallet, error) {
	var out struct {
		Wallets []Wallet `json:"wallets"`
	}
	err := c.do(ctx, http.MethodGet, "/wallets", nil, &out)
	return out.Wallets, err
}

// CreateWallet opens a new wallet for the caller.
func (c *Client) CreateWallet(ctx context.Context, input CreateWalletInput) (Wallet, error) {
	var out Wallet
	err := c.do(ctx, http.MethodPost, "/wallets", input, &out)
	return out, err
}

// Transactions lists the caller's transaction history, newest first.
func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	var out struct {
		Transactions []Transaction `json:"transactions"`
	}
	err := c.do(ctx, http.MethodGet, "/transactions", nil, &out)
	return out.Transactions, err
}

// Services lists the payable service catalogue.
func (c *Client) Services(ctx context.Context) ([]Service, error) {
	var out []Service
	err := c.do(ctx, http.MethodGet, "/services", nil, &out)
	return out, err
}

// FundWallet tops up a wallet from an externally settled payment.
func (c *Client) FundWallet(ctx context.Context, input FundInput) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, http.MethodPost, "/wallets/fund", input, &out)
	return out, err
}

// Transfer moves money between two wallets.
func (c *Client) Transfer(ctx context.Context, input TransferInput) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, http.MethodPost, "/wallets/transfer", input, &out)
	return out, err
}

// PayService pays a catalogue service from a wallet.
func (c *Client) PayService(ctx context.Context, input PayServiceInput) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, http.MethodPost, "/services/pay", input, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		// One fresh key per submission. Resubmitting a failed write is a
		// new attempt, not a replay.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &apierr.Network{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &apierr.Unauthorized{}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &apierr.Request{Status: resp.StatusCode, Message: extractMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractMessage pulls the server's error message out of a failure body.
// Unparseable or empty bodies fall back to a generic message so raw payloads
// never surface in a dialog.
func extractMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return apierr.GenericMessage
	}
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return apierr.GenericMessage
}
