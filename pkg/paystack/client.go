package paystack

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

	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.paystack.co"
	responseBodyReadLimit int64 = 1024
)

var errSecretKeyRequired = errors.New("paystack secret key is required")

// Transaction statuses returned by the verify endpoint.
const (
	TxStatusSuccess   = "success"
	TxStatusAbandoned = "abandoned"
	TxStatusFailed    = "failed"
)

// Client wraps the Paystack transaction APIs used during checkout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Paystack base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Paystack client given a secret key.
func NewClient(secretKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(secretKey)
	if trimmedKey == "" {
		return nil, errSecretKeyRequired
	}

	client := &Client{
		secretKey:  trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// InitializeRequest describes the payload sent to transaction/initialize.
// Amount is in the currency's minor unit (kobo for NGN).
type InitializeRequest struct {
	Email       string         `json:"email"`
	AmountMinor int64          `json:"amount"`
	Reference   string         `json:"reference"`
	Currency    string         `json:"currency,omitempty"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// InitializeResult holds the data returned by transaction/initialize.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult holds the normalized data returned by transaction/verify.
type VerifyResult struct {
	Status         string
	Reference      string
	AmountMinor    int64
	Currency       string
	Channel        string
	GatewayMessage string
	PaidAt         *time.Time
}

// Succeeded reports whether the gateway settled the transaction.
func (v VerifyResult) Succeeded() bool {
	return v.Status == TxStatusSuccess
}

// Abandoned reports whether the customer walked away without paying.
func (v VerifyResult) Abandoned() bool {
	return v.Status == TxStatusAbandoned
}

// InitializeTransaction registers a pending transaction with Paystack and
// returns the hosted authorization URL for the customer.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if req.AmountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(req.Reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction reference is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal initialize request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("transaction/initialize"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build initialize request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute initialize request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "initialize request failed")
	}

	var apiResp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode initialize response")
	}
	if !apiResp.Status {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("paystack rejected initialize: %s", apiResp.Message))
	}

	return &InitializeResult{
		AuthorizationURL: apiResp.Data.AuthorizationURL,
		AccessCode:       apiResp.Data.AccessCode,
		Reference:        apiResp.Data.Reference,
	}, nil
}

// VerifyTransaction fetches the settled state of a transaction by reference.
// The returned status is the gateway's verdict; callers decide what a
// non-success status means for the checkout attempt.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction reference is required")
	}

	endpoint := fmt.Sprintf("%s/transaction/verify/%s", strings.TrimRight(c.baseURL, "/"), url.PathEscape(trimmed))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build verify request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute verify request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "verify request failed")
	}

	var apiResp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status         string `json:"status"`
			Reference      string `json:"reference"`
			Amount         int64  `json:"amount"`
			Currency       string `json:"currency"`
			Channel        string `json:"channel"`
			GatewayResponse string `json:"gateway_response"`
			PaidAt         string `json:"paid_at"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode verify response")
	}
	if !apiResp.Status {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("paystack rejected verify: %s", apiResp.Message))
	}

	result := &VerifyResult{
		Status:         apiResp.Data.Status,
		Reference:      apiResp.Data.Reference,
		AmountMinor:    apiResp.Data.Amount,
		Currency:       apiResp.Data.Currency,
		Channel:        apiResp.Data.Channel,
		GatewayMessage: apiResp.Data.GatewayResponse,
	}
	if apiResp.Data.PaidAt != "" {
		if paidAt, err := time.Parse(time.RFC3339, apiResp.Data.PaidAt); err == nil {
			result.PaidAt = &paidAt
		}
	}

	return result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) buildURL(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
