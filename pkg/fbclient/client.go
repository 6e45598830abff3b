// fbclient/client.go
package fbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the FreshBooks API host.
	DefaultBaseURL = "https://api.freshbooks.com"

	// apiVersion is sent on every authenticated call.
	apiVersion = "2023-11-01"

	// defaultRetryAfter applies when a 429 carries no Retry-After header.
	defaultRetryAfter = 60 * time.Second
)

// Client is an authenticated FreshBooks API client bound to one account.
// It performs no retries; callers classify the typed errors and decide.
type Client struct {
	baseURL     string
	accessToken string
	accountID   string
	httpClient  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream host, used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a FreshBooks client for the given bearer token and account.
func New(accessToken, accountID string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
		accountID:   accountID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the fixed response wrapper FreshBooks puts around results:
// {"response":{"result":{"<key>": ...}}}.
type envelope struct {
	Response struct {
		Result map[string]json.RawMessage `json:"result"`
	} `json:"response"`
}

// do issues one request, classifies the status, and unwraps the named result
// key from the response envelope into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType, resultKey string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Api-Version", apiVersion)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: "authentication failed"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	raw, ok := env.Response.Result[resultKey]
	if !ok {
		return fmt.Errorf("response missing result key %q", resultKey)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", resultKey, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload interface{}, resultKey string, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, endpoint, body, "application/json", resultKey, out)
}

// ListInvoices returns invoices matching the filter.
func (c *Client) ListInvoices(ctx context.Context, filter ListInvoicesFilter) ([]Invoice, error) {
	query := url.Values{}
	if filter.DateFrom != "" {
		query.Set("search[date_min]", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query.Set("search[date_max]", filter.DateTo)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(filter.PerPage))
	}

	endpoint := fmt.Sprintf("/accounting/account/%s/invoices/invoices", c.accountID)
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, endpoint, nil, "", "invoices", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetInvoice fetches a single invoice by id.
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	endpoint := fmt.Sprintf("/accounting/account/%s/invoices/invoices/%s", c.accountID, invoiceID)
	var invoice Invoice
	if err := c.do(ctx, http.MethodGet, endpoint, nil, "", "invoice", &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice creates a new invoice.
func (c *Client) CreateInvoice(ctx context.Context, invoice *Invoice) (*Invoice, error) {
	endpoint := fmt.Sprintf("/accounting/account/%s/invoices/invoices", c.accountID)
	payload := map[string]*Invoice{"invoice": invoice}
	var created Invoice
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, "invoice", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInvoice applies a partial update to an invoice.
func (c *Client) UpdateInvoice(ctx context.Context, invoiceID string, patch InvoicePatch) (*Invoice, error) {
	endpoint := fmt.Sprintf("/accounting/account/%s/invoices/invoices/%s", c.accountID, invoiceID)
	payload := map[string]InvoicePatch{"invoice": patch}
	var updated Invoice
	if err := c.doJSON(ctx, http.MethodPut, endpoint, payload, "invoice", &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UploadAttachment uploads file content and returns the attachment handle
// FreshBooks expects back on an invoice update.
func (c *Client) UploadAttachment(ctx context.Context, filename string, content []byte) (*Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("content", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	endpoint := fmt.Sprintf("/uploads/account/%s/attachments", c.accountID)
	var attachment Attachment
	if err := c.do(ctx, http.MethodPost, endpoint, &buf, writer.FormDataContentType(), "attachment", &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// RegisterWebhookCallback subscribes uri to the named event.
func (c *Client) RegisterWebhookCallback(ctx context.Context, uri, event string) (*Callback, error) {
	endpoint := fmt.Sprintf("/events/account/%s/events/callbacks", c.accountID)
	payload := map[string]Callback{"callback": {URI: uri, Event: event}}
	var callback Callback
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, "callback", &callback); err != nil {
		return nil, err
	}
	return &callback, nil
}

// VerifyWebhookCallback completes the one-time verifier exchange that
// activates a webhook subscription.
func (c *Client) VerifyWebhookCallback(ctx context.Context, callbackID, verifier string) error {
	endpoint := fmt.Sprintf("/events/account/%s/events/callbacks/%s", c.accountID, callbackID)
	payload := map[string]map[string]string{"callback": {"verifier": verifier}}
	return c.doJSON(ctx, http.MethodPut, endpoint, payload, "", nil)
}

// ResendVerificationCode asks FreshBooks to re-deliver the verifier for a
// pending webhook subscription.
func (c *Client) ResendVerificationCode(ctx context.Context, callbackID string) error {
	endpoint := fmt.Sprintf("/events/account/%s/events/callbacks/%s/resend", c.accountID, callbackID)
	return c.doJSON(ctx, http.MethodPut, endpoint, struct{}{}, "", nil)
}
