// Package paystack wraps the two outbound gateway calls the storefront
// makes: creating a hosted payment session and verifying a transaction.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable marks transport-level failures (timeout, refused, bad
// response body). Callers treat it as retryable, distinct from a declined
// payment.
var ErrUnavailable = errors.New("payment gateway unreachable")

const defaultTimeout = 20 * time.Second

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// FlexInt tolerates gateways echoing metadata ids back as either numbers or
// strings. Unparseable values become -1, which never matches a real id.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = -1
		return nil
	}
	*f = FlexInt(n)
	return nil
}

type Metadata struct {
	OrderID FlexInt `json:"order_id"`
	UserID  FlexInt `json:"user_id"`
}

// Transaction is the gateway's record of a payment, as returned by verify
// and carried in webhook events.
type Transaction struct {
	Status    string   `json:"status"` // "success" when paid
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"` // minor units
	Metadata  Metadata `json:"metadata"`
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	Reference   string   `json:"reference"`
	CallbackURL string   `json:"callback_url"`
	Metadata    Metadata `json:"metadata"`
}

// Initialize creates a hosted payment session and returns the authorization
// URL the customer is redirected to. The order's payment reference doubles
// as the gateway idempotency key.
func (c *Client) Initialize(ctx context.Context, email string, amountMinor int64, reference, callbackURL string, orderID, userID uint) (string, error) {
	payload := initializeRequest{
		Email:       email,
		Amount:      amountMinor,
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata: Metadata{
			OrderID: FlexInt(orderID),
			UserID:  FlexInt(userID),
		},
	}

	body, err := c.post(ctx, "/transaction/initialize", payload)
	if err != nil {
		return "", err
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("%w: malformed initialize response", ErrUnavailable)
	}
	if data.AuthorizationURL == "" {
		return "", fmt.Errorf("%w: empty authorization URL", ErrUnavailable)
	}
	return data.AuthorizationURL, nil
}

// Verify fetches the gateway's record for a reference. A successful call
// with a non-success transaction status is not an error here; the caller
// decides what an unsuccessful payment means for the order.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	body, err := c.get(ctx, "/transaction/verify/"+reference)
	if err != nil {
		return nil, err
	}

	var txn Transaction
	if err := json.Unmarshal(body, &txn); err != nil {
		return nil, fmt.Errorf("%w: malformed verify response", ErrUnavailable)
	}
	if txn.Reference == "" {
		txn.Reference = reference
	}
	return &txn, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: non-JSON response (%d)", ErrUnavailable, resp.StatusCode)
	}
	if !env.Status {
		if env.Message == "" {
			env.Message = fmt.Sprintf("gateway error (%d)", resp.StatusCode)
		}
		return nil, errors.New(env.Message)
	}
	return env.Data, nil
}
