// Package client talks to the investment store over HTTP/JSON.
//
// Every failure is returned as an *apperrors.AppError with CodeFetch or
// CodeCreate. When the store explained a rejection, the cause is a
// *StatusError whose Reason carries that explanation. The client never
// retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/logging"
	"github.com/sheikh-saqib/farminvest/internal/models"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20

	msgFetchFailed  = "failed to fetch investments"
	msgCreateFailed = "failed to create investment"
	msgTimedOut     = "request timed out"
)

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string // the body's "error" field, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store responded %d", e.StatusCode)
}

// Reason returns the explanation the store put in the response body.
func (e *StatusError) Reason() (string, bool) {
	return e.Message, e.Message != ""
}

var _ interfaces.ReasonError = (*StatusError)(nil)

// Client is the HTTP adapter for the investments API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client, timeout included.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API rooted at baseURL, e.g. http://host:3000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListInvestments fetches every investment, newest first.
func (c *Client) ListInvestments(ctx context.Context) ([]models.Investment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/investments", nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFetch, msgFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	var investments []models.Investment
	if err := c.do(req, http.StatusOK, &investments); err != nil {
		c.logger.WarnContext(ctx, "list investments failed", "error", err)
		return nil, apperrors.Wrap(apperrors.CodeFetch, failureMessage(err, msgFetchFailed), err)
	}
	if investments == nil {
		investments = []models.Investment{}
	}
	return investments, nil
}

// CreateInvestment submits one validated input and returns the durable record.
func (c *Client) CreateInvestment(ctx context.Context, in models.Input) (models.Investment, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return models.Investment{}, apperrors.Wrap(apperrors.CodeCreate, msgCreateFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/investments", bytes.NewReader(body))
	if err != nil {
		return models.Investment{}, apperrors.Wrap(apperrors.CodeCreate, msgCreateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var inv models.Investment
	if err := c.do(req, http.StatusCreated, &inv); err != nil {
		c.logger.WarnContext(ctx, "create investment failed", "error", err)
		return models.Investment{}, apperrors.Wrap(apperrors.CodeCreate, failureMessage(err, msgCreateFailed), err)
	}
	return inv, nil
}

// do sends req and decodes a successful body into out. Any 2xx status is
// accepted; want is only used for logging mismatches.
func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			statusErr.Message = strings.TrimSpace(body.Error)
		}
		return statusErr
	}
	if resp.StatusCode != want {
		c.logger.DebugContext(req.Context(), "unexpected success status", "status", resp.StatusCode, "want", want)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// failureMessage keeps transport detail out of the user-facing message.
func failureMessage(err error, fallback string) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return msgTimedOut
	}
	return fallback
}

var _ interfaces.RemoteStore = (*Client)(nil)
