// Package mpesa talks to the Safaricom Daraja API: OAuth token exchange,
// STK push initiation and STK push status queries.
package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/config"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
)

const (
	tokenPath    = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath  = "/mpesa/stkpush/v1/processrequest"
	stkQueryPath = "/mpesa/stkpushquery/v1/query"

	responseCodeAccepted = "0"
)

// InitiateResult identifies an accepted STK push.
type InitiateResult struct {
	CheckoutRequestID string
	MerchantRequestID string
	CustomerMessage   string
}

// StatusResult is the provider's current view of an STK push.
type StatusResult struct {
	ResultCode    string
	ResultDesc    string
	ReceiptNumber string
}

type Client struct {
	baseURL         string
	consumerKey     string
	consumerSecret  string
	shortCode       string
	passkey         string
	transactionType string

	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock replaces the clock used to stamp signed requests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(cfg config.MpesaConfig, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:         cfg.ResolveBaseURL(),
		consumerKey:     cfg.ConsumerKey,
		consumerSecret:  cfg.ConsumerSecret,
		shortCode:       cfg.ShortCode,
		passkey:         cfg.Passkey,
		transactionType: cfg.TransactionType,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
		now:    time.Now,
		logger: logger.With("component", "mpesa"),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessToken exchanges the consumer key and secret for a bearer token.
// Tokens are not cached; every signed call fetches its own.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tokenPath, nil)
	if err != nil {
		return "", &CredentialError{Message: "error creating request", Err: err}
	}
	httpReq.Header.Set("Authorization", basicAuth(c.consumerKey, c.consumerSecret))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &CredentialError{Message: "error making request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CredentialError{StatusCode: resp.StatusCode, Message: "error reading response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &CredentialError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &CredentialError{StatusCode: resp.StatusCode, Message: "error decoding token response", Err: err}
	}
	if tr.AccessToken == "" {
		return "", &CredentialError{StatusCode: resp.StatusCode, Message: "response carried no access token"}
	}

	return tr.AccessToken, nil
}

// Initiate asks the provider to prompt the customer's phone for approval.
func (c *Client) Initiate(ctx context.Context, req domain.PaymentRequest) (*InitiateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	phone, err := NormalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	resp, err := postSigned[STKPushRequest, STKPushResponse](ctx, c, "initiate", stkPushPath, func(sig Signature) STKPushRequest {
		return STKPushRequest{
			BusinessShortCode: sig.ShortCode,
			Password:          sig.Password,
			Timestamp:         sig.Timestamp,
			TransactionType:   c.transactionType,
			Amount:            req.Amount,
			PartyA:            phone,
			PartyB:            sig.ShortCode,
			PhoneNumber:       phone,
			CallBackURL:       req.CallbackURL,
			AccountReference:  req.AccountReference,
			TransactionDesc:   req.Description,
		}
	})
	if err != nil {
		if te, ok := IsTransportError(err); ok && te.ErrorCode != "" &&
			te.StatusCode >= 400 && te.StatusCode < 500 {
			return nil, &InitiationRejected{ResponseCode: te.ErrorCode, Description: te.Message}
		}
		return nil, err
	}

	if string(resp.ResponseCode) != responseCodeAccepted || resp.CheckoutRequestID == "" {
		c.logger.Warn("stk push rejected",
			"response_code", resp.ResponseCode,
			"description", resp.ResponseDescription,
		)
		return nil, &InitiationRejected{
			ResponseCode: string(resp.ResponseCode),
			Description:  resp.ResponseDescription,
		}
	}

	c.logger.Info("stk push accepted",
		"checkout_request_id", resp.CheckoutRequestID,
		"merchant_request_id", resp.MerchantRequestID,
	)

	return &InitiateResult{
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

// QueryStatus asks the provider for the current result of an STK push.
func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusResult, error) {
	if checkoutRequestID == "" {
		return nil, domain.NewMissingRequiredFieldError("checkout request ID")
	}

	resp, err := postSigned[STKQueryRequest, STKQueryResponse](ctx, c, "query", stkQueryPath, func(sig Signature) STKQueryRequest {
		return STKQueryRequest{
			BusinessShortCode: sig.ShortCode,
			Password:          sig.Password,
			Timestamp:         sig.Timestamp,
			CheckoutRequestID: checkoutRequestID,
		}
	})
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		ResultCode:    string(resp.ResultCode),
		ResultDesc:    resp.ResultDesc,
		ReceiptNumber: resp.MpesaReceiptNumber,
	}, nil
}

func (c *Client) sign() Signature {
	ts := Timestamp(c.now())
	return Signature{
		ShortCode: c.shortCode,
		Password:  Password(c.shortCode, c.passkey, ts),
		Timestamp: ts,
	}
}

// postSigned fetches a fresh token, signs the body built by build and posts it to path.
func postSigned[Req any, Resp any](ctx context.Context, c *Client, op, path string, build func(Signature) Req) (*Resp, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(build(c.sign()))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("error marshalling json: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("error creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("error making request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("error reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.ErrorCode == "" {
			return nil, &TransportError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(body)),
			}
		}
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			ErrorCode:  errResp.ErrorCode,
			Message:    errResp.ErrorMessage,
		}
	}

	var out Resp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("error decoding json response: %w", err)}
	}

	return &out, nil
}
