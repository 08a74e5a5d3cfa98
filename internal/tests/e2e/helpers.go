package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application/checkout"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/interfaces/rest"
	"github.com/stretchr/testify/require"
)

// fakeDaraja serves the OAuth, STK push and STK query endpoints. Status
// queries are answered from a script; the last entry repeats once the script
// runs out.
type fakeDaraja struct {
	*httptest.Server

	mu         sync.Mutex
	pushStatus int
	pushBody   string
	script     []string
	queries    int
}

func newFakeDaraja(t *testing.T) *fakeDaraja {
	t.Helper()

	f := &fakeDaraja{
		pushStatus: http.StatusOK,
		pushBody: `{"MerchantRequestID":"29115-34620561-1","CheckoutRequestID":"ws_CO_e2e",` +
			`"ResponseCode":"0","ResponseDescription":"Success. Request accepted for processing",` +
			`"CustomerMessage":"Success. Request accepted for processing"}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"e2e-token","expires_in":"3599"}`)
	})
	mux.HandleFunc("POST /mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.WriteHeader(f.pushStatus)
		_, _ = io.WriteString(w, f.pushBody)
	})
	mux.HandleFunc("POST /mpesa/stkpushquery/v1/query", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		body := `{"ResultCode":"1037","ResultDesc":"DS timeout user cannot be reached"}`
		if len(f.script) > 0 {
			idx := min(f.queries, len(f.script)-1)
			body = f.script[idx]
		}
		f.queries++
		_, _ = io.WriteString(w, body)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeDaraja) answer(script ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = script
	f.queries = 0
}

func (f *fakeDaraja) rejectPush(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushStatus = status
	f.pushBody = body
}

func (f *fakeDaraja) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func statusBody(code, desc, receipt string) string {
	body := fmt.Sprintf(`{"ResponseCode":"0","CheckoutRequestID":"ws_CO_e2e","ResultCode":%q,"ResultDesc":%q`, code, desc)
	if receipt != "" {
		body += fmt.Sprintf(`,"MpesaReceiptNumber":%q`, receipt)
	}
	return body + "}"
}

// TestClient wraps HTTP calls to the checkout API
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *rest.APIError  `json:"error"`
}

func (c *TestClient) call(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// Pay calls POST /v1/payments
func (c *TestClient) Pay(t *testing.T, req rest.PayRequest) (int, checkout.View) {
	t.Helper()
	status, env := c.call(t, http.MethodPost, "/v1/payments", req)
	var view checkout.View
	if env.Success {
		require.NoError(t, json.Unmarshal(env.Data, &view))
	}
	return status, view
}

// Current calls GET /v1/payments/current
func (c *TestClient) Current(t *testing.T) checkout.View {
	t.Helper()
	_, env := c.call(t, http.MethodGet, "/v1/payments/current", nil)
	var view checkout.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}

// Reset calls POST /v1/payments/current/reset
func (c *TestClient) Reset(t *testing.T) (int, *rest.APIError) {
	t.Helper()
	status, env := c.call(t, http.MethodPost, "/v1/payments/current/reset", nil)
	return status, env.Error
}

// Abandon calls POST /v1/payments/current/abandon
func (c *TestClient) Abandon(t *testing.T) checkout.View {
	t.Helper()
	_, env := c.call(t, http.MethodPost, "/v1/payments/current/abandon", nil)
	var view checkout.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}

// WaitForOutcome polls the current view until it leaves AWAITING_APPROVAL.
func (c *TestClient) WaitForOutcome(t *testing.T, timeout time.Duration) checkout.View {
	t.Helper()

	var view checkout.View
	require.Eventually(t, func() bool {
		view = c.Current(t)
		return view.State != domain.StateAwaitingApproval
	}, timeout, 5*time.Millisecond)
	return view
}
