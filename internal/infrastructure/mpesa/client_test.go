package mpesa_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/config"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 7, 9, 5, 1, 0, time.Local)

type darajaStub struct {
	tokenStatus int
	tokenBody   string
	tokenCalls  atomic.Int32
	handler     http.HandlerFunc

	mu       sync.Mutex
	lastPath string
	lastAuth string
	lastBody map[string]any
}

func (s *darajaStub) last() (string, string, map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath, s.lastAuth, s.lastBody
}

func newDarajaStub(t *testing.T, handler http.HandlerFunc) (*darajaStub, *mpesa.Client) {
	t.Helper()

	stub := &darajaStub{
		tokenStatus: http.StatusOK,
		tokenBody:   `{"access_token":"tok-123","expires_in":"3599"}`,
		handler:     handler,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			stub.tokenCalls.Add(1)
			expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("key:secret"))
			if r.Header.Get("Authorization") != expected || r.URL.Query().Get("grant_type") != "client_credentials" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(stub.tokenStatus)
			_, _ = io.WriteString(w, stub.tokenBody)
			return
		}

		body, _ := io.ReadAll(r.Body)
		decoded := map[string]any{}
		_ = json.Unmarshal(body, &decoded)

		stub.mu.Lock()
		stub.lastPath = r.URL.Path
		stub.lastAuth = r.Header.Get("Authorization")
		stub.lastBody = decoded
		stub.mu.Unlock()

		stub.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.MpesaConfig{
		ConsumerKey:     "key",
		ConsumerSecret:  "secret",
		ShortCode:       "174379",
		Passkey:         "passkey",
		Environment:     config.EnvSandbox,
		BaseURL:         srv.URL,
		TransactionType: "CustomerPayBillOnline",
		ConnTimeout:     5 * time.Second,
	}

	client := mpesa.NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)),
		mpesa.WithClock(func() time.Time { return fixedNow }),
	)
	return stub, client
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func validRequest() domain.PaymentRequest {
	return domain.PaymentRequest{
		PhoneNumber:      "0712345678",
		Amount:           500,
		AccountReference: "LEARNBOT_PRO",
		Description:      "LearnBot pro Subscription",
		CallbackURL:      "https://example.com/api/mpesa/callback",
	}
}

func TestClient_AccessToken(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		_, client := newDarajaStub(t, nil)

		token, err := client.AccessToken(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
	})

	t.Run("non-2xx is a credential error", func(t *testing.T) {
		stub, client := newDarajaStub(t, nil)
		stub.tokenStatus = http.StatusBadRequest
		stub.tokenBody = `{"errorMessage":"Invalid credentials"}`

		token, err := client.AccessToken(context.Background())

		require.Error(t, err)
		assert.Empty(t, token)
		credErr, ok := mpesa.IsCredentialError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, credErr.StatusCode)
	})

	t.Run("missing token field is a credential error", func(t *testing.T) {
		stub, client := newDarajaStub(t, nil)
		stub.tokenBody = `{"expires_in":"3599"}`

		_, err := client.AccessToken(context.Background())

		_, ok := mpesa.IsCredentialError(err)
		assert.True(t, ok)
	})

	t.Run("malformed body is a credential error", func(t *testing.T) {
		stub, client := newDarajaStub(t, nil)
		stub.tokenBody = `not json`

		_, err := client.AccessToken(context.Background())

		_, ok := mpesa.IsCredentialError(err)
		assert.True(t, ok)
	})
}

func TestClient_Initiate(t *testing.T) {
	t.Run("accepted push returns the checkout handle", func(t *testing.T) {
		stub, client := newDarajaStub(t, jsonReply(http.StatusOK, `{
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResponseCode": "0",
			"ResponseDescription": "Success. Request accepted for processing",
			"CustomerMessage": "Success. Request accepted for processing"
		}`))

		res, err := client.Initiate(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "ws_CO_191220191020363925", res.CheckoutRequestID)
		assert.Equal(t, "29115-34620561-1", res.MerchantRequestID)

		path, auth, body := stub.last()
		assert.Equal(t, "/mpesa/stkpush/v1/processrequest", path)
		assert.Equal(t, "Bearer tok-123", auth)

		assert.Equal(t, "174379", body["BusinessShortCode"])
		assert.Equal(t, "20240307090501", body["Timestamp"])
		assert.Equal(t, mpesa.Password("174379", "passkey", "20240307090501"), body["Password"])
		assert.Equal(t, "CustomerPayBillOnline", body["TransactionType"])
		assert.EqualValues(t, 500, body["Amount"])
		assert.Equal(t, "254712345678", body["PartyA"])
		assert.Equal(t, "174379", body["PartyB"])
		assert.Equal(t, "254712345678", body["PhoneNumber"])
		assert.Equal(t, "https://example.com/api/mpesa/callback", body["CallBackURL"])
		assert.Equal(t, "LEARNBOT_PRO", body["AccountReference"])
		assert.Equal(t, "LearnBot pro Subscription", body["TransactionDesc"])
	})

	t.Run("non-zero response code is a rejection", func(t *testing.T) {
		_, client := newDarajaStub(t, jsonReply(http.StatusOK, `{
			"ResponseCode": "1",
			"ResponseDescription": "Insufficient balance"
		}`))

		res, err := client.Initiate(context.Background(), validRequest())

		require.Error(t, err)
		assert.Nil(t, res)
		rejected, ok := mpesa.IsInitiationRejected(err)
		require.True(t, ok)
		assert.Equal(t, "1", rejected.ResponseCode)
		assert.Equal(t, "Insufficient balance", rejected.Error())
	})

	t.Run("numeric response code is accepted", func(t *testing.T) {
		_, client := newDarajaStub(t, jsonReply(http.StatusOK, `{
			"CheckoutRequestID": "ws_CO_1",
			"ResponseCode": 0
		}`))

		res, err := client.Initiate(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "ws_CO_1", res.CheckoutRequestID)
	})

	t.Run("provider error body on 4xx is a rejection", func(t *testing.T) {
		_, client := newDarajaStub(t, jsonReply(http.StatusBadRequest, `{
			"requestId": "req-1",
			"errorCode": "400.002.02",
			"errorMessage": "Bad Request - Invalid PhoneNumber"
		}`))

		_, err := client.Initiate(context.Background(), validRequest())

		rejected, ok := mpesa.IsInitiationRejected(err)
		require.True(t, ok)
		assert.Equal(t, "400.002.02", rejected.ResponseCode)
		assert.Equal(t, "Bad Request - Invalid PhoneNumber", rejected.Description)
	})

	t.Run("server error is a transport error", func(t *testing.T) {
		_, client := newDarajaStub(t, jsonReply(http.StatusServiceUnavailable, `upstream down`))

		_, err := client.Initiate(context.Background(), validRequest())

		transportErr, ok := mpesa.IsTransportError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)
		assert.True(t, transportErr.IsRetryable())
	})

	t.Run("credential failure stops before the push", func(t *testing.T) {
		var pushed atomic.Bool
		stub, client := newDarajaStub(t, func(w http.ResponseWriter, r *http.Request) {
			pushed.Store(true)
		})
		stub.tokenStatus = http.StatusInternalServerError

		_, err := client.Initiate(context.Background(), validRequest())

		_, ok := mpesa.IsCredentialError(err)
		assert.True(t, ok)
		assert.False(t, pushed.Load())
	})

	t.Run("invalid requests never reach the network", func(t *testing.T) {
		cases := map[string]func(*domain.PaymentRequest){
			"zero amount": func(r *domain.PaymentRequest) { r.Amount = 0 },
			"empty phone": func(r *domain.PaymentRequest) { r.PhoneNumber = "  " },
			"short phone": func(r *domain.PaymentRequest) { r.PhoneNumber = "07123" },
			"negative":    func(r *domain.PaymentRequest) { r.Amount = -10 },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				stub, client := newDarajaStub(t, jsonReply(http.StatusOK, `{}`))
				req := validRequest()
				mutate(&req)

				_, err := client.Initiate(context.Background(), req)

				_, isDomain := domain.IsDomainError(err)
				assert.True(t, isDomain)
				assert.Zero(t, stub.tokenCalls.Load())
			})
		}
	})
}

func TestClient_QueryStatus(t *testing.T) {
	t.Run("returns the result code and receipt", func(t *testing.T) {
		stub, client := newDarajaStub(t, jsonReply(http.StatusOK, `{
			"ResponseCode": "0",
			"ResponseDescription": "The service request has been accepted successsfully",
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_1",
			"ResultCode": "0",
			"ResultDesc": "The service request is processed successfully.",
			"MpesaReceiptNumber": "QGR123"
		}`))

		res, err := client.QueryStatus(context.Background(), "ws_CO_1")

		require.NoError(t, err)
		assert.Equal(t, "0", res.ResultCode)
		assert.Equal(t, "QGR123", res.ReceiptNumber)
		path, _, body := stub.last()
		assert.Equal(t, "/mpesa/stkpushquery/v1/query", path)
		assert.Equal(t, "ws_CO_1", body["CheckoutRequestID"])
		assert.Equal(t, "20240307090501", body["Timestamp"])
		assert.Equal(t, mpesa.Password("174379", "passkey", "20240307090501"), body["Password"])
	})

	t.Run("numeric result code", func(t *testing.T) {
		_, client := newDarajaStub(t, jsonReply(http.StatusOK, `{"ResultCode": 1032, "ResultDesc": "Request cancelled by user"}`))

		res, err := client.QueryStatus(context.Background(), "ws_CO_1")

		require.NoError(t, err)
		assert.Equal(t, "1032", res.ResultCode)
	})

	t.Run("fetches a fresh token per call", func(t *testing.T) {
		stub, client := newDarajaStub(t, jsonReply(http.StatusOK, `{"ResultCode": "1037"}`))

		for range 3 {
			_, err := client.QueryStatus(context.Background(), "ws_CO_1")
			require.NoError(t, err)
		}

		assert.EqualValues(t, 3, stub.tokenCalls.Load())
	})

	t.Run("processing error is a transport error", func(t *testing.T) {
		_, client := newDarajaStub(t, jsonReply(http.StatusInternalServerError, `{
			"requestId": "req-2",
			"errorCode": "500.001.1001",
			"errorMessage": "The transaction is being processed"
		}`))

		_, err := client.QueryStatus(context.Background(), "ws_CO_1")

		transportErr, ok := mpesa.IsTransportError(err)
		require.True(t, ok)
		assert.Equal(t, "500.001.1001", transportErr.ErrorCode)
		assert.Equal(t, "The transaction is being processed", transportErr.Message)
	})

	t.Run("cancelled context", func(t *testing.T) {
		_, client := newDarajaStub(t, jsonReply(http.StatusOK, `{}`))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.QueryStatus(ctx, "ws_CO_1")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
