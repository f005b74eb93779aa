package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeReturnsAuthorizationURL(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody initializeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc123"}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret", srv.URL)
	url, err := client.Initialize(context.Background(), "amina@example.com", 200000, "ref-1", "https://shop.example/payment/verify", 7, 3)
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.paystack.com/abc123", url)
	assert.Equal(t, "/transaction/initialize", gotPath)
	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, int64(200000), gotBody.Amount)
	assert.Equal(t, "ref-1", gotBody.Reference)
	assert.Equal(t, FlexInt(7), gotBody.Metadata.OrderID)
	assert.Equal(t, FlexInt(3), gotBody.Metadata.UserID)
}

func TestInitializeGatewayDownIsRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient("sk_test_secret", srv.URL)
	_, err := client.Initialize(context.Background(), "a@b.c", 100, "ref", "cb", 1, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestInitializeApiErrorIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	client := NewClient("sk_bad", srv.URL)
	_, err := client.Initialize(context.Background(), "a@b.c", 100, "ref", "cb", 1, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestVerifyParsesTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-9", r.URL.Path)
		w.Write([]byte(`{"status":true,"data":{"status":"success","reference":"ref-9","amount":200000,"metadata":{"order_id":"7","user_id":3}}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret", srv.URL)
	txn, err := client.Verify(context.Background(), "ref-9")
	require.NoError(t, err)

	assert.Equal(t, "success", txn.Status)
	assert.Equal(t, int64(200000), txn.Amount)
	// Metadata ids arrive as strings or numbers depending on the gateway mood.
	assert.Equal(t, FlexInt(7), txn.Metadata.OrderID)
	assert.Equal(t, FlexInt(3), txn.Metadata.UserID)
}

func TestVerifyUnsuccessfulTransactionIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{"status":"abandoned","reference":"ref-9","amount":0,"metadata":{}}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret", srv.URL)
	txn, err := client.Verify(context.Background(), "ref-9")
	require.NoError(t, err)
	assert.Equal(t, "abandoned", txn.Status)
}

func TestFlexIntToleratesGarbage(t *testing.T) {
	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"order_id":"not-a-number","user_id":12}`), &m))
	assert.Equal(t, FlexInt(-1), m.OrderID)
	assert.Equal(t, FlexInt(12), m.UserID)
}
