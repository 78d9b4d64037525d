package mpago

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(&ClientConfig{
		BaseURL:     srv.URL,
		AccessToken: "test-token",
	})
	return client, srv
}

func TestCreatePreference(t *testing.T) {
	var gotAuth string
	var raw []byte
	var gotBody PreferenceRequest

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		var err error
		raw, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		json.NewEncoder(w).Encode(Preference{
			ID:        "pref-1",
			InitPoint: "https://gateway.example.com/pref-1",
		})
	})
	defer srv.Close()

	pref, err := client.CreatePreference(context.Background(), &PreferenceRequest{
		Items: []Item{{
			Title:      "Ingresso - Show",
			Quantity:   1,
			UnitPrice:  decimal.NewFromFloat(150),
			CurrencyID: "BRL",
		}},
		ExternalReference: "REF1",
	})

	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "REF1", gotBody.ExternalReference)
	require.Len(t, gotBody.Items, 1)
	assert.True(t, gotBody.Items[0].UnitPrice.Equal(decimal.NewFromFloat(150)))
	assert.Contains(t, string(raw), `"unit_price":150`, "unit price must be a JSON number")
}

func TestPayment(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/payments/123", r.URL.Path)

		json.NewEncoder(w).Encode(Payment{
			ID:                123,
			Status:            "approved",
			TransactionAmount: decimal.NewFromFloat(150),
			ExternalReference: "REF1",
		})
	})
	defer srv.Close()

	payment, err := client.Payment(context.Background(), "123")

	require.NoError(t, err)
	assert.Equal(t, int64(123), payment.ID)
	assert.Equal(t, "approved", payment.Status)
	assert.Equal(t, "REF1", payment.ExternalReference)
}

func TestRefundPayment_PartialAmountBody(t *testing.T) {
	var raw []byte

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/123/refunds", r.URL.Path)
		var err error
		raw, err = io.ReadAll(r.Body)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(Refund{ID: 9, Status: "approved"})
	})
	defer srv.Close()

	amount := decimal.NewFromFloat(50)
	refund, err := client.RefundPayment(context.Background(), "123", &amount)

	require.NoError(t, err)
	assert.Equal(t, int64(9), refund.ID)
	// The amount must go over the wire as a JSON number, not a string.
	assert.JSONEq(t, `{"amount":50}`, string(raw))
}

func TestRefundPayment_FullHasEmptyBody(t *testing.T) {
	var bodyLen int64

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		bodyLen = r.ContentLength
		json.NewEncoder(w).Encode(Refund{ID: 10, Status: "approved"})
	})
	defer srv.Close()

	_, err := client.RefundPayment(context.Background(), "123", nil)

	require.NoError(t, err)
	assert.LessOrEqual(t, bodyLen, int64(0), "full refund sends no body")
}

func TestDo_ErrorCarriesGatewayMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid access token"})
	})
	defer srv.Close()

	_, err := client.Payment(context.Background(), "123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid access token")
	assert.Contains(t, err.Error(), "status 400")
}
