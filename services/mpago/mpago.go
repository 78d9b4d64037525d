package mpago

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type Item struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CurrencyID  string          `json:"currency_id"`
}

type Payer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PreferenceRequest struct {
	Items               []Item         `json:"items"`
	Payer               Payer          `json:"payer"`
	BackURLs            BackURLs       `json:"back_urls"`
	AutoReturn          string         `json:"auto_return,omitempty"`
	ExternalReference   string         `json:"external_reference"`
	NotificationURL     string         `json:"notification_url,omitempty"`
	StatementDescriptor string         `json:"statement_descriptor,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type Payment struct {
	ID                int64           `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	ExternalReference string          `json:"external_reference"`
	DateCreated       string          `json:"date_created"`
	DateApproved      string          `json:"date_approved"`
}

type Refund struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// CreatePreference registers a checkout preference and returns the redirect
// links the buyer is sent to.
func (c *Client) CreatePreference(ctx context.Context, req *PreferenceRequest) (*Preference, error) {
	var pref Preference
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", req, &pref); err != nil {
		return nil, err
	}
	return &pref, nil
}

// Payment looks up a payment by the id the gateway assigned to it.
func (c *Client) Payment(ctx context.Context, paymentID string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// RefundPayment refunds a payment, fully when amount is nil.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount *decimal.Decimal) (*Refund, error) {
	var payload any
	if amount != nil {
		payload = map[string]decimal.Decimal{"amount": *amount}
	}

	var refund Refund
	path := fmt.Sprintf("/v1/payments/%s/refunds", paymentID)
	if err := c.do(ctx, http.MethodPost, path, payload, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}
