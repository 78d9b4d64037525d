package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
)

// Purchase is a pending buy recorded at preference-creation time. The
// external reference ties a later gateway webhook back to it.
type Purchase struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	BuyerID     string    `json:"buyer_id"`
	BuyerEmail  string    `json:"buyer_email"`
	BuyerName   string    `json:"buyer_name"`
	Price       float64   `json:"price"`
	ExternalRef string    `json:"external_ref"`
	Status      string    `json:"status"` // pending, completed
	CreatedAt   time.Time `json:"created_at"`
}

type PreferenceResult struct {
	PreferenceID     string `json:"preference_id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
	ExternalRef      string `json:"external_reference"`
}

type PaymentStatus struct {
	PaymentID    string          `json:"payment_id"`
	Status       string          `json:"status"`
	StatusDetail string          `json:"status_detail"`
	Amount       decimal.Decimal `json:"transaction_amount"`
	ExternalRef  string          `json:"external_reference"`
	CreatedAt    string          `json:"date_created,omitempty"`
	ApprovedAt   string          `json:"date_approved,omitempty"`
}

// WebhookOutcome is the normalized result of a gateway webhook delivery.
// Processed is false for anything that is not a payment notification.
type WebhookOutcome struct {
	Processed   bool            `json:"processed"`
	PaymentID   string          `json:"payment_id,omitempty"`
	Status      string          `json:"status,omitempty"`
	ExternalRef string          `json:"external_reference,omitempty"`
	Amount      decimal.Decimal `json:"transaction_amount,omitempty"`
	TicketID    string          `json:"ticket_id,omitempty"`
}

type RefundResult struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}
