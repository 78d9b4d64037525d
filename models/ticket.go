package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	TicketStatusActive    = "active"
	TicketStatusUsed      = "used"
	TicketStatusCancelled = "cancelled"
)

// QRPrefix is prepended to a ticket's QR payload before encoding, so a
// scanner can recognize tickets issued by this system.
const QRPrefix = "TICKETMETAL:"

type Ticket struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	BuyerID      string     `json:"buyer_id"`
	TicketNumber string     `json:"ticket_number"`
	QRCode       string     `json:"qr_code"`
	Seq          int        `json:"seq"`
	PricePaid    float64    `json:"price_paid"`
	Status       string     `json:"status"` // active, used, cancelled
	ExternalRef  string     `json:"external_ref,omitempty"`
	PurchasedAt  time.Time  `json:"purchased_at"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
}

type TicketUpdate struct {
	Status *string    `json:"status"`
	UsedAt *time.Time `json:"used_at"`
}

// TicketNumber builds the human-readable number for the seq-th ticket of an
// event. Event ids are unique, so numbers are unique as long as seq is
// unique within the event.
func TicketNumber(eventID string, seq int) string {
	return fmt.Sprintf("TM%s%04d", strings.ToUpper(eventID), seq)
}

// QRPayload is the full string encoded into a ticket's QR image.
func QRPayload(qrCode string) string {
	return QRPrefix + qrCode
}
