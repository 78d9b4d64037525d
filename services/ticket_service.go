package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ticketmetal/internal/status"
	"ticketmetal/models"
	"ticketmetal/store"
)

// TicketService owns the purchase rules: an event must be active, not sold
// out and inside its sales window before a ticket row is written.
type TicketService struct {
	events  store.EventStore
	tickets store.TicketStore
}

func NewTicketService(events store.EventStore, tickets store.TicketStore) *TicketService {
	return &TicketService{
		events:  events,
		tickets: tickets,
	}
}

type PurchaseRequest struct {
	EventID string
	BuyerID string

	// PriceOverride pins the amount actually paid when the purchase is
	// finalized from a payment webhook; nil takes the event's current price.
	PriceOverride *float64

	// ExternalRef links the ticket back to a gateway payment, empty for
	// direct purchases.
	ExternalRef string
}

// Purchasable returns the event when tickets can still be bought for it.
func (s *TicketService) Purchasable(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.events.ByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.IsActive {
		return nil, status.ErrEventInactive
	}
	if event.TicketsSold >= event.MaxTickets {
		return nil, status.ErrSoldOut
	}
	if !event.SalesEndDate.IsZero() && time.Now().After(event.SalesEndDate) {
		return nil, status.ErrSalesEnded
	}
	return event, nil
}

// Purchase creates a ticket for the buyer. The sold count read here is only
// a pre-check; the store's unique (event, seq) index settles races.
func (s *TicketService) Purchase(ctx context.Context, req PurchaseRequest) (*models.Ticket, error) {
	event, err := s.Purchasable(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	price := event.Price
	if req.PriceOverride != nil {
		price = *req.PriceOverride
	}

	seq := event.TicketsSold + 1
	ticket, err := s.tickets.Create(ctx, store.TicketCreate{
		EventID:      event.ID,
		BuyerID:      req.BuyerID,
		TicketNumber: models.TicketNumber(event.ID, seq),
		QRCode:       uuid.NewString(),
		Seq:          seq,
		PricePaid:    price,
		ExternalRef:  req.ExternalRef,
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
