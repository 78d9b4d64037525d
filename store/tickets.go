package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/internal/status"
	"ticketmetal/models"
)

type pbTickets struct {
	app core.App
}

// Create persists a new ticket. The unique (event, seq) index is the
// capacity guard: when two purchases race for the last seat, the losing
// write trips the index and surfaces as ErrSoldOut.
func (s *pbTickets) Create(ctx context.Context, in TicketCreate) (*models.Ticket, error) {
	record, err := newRecord(s.app, CollectionTickets)
	if err != nil {
		return nil, err
	}

	record.Set("event", in.EventID)
	record.Set("buyer", in.BuyerID)
	record.Set("ticket_number", in.TicketNumber)
	record.Set("qr_code", in.QRCode)
	record.Set("seq", in.Seq)
	record.Set("price_paid", in.PricePaid)
	record.Set("status", models.TicketStatusActive)
	record.Set("external_ref", in.ExternalRef)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "external_ref") {
				return nil, status.ErrDuplicateReference
			}
			return nil, status.ErrSoldOut
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticketFromRecord(record), nil
}

func (s *pbTickets) ByID(ctx context.Context, id string) (*models.Ticket, error) {
	record, err := s.app.FindRecordById(CollectionTickets, id)
	if err != nil {
		return nil, asStoreError(err)
	}
	return ticketFromRecord(record), nil
}

func (s *pbTickets) ByQR(ctx context.Context, qrCode string) (*models.Ticket, error) {
	record, err := s.app.FindFirstRecordByData(CollectionTickets, "qr_code", qrCode)
	if err != nil {
		return nil, asStoreError(err)
	}
	return ticketFromRecord(record), nil
}

func (s *pbTickets) ByExternalRef(ctx context.Context, ref string) (*models.Ticket, error) {
	record, err := s.app.FindFirstRecordByData(CollectionTickets, "external_ref", ref)
	if err != nil {
		return nil, asStoreError(err)
	}
	return ticketFromRecord(record), nil
}

func (s *pbTickets) ByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionTickets,
		"buyer = {:buyer}",
		"",
		0,
		0,
		dbx.Params{"buyer": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("list tickets by user: %w", err)
	}
	return ticketsFromRecords(records), nil
}

func (s *pbTickets) ByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionTickets,
		"event = {:event}",
		"",
		0,
		0,
		dbx.Params{"event": eventID},
	)
	if err != nil {
		return nil, fmt.Errorf("list tickets by event: %w", err)
	}
	return ticketsFromRecords(records), nil
}

func (s *pbTickets) Update(ctx context.Context, id string, upd models.TicketUpdate) (*models.Ticket, error) {
	record, err := s.app.FindRecordById(CollectionTickets, id)
	if err != nil {
		return nil, asStoreError(err)
	}

	if upd.Status != nil {
		record.Set("status", *upd.Status)
	}
	if upd.UsedAt != nil {
		record.Set("used_at", *upd.UsedAt)
	}

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	return ticketFromRecord(record), nil
}

func (s *pbTickets) Delete(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById(CollectionTickets, id)
	if err != nil {
		return asStoreError(err)
	}
	return s.app.DeleteWithContext(ctx, record)
}

func ticketFromRecord(r *core.Record) *models.Ticket {
	t := &models.Ticket{
		ID:           r.Id,
		EventID:      r.GetString("event"),
		BuyerID:      r.GetString("buyer"),
		TicketNumber: r.GetString("ticket_number"),
		QRCode:       r.GetString("qr_code"),
		Seq:          r.GetInt("seq"),
		PricePaid:    r.GetFloat("price_paid"),
		Status:       r.GetString("status"),
		ExternalRef:  r.GetString("external_ref"),
		PurchasedAt:  r.GetDateTime("created").Time(),
	}
	if used := r.GetDateTime("used_at"); !used.IsZero() {
		usedAt := used.Time()
		t.UsedAt = &usedAt
	}
	return t
}

func ticketsFromRecords(records []*core.Record) []models.Ticket {
	tickets := make([]models.Ticket, 0, len(records))
	for _, r := range records {
		tickets = append(tickets, *ticketFromRecord(r))
	}
	return tickets
}
