package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"ticketmetal/internal/status"
	"ticketmetal/models"
	"ticketmetal/store"
)

// fakeEventStore serves a fixed set of events keyed by id.
type fakeEventStore struct {
	events map[string]models.Event
}

func newFakeEventStore(events ...models.Event) *fakeEventStore {
	s := &fakeEventStore{events: make(map[string]models.Event)}
	for _, ev := range events {
		s.events[ev.ID] = ev
	}
	return s
}

func (s *fakeEventStore) ByID(_ context.Context, id string) (*models.Event, error) {
	ev, ok := s.events[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	return &ev, nil
}

func (s *fakeEventStore) Create(context.Context, models.EventCreate) (*models.Event, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeEventStore) List(context.Context, int, int) ([]models.Event, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeEventStore) ByOrganizer(context.Context, string) ([]models.Event, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeEventStore) Update(context.Context, string, models.EventUpdate) (*models.Event, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeEventStore) Delete(context.Context, string) error {
	return errors.New("not implemented")
}

func (s *fakeEventStore) SoldCount(_ context.Context, id string) (int, error) {
	ev, ok := s.events[id]
	if !ok {
		return 0, status.ErrNotFound
	}
	return ev.TicketsSold, nil
}

func (s *fakeEventStore) Stats(context.Context, string) (*models.EventStats, error) {
	return nil, errors.New("not implemented")
}

// fakeTicketStore appends created tickets in memory and enforces the
// per-event seq and external_ref uniqueness the real store gets from its
// indexes.
type fakeTicketStore struct {
	mu      sync.Mutex
	nextID  int
	created []models.Ticket

	createErr error
}

func (s *fakeTicketStore) Create(_ context.Context, in store.TicketCreate) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, t := range s.created {
		if t.EventID == in.EventID && t.Seq == in.Seq {
			return nil, status.ErrSoldOut
		}
		if in.ExternalRef != "" && t.ExternalRef == in.ExternalRef {
			return nil, status.ErrDuplicateReference
		}
	}

	s.nextID++
	ticket := models.Ticket{
		ID:           "tkt" + strconv.Itoa(s.nextID),
		EventID:      in.EventID,
		BuyerID:      in.BuyerID,
		TicketNumber: in.TicketNumber,
		QRCode:       in.QRCode,
		Seq:          in.Seq,
		PricePaid:    in.PricePaid,
		Status:       models.TicketStatusActive,
		ExternalRef:  in.ExternalRef,
	}
	s.created = append(s.created, ticket)
	return &ticket, nil
}

func (s *fakeTicketStore) ByID(_ context.Context, id string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.created {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, status.ErrNotFound
}

func (s *fakeTicketStore) ByQR(_ context.Context, qrCode string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.created {
		if t.QRCode == qrCode {
			return &t, nil
		}
	}
	return nil, status.ErrNotFound
}

func (s *fakeTicketStore) ByExternalRef(_ context.Context, ref string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.created {
		if t.ExternalRef == ref {
			return &t, nil
		}
	}
	return nil, status.ErrNotFound
}

func (s *fakeTicketStore) ByUser(_ context.Context, userID string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.created {
		if t.BuyerID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) ByEvent(_ context.Context, eventID string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.created {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) Update(_ context.Context, id string, upd models.TicketUpdate) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.created {
		if s.created[i].ID == id {
			if upd.Status != nil {
				s.created[i].Status = *upd.Status
			}
			if upd.UsedAt != nil {
				s.created[i].UsedAt = upd.UsedAt
			}
			t := s.created[i]
			return &t, nil
		}
	}
	return nil, status.ErrNotFound
}

func (s *fakeTicketStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.created {
		if s.created[i].ID == id {
			s.created = append(s.created[:i], s.created[i+1:]...)
			return nil
		}
	}
	return status.ErrNotFound
}

func ticketForRef(ref string) store.TicketCreate {
	return store.TicketCreate{
		EventID:      "ev1",
		BuyerID:      "usr1",
		TicketNumber: "TMEV10001",
		QRCode:       "qr-" + ref,
		Seq:          1,
		PricePaid:    120,
		ExternalRef:  ref,
	}
}

// fakePurchaseStore keeps pending purchases in memory.
type fakePurchaseStore struct {
	mu        sync.Mutex
	nextID    int
	purchases []models.Purchase
}

func (s *fakePurchaseStore) Create(_ context.Context, p models.Purchase) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = "pur" + strconv.Itoa(s.nextID)
	p.Status = models.PurchaseStatusPending
	s.purchases = append(s.purchases, p)
	return &p, nil
}

func (s *fakePurchaseStore) ByExternalRef(_ context.Context, ref string) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.purchases {
		if p.ExternalRef == ref {
			return &p, nil
		}
	}
	return nil, status.ErrNotFound
}

func (s *fakePurchaseStore) MarkCompleted(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.purchases {
		if s.purchases[i].ID == id {
			s.purchases[i].Status = models.PurchaseStatusCompleted
			return nil
		}
	}
	return status.ErrNotFound
}
