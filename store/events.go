package store

import (
	"context"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/internal/status"
	"ticketmetal/models"
)

type pbEvents struct {
	app core.App
}

func (s *pbEvents) Create(ctx context.Context, in models.EventCreate) (*models.Event, error) {
	record, err := newRecord(s.app, CollectionEvents)
	if err != nil {
		return nil, err
	}

	record.Set("title", in.Title)
	record.Set("description", in.Description)
	record.Set("date", in.Date)
	record.Set("location", in.Location)
	record.Set("address", in.Address)
	record.Set("city", in.City)
	record.Set("state", in.State)
	record.Set("image_url", in.ImageURL)
	record.Set("max_tickets", in.MaxTickets)
	record.Set("price", in.Price)
	record.Set("is_active", true)
	record.Set("sales_end_date", in.SalesEndDate)
	record.Set("organizer", in.OrganizerID)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return eventFromRecord(record), nil
}

func (s *pbEvents) ByID(ctx context.Context, id string) (*models.Event, error) {
	record, err := s.app.FindRecordById(CollectionEvents, id)
	if err != nil {
		return nil, asStoreError(err)
	}

	event := eventFromRecord(record)
	sold, err := s.SoldCount(ctx, id)
	if err != nil {
		return nil, err
	}
	event.TicketsSold = sold
	return event, nil
}

func (s *pbEvents) List(ctx context.Context, limit, offset int) ([]models.Event, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionEvents,
		"is_active = true",
		"",
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return eventsFromRecords(records), nil
}

func (s *pbEvents) ByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionEvents,
		"organizer = {:organizer}",
		"",
		0,
		0,
		dbx.Params{"organizer": organizerID},
	)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	return eventsFromRecords(records), nil
}

func (s *pbEvents) Update(ctx context.Context, id string, upd models.EventUpdate) (*models.Event, error) {
	record, err := s.app.FindRecordById(CollectionEvents, id)
	if err != nil {
		return nil, asStoreError(err)
	}

	if upd.Title != nil {
		record.Set("title", *upd.Title)
	}
	if upd.Description != nil {
		record.Set("description", *upd.Description)
	}
	if upd.Date != nil {
		record.Set("date", *upd.Date)
	}
	if upd.Location != nil {
		record.Set("location", *upd.Location)
	}
	if upd.Address != nil {
		record.Set("address", *upd.Address)
	}
	if upd.City != nil {
		record.Set("city", *upd.City)
	}
	if upd.State != nil {
		record.Set("state", *upd.State)
	}
	if upd.ImageURL != nil {
		record.Set("image_url", *upd.ImageURL)
	}
	if upd.MaxTickets != nil {
		record.Set("max_tickets", *upd.MaxTickets)
	}
	if upd.Price != nil {
		record.Set("price", *upd.Price)
	}
	if upd.IsActive != nil {
		record.Set("is_active", *upd.IsActive)
	}
	if upd.SalesEndDate != nil {
		record.Set("sales_end_date", *upd.SalesEndDate)
	}

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return eventFromRecord(record), nil
}

func (s *pbEvents) Delete(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById(CollectionEvents, id)
	if err != nil {
		return asStoreError(err)
	}

	refs, err := s.app.CountRecords(CollectionTickets, dbxEq("event", id))
	if err != nil {
		return fmt.Errorf("count ticket references: %w", err)
	}
	if refs > 0 {
		return status.ErrHasReferences
	}

	return s.app.DeleteWithContext(ctx, record)
}

func (s *pbEvents) SoldCount(ctx context.Context, id string) (int, error) {
	count, err := s.app.CountRecords(CollectionTickets, dbxEq("event", id))
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return int(count), nil
}

func (s *pbEvents) Stats(ctx context.Context, id string) (*models.EventStats, error) {
	record, err := s.app.FindRecordById(CollectionEvents, id)
	if err != nil {
		return nil, asStoreError(err)
	}

	sold, err := s.SoldCount(ctx, id)
	if err != nil {
		return nil, err
	}

	var revenue float64
	err = s.app.DB().
		NewQuery("SELECT COALESCE(SUM(price_paid), 0) FROM tickets WHERE event = {:event}").
		Bind(dbx.Params{"event": id}).
		Row(&revenue)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	maxTickets := record.GetInt("max_tickets")
	stats := &models.EventStats{
		EventID:          id,
		EventTitle:       record.GetString("title"),
		MaxTickets:       maxTickets,
		TicketsSold:      sold,
		TicketsAvailable: maxTickets - sold,
		TotalRevenue:     revenue,
	}
	if sold > 0 {
		stats.AveragePrice = revenue / float64(sold)
	}
	if maxTickets > 0 {
		stats.OccupancyRate = float64(sold) / float64(maxTickets) * 100
	}
	return stats, nil
}

func eventFromRecord(r *core.Record) *models.Event {
	return &models.Event{
		ID:           r.Id,
		Title:        r.GetString("title"),
		Description:  r.GetString("description"),
		Date:         r.GetDateTime("date").Time(),
		Location:     r.GetString("location"),
		Address:      r.GetString("address"),
		City:         r.GetString("city"),
		State:        r.GetString("state"),
		ImageURL:     r.GetString("image_url"),
		MaxTickets:   r.GetInt("max_tickets"),
		Price:        r.GetFloat("price"),
		IsActive:     r.GetBool("is_active"),
		SalesEndDate: r.GetDateTime("sales_end_date").Time(),
		OrganizerID:  r.GetString("organizer"),
		CreatedAt:    r.GetDateTime("created").Time(),
	}
}

func eventsFromRecords(records []*core.Record) []models.Event {
	events := make([]models.Event, 0, len(records))
	for _, r := range records {
		events = append(events, *eventFromRecord(r))
	}
	return events
}
