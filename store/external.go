package store

import (
	"context"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"ticketmetal/models"
)

// pbExternal reads the externally populated aggregator collection. Nothing
// in this service ever writes to it.
type pbExternal struct {
	app core.App
}

func (s *pbExternal) Upcoming(ctx context.Context, limit, offset int, city string) ([]models.ExternalEvent, error) {
	filter := "date >= {:now}"
	params := dbx.Params{"now": types.NowDateTime()}
	if city != "" {
		filter += " && city = {:city}"
		params["city"] = city
	}

	records, err := s.app.FindRecordsByFilter(
		CollectionExternal,
		filter,
		"date",
		limit,
		offset,
		params,
	)
	if err != nil {
		return nil, fmt.Errorf("list external events: %w", err)
	}
	return externalFromRecords(records), nil
}

func (s *pbExternal) Featured(ctx context.Context, limit int) ([]models.ExternalEvent, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionExternal,
		"date >= {:now}",
		"-priority,date",
		limit,
		0,
		dbx.Params{"now": types.NowDateTime()},
	)
	if err != nil {
		return nil, fmt.Errorf("list featured external events: %w", err)
	}
	return externalFromRecords(records), nil
}

func externalFromRecords(records []*core.Record) []models.ExternalEvent {
	events := make([]models.ExternalEvent, 0, len(records))
	for _, r := range records {
		events = append(events, models.ExternalEvent{
			ID:       r.Id,
			Title:    r.GetString("title"),
			Venue:    r.GetString("venue"),
			City:     r.GetString("city"),
			Date:     r.GetDateTime("date").Time(),
			URL:      r.GetString("url"),
			Priority: r.GetInt("priority"),
		})
	}
	return events
}
