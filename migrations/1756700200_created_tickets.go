package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		customers, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			return err
		}
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "event",
				Required:     true,
				CollectionId: events.Id,
				MaxSelect:    1,
			},
			&core.RelationField{
				Name:         "buyer",
				Required:     true,
				CollectionId: customers.Id,
				MaxSelect:    1,
			},
			&core.TextField{
				Name:     "ticket_number",
				Required: true,
			},
			&core.TextField{
				Name:     "qr_code",
				Required: true,
			},
			&core.NumberField{
				Name:     "seq",
				Required: true,
				OnlyInt:  true,
				Min:      types.Pointer(1.0),
			},
			&core.NumberField{
				Name: "price_paid",
				Min:  types.Pointer(0.0),
			},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"active", "used", "cancelled"},
			},
			&core.TextField{
				Name: "external_ref",
			},
			&core.DateField{
				Name: "used_at",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		collection.AddIndex("idx_tickets_number", true, "ticket_number", "")
		collection.AddIndex("idx_tickets_qr", true, "qr_code", "")
		// Capacity guard: at most one ticket per (event, seq), so a racing
		// purchase for the same remaining slot fails on write.
		collection.AddIndex("idx_tickets_event_seq", true, "event, seq", "")
		// Webhook idempotency: at most one ticket per external reference.
		collection.AddIndex("idx_tickets_external_ref", true, "external_ref", "external_ref != ''")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
