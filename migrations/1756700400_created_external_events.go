package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("external_events")

		collection.Fields.Add(
			&core.TextField{
				Name:     "title",
				Required: true,
			},
			&core.TextField{
				Name: "venue",
			},
			&core.TextField{
				Name: "city",
			},
			&core.DateField{
				Name:     "date",
				Required: true,
			},
			&core.URLField{
				Name: "url",
			},
			&core.NumberField{
				Name:    "priority",
				OnlyInt: true,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		collection.AddIndex("idx_external_events_date", false, "date", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("external_events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
