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

		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.TextField{
				Name:     "title",
				Required: true,
			},
			&core.TextField{
				Name: "description",
			},
			&core.DateField{
				Name:     "date",
				Required: true,
			},
			&core.TextField{
				Name:     "location",
				Required: true,
			},
			&core.TextField{
				Name: "address",
			},
			&core.TextField{
				Name: "city",
			},
			&core.TextField{
				Name: "state",
			},
			&core.URLField{
				Name: "image_url",
			},
			&core.NumberField{
				Name:     "max_tickets",
				Required: true,
				OnlyInt:  true,
				Min:      types.Pointer(1.0),
			},
			&core.NumberField{
				Name: "price",
				Min:  types.Pointer(0.0),
			},
			&core.BoolField{
				Name: "is_active",
			},
			&core.DateField{
				Name: "sales_end_date",
			},
			&core.RelationField{
				Name:         "organizer",
				Required:     true,
				CollectionId: customers.Id,
				MaxSelect:    1,
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

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
