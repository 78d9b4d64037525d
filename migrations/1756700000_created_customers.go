package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("customers")

		collection.Fields.Add(
			&core.EmailField{
				Name:     "email",
				Required: true,
			},
			&core.TextField{
				Name:     "name",
				Required: true,
			},
			&core.URLField{
				Name: "avatar_url",
			},
			&core.TextField{
				Name:     "provider",
				Required: true,
			},
			&core.TextField{
				Name: "provider_id",
			},
			&core.BoolField{
				Name: "is_admin",
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

		collection.AddIndex("idx_customers_email", true, "email", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
