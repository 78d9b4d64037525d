// Package store is the data gateway: typed create/read/update/delete and
// list operations over the hosted record collections. "Not found" is
// reported as status.ErrNotFound, distinct from any other store failure.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/internal/status"
	"ticketmetal/models"
)

// Collection names. The builtin "users" auth collection name is reserved by
// the record store, so user profiles live in "customers".
const (
	CollectionUsers     = "customers"
	CollectionEvents    = "events"
	CollectionTickets   = "tickets"
	CollectionPurchases = "purchases"
	CollectionExternal  = "external_events"
)

type UserStore interface {
	Create(ctx context.Context, in models.UserCreate) (*models.User, error)
	ByID(ctx context.Context, id string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type EventStore interface {
	Create(ctx context.Context, in models.EventCreate) (*models.Event, error)
	ByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, limit, offset int) ([]models.Event, error)
	ByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error)
	Update(ctx context.Context, id string, upd models.EventUpdate) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	SoldCount(ctx context.Context, id string) (int, error)
	Stats(ctx context.Context, id string) (*models.EventStats, error)
}

type TicketCreate struct {
	EventID      string
	BuyerID      string
	TicketNumber string
	QRCode       string
	Seq          int
	PricePaid    float64
	ExternalRef  string
}

type TicketStore interface {
	Create(ctx context.Context, in TicketCreate) (*models.Ticket, error)
	ByID(ctx context.Context, id string) (*models.Ticket, error)
	ByQR(ctx context.Context, qrCode string) (*models.Ticket, error)
	ByExternalRef(ctx context.Context, ref string) (*models.Ticket, error)
	ByUser(ctx context.Context, userID string) ([]models.Ticket, error)
	ByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
	Update(ctx context.Context, id string, upd models.TicketUpdate) (*models.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type PurchaseStore interface {
	Create(ctx context.Context, p models.Purchase) (*models.Purchase, error)
	ByExternalRef(ctx context.Context, ref string) (*models.Purchase, error)
	MarkCompleted(ctx context.Context, id string) error
}

type ExternalEventStore interface {
	Upcoming(ctx context.Context, limit, offset int, city string) ([]models.ExternalEvent, error)
	Featured(ctx context.Context, limit int) ([]models.ExternalEvent, error)
}

// Store bundles the gateway implementations backed by one record store app.
type Store struct {
	Users     UserStore
	Events    EventStore
	Tickets   TicketStore
	Purchases PurchaseStore
	External  ExternalEventStore
}

func New(app core.App) *Store {
	return &Store{
		Users:     &pbUsers{app: app},
		Events:    &pbEvents{app: app},
		Tickets:   &pbTickets{app: app},
		Purchases: &pbPurchases{app: app},
		External:  &pbExternal{app: app},
	}
}

// newRecord builds a fresh record for the named collection.
func newRecord(app core.App, collection string) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, err
	}
	return core.NewRecord(col), nil
}

// asStoreError translates backing-store errors into the gateway taxonomy.
func asStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return status.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), "UNIQUE")
}

func dbxEq(column string, value any) dbx.Expression {
	return dbx.HashExp{column: value}
}
