package store

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/models"
)

type pbPurchases struct {
	app core.App
}

func (s *pbPurchases) Create(ctx context.Context, p models.Purchase) (*models.Purchase, error) {
	record, err := newRecord(s.app, CollectionPurchases)
	if err != nil {
		return nil, err
	}

	record.Set("event", p.EventID)
	record.Set("buyer", p.BuyerID)
	record.Set("buyer_email", p.BuyerEmail)
	record.Set("buyer_name", p.BuyerName)
	record.Set("price", p.Price)
	record.Set("external_ref", p.ExternalRef)
	record.Set("status", models.PurchaseStatusPending)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return purchaseFromRecord(record), nil
}

func (s *pbPurchases) ByExternalRef(ctx context.Context, ref string) (*models.Purchase, error) {
	record, err := s.app.FindFirstRecordByData(CollectionPurchases, "external_ref", ref)
	if err != nil {
		return nil, asStoreError(err)
	}
	return purchaseFromRecord(record), nil
}

func (s *pbPurchases) MarkCompleted(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById(CollectionPurchases, id)
	if err != nil {
		return asStoreError(err)
	}
	record.Set("status", models.PurchaseStatusCompleted)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("mark purchase completed: %w", err)
	}
	return nil
}

func purchaseFromRecord(r *core.Record) *models.Purchase {
	return &models.Purchase{
		ID:          r.Id,
		EventID:     r.GetString("event"),
		BuyerID:     r.GetString("buyer"),
		BuyerEmail:  r.GetString("buyer_email"),
		BuyerName:   r.GetString("buyer_name"),
		Price:       r.GetFloat("price"),
		ExternalRef: r.GetString("external_ref"),
		Status:      r.GetString("status"),
		CreatedAt:   r.GetDateTime("created").Time(),
	}
}
