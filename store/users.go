package store

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/internal/status"
	"ticketmetal/models"
)

type pbUsers struct {
	app core.App
}

func (s *pbUsers) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	record, err := newRecord(s.app, CollectionUsers)
	if err != nil {
		return nil, err
	}

	record.Set("email", in.Email)
	record.Set("name", in.Name)
	record.Set("avatar_url", in.AvatarURL)
	record.Set("provider", in.Provider)
	record.Set("provider_id", in.ProviderID)
	record.Set("is_admin", false)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return userFromRecord(record), nil
}

func (s *pbUsers) ByID(ctx context.Context, id string) (*models.User, error) {
	record, err := s.app.FindRecordById(CollectionUsers, id)
	if err != nil {
		return nil, asStoreError(err)
	}
	return userFromRecord(record), nil
}

func (s *pbUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	record, err := s.app.FindFirstRecordByData(CollectionUsers, "email", email)
	if err != nil {
		return nil, asStoreError(err)
	}
	return userFromRecord(record), nil
}

func (s *pbUsers) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	record, err := s.app.FindRecordById(CollectionUsers, id)
	if err != nil {
		return nil, asStoreError(err)
	}

	if upd.Name != nil {
		record.Set("name", *upd.Name)
	}
	if upd.AvatarURL != nil {
		record.Set("avatar_url", *upd.AvatarURL)
	}
	if upd.IsAdmin != nil {
		record.Set("is_admin", *upd.IsAdmin)
	}

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return userFromRecord(record), nil
}

// Delete refuses to remove a user that still owns tickets, so ticket rows
// never dangle.
func (s *pbUsers) Delete(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById(CollectionUsers, id)
	if err != nil {
		return asStoreError(err)
	}

	refs, err := s.app.CountRecords(CollectionTickets, dbxEq("buyer", id))
	if err != nil {
		return fmt.Errorf("count ticket references: %w", err)
	}
	if refs > 0 {
		return status.ErrHasReferences
	}

	return s.app.DeleteWithContext(ctx, record)
}

func userFromRecord(r *core.Record) *models.User {
	return &models.User{
		ID:         r.Id,
		Email:      r.GetString("email"),
		Name:       r.GetString("name"),
		AvatarURL:  r.GetString("avatar_url"),
		Provider:   r.GetString("provider"),
		ProviderID: r.GetString("provider_id"),
		IsAdmin:    r.GetBool("is_admin"),
		CreatedAt:  r.GetDateTime("created").Time(),
	}
}
