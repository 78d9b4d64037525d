package models

import (
	"time"
)

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Provider   string    `json:"provider"` // google, facebook, etc
	ProviderID string    `json:"provider_id"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserCreate struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	IsAdmin   *bool   `json:"is_admin"`
}
