package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/models"
	"ticketmetal/store"
)

type UserHandler struct {
	users store.UserStore
}

func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
}

func (r createUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Provider, validation.Required),
		validation.Field(&r.AvatarURL, is.URL),
	)
}

func (h *UserHandler) Create(e *core.RequestEvent) error {
	var req createUserRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if err := req.Validate(); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	user, err := h.users.Create(e.Request.Context(), models.UserCreate{
		Email:      req.Email,
		Name:       req.Name,
		AvatarURL:  req.AvatarURL,
		Provider:   req.Provider,
		ProviderID: req.ProviderID,
	})
	if err != nil {
		return mapError(err, "Usuário não encontrado")
	}
	return e.JSON(http.StatusOK, user)
}

func (h *UserHandler) Get(e *core.RequestEvent) error {
	user, err := h.users.ByID(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Usuário não encontrado")
	}
	return e.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetByEmail(e *core.RequestEvent) error {
	user, err := h.users.ByEmail(e.Request.Context(), e.Request.PathValue("email"))
	if err != nil {
		return mapError(err, "Usuário não encontrado")
	}
	return e.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(e *core.RequestEvent) error {
	var req models.UserUpdate
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	user, err := h.users.Update(e.Request.Context(), e.Request.PathValue("id"), req)
	if err != nil {
		return mapError(err, "Usuário não encontrado")
	}
	return e.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(e *core.RequestEvent) error {
	if err := h.users.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return mapError(err, "Usuário não encontrado")
	}
	return e.JSON(http.StatusOK, map[string]bool{"success": true})
}
