package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/models"
	"ticketmetal/monitoring"
	"ticketmetal/render"
	"ticketmetal/services"
	"ticketmetal/store"
)

type TicketHandler struct {
	purchase *services.TicketService
	tickets  store.TicketStore
	events   store.EventStore
	users    store.UserStore
}

func NewTicketHandler(purchase *services.TicketService, tickets store.TicketStore, events store.EventStore, users store.UserStore) *TicketHandler {
	return &TicketHandler{
		purchase: purchase,
		tickets:  tickets,
		events:   events,
		users:    users,
	}
}

type createTicketRequest struct {
	EventID string `json:"event_id"`
	BuyerID string `json:"buyer_id"`
}

func (r createTicketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EventID, validation.Required),
		validation.Field(&r.BuyerID, validation.Required),
	)
}

// Create is the direct purchase path: capacity and sales-window checks run
// before the write.
func (h *TicketHandler) Create(e *core.RequestEvent) error {
	var req createTicketRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if err := req.Validate(); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ticket, err := h.purchase.Purchase(e.Request.Context(), services.PurchaseRequest{
		EventID: req.EventID,
		BuyerID: req.BuyerID,
	})
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}

	monitoring.TrackTicketSold("direct")
	return e.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Get(e *core.RequestEvent) error {
	ticket, err := h.tickets.ByID(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Ingresso não encontrado")
	}
	return e.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) GetByQR(e *core.RequestEvent) error {
	ticket, err := h.tickets.ByQR(e.Request.Context(), e.Request.PathValue("qr"))
	if err != nil {
		return mapError(err, "Ingresso não encontrado")
	}
	return e.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) ByUser(e *core.RequestEvent) error {
	tickets, err := h.tickets.ByUser(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Ingresso não encontrado")
	}
	return e.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) ByEvent(e *core.RequestEvent) error {
	tickets, err := h.tickets.ByEvent(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Ingresso não encontrado")
	}
	return e.JSON(http.StatusOK, tickets)
}

type updateTicketRequest struct {
	models.TicketUpdate
}

func (r updateTicketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(
			models.TicketStatusActive,
			models.TicketStatusUsed,
			models.TicketStatusCancelled,
		)),
	)
}

func (h *TicketHandler) Update(e *core.RequestEvent) error {
	var req updateTicketRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if err := req.Validate(); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ticket, err := h.tickets.Update(e.Request.Context(), e.Request.PathValue("id"), req.TicketUpdate)
	if err != nil {
		return mapError(err, "Ingresso não encontrado")
	}
	return e.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Delete(e *core.RequestEvent) error {
	if err := h.tickets.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return mapError(err, "Ingresso não encontrado")
	}
	return e.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Document streams the ticket PDF as a download named after the ticket
// number.
func (h *TicketHandler) Document(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	ticket, err := h.tickets.ByID(ctx, e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Ingresso não encontrado")
	}

	event, err := h.events.ByID(ctx, ticket.EventID)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}

	buyerName := "Usuário"
	if buyer, err := h.users.ByID(ctx, ticket.BuyerID); err == nil {
		buyerName = buyer.Name
	}

	pdf, err := render.Ticket(ticket, event, buyerName)
	if err != nil {
		return mapError(err, "Ingresso não encontrado")
	}

	return servePDF(e, "ticket_"+ticket.TicketNumber+".pdf", pdf)
}
