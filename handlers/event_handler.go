package handlers

import (
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/models"
	"ticketmetal/render"
	"ticketmetal/store"
)

type EventHandler struct {
	events   store.EventStore
	external store.ExternalEventStore
}

func NewEventHandler(events store.EventStore, external store.ExternalEventStore) *EventHandler {
	return &EventHandler{events: events, external: external}
}

type createEventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ImageURL     string    `json:"image_url"`
	MaxTickets   int       `json:"max_tickets"`
	Price        float64   `json:"price"`
	SalesEndDate time.Time `json:"sales_end_date"`
	OrganizerID  string    `json:"organizer_id"`
}

func (r createEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Date, validation.Required),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.MaxTickets, validation.Required, validation.Min(1)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.SalesEndDate, validation.Required),
		validation.Field(&r.OrganizerID, validation.Required),
		validation.Field(&r.ImageURL, is.URL),
	)
}

func (h *EventHandler) Create(e *core.RequestEvent) error {
	var req createEventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if err := req.Validate(); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.events.Create(e.Request.Context(), models.EventCreate{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Location:     req.Location,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ImageURL:     req.ImageURL,
		MaxTickets:   req.MaxTickets,
		Price:        req.Price,
		SalesEndDate: req.SalesEndDate,
		OrganizerID:  req.OrganizerID,
	})
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, event)
}

func (h *EventHandler) List(e *core.RequestEvent) error {
	limit := queryInt(e, "limit", 50)
	offset := queryInt(e, "offset", 0)

	events, err := h.events.List(e.Request.Context(), limit, offset)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(e *core.RequestEvent) error {
	event, err := h.events.ByID(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, event)
}

func (h *EventHandler) ByOrganizer(e *core.RequestEvent) error {
	events, err := h.events.ByOrganizer(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, events)
}

func (h *EventHandler) Update(e *core.RequestEvent) error {
	var req models.EventUpdate
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.events.Update(e.Request.Context(), e.Request.PathValue("id"), req)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(e *core.RequestEvent) error {
	if err := h.events.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *EventHandler) Stats(e *core.RequestEvent) error {
	stats, err := h.events.Stats(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, stats)
}

// Report streams the sales report PDF of one event.
func (h *EventHandler) Report(e *core.RequestEvent) error {
	ctx := e.Request.Context()
	id := e.Request.PathValue("id")

	event, err := h.events.ByID(ctx, id)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	stats, err := h.events.Stats(ctx, id)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}

	pdf, err := render.EventReport(event, stats)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}

	filename := "relatorio_" + strings.ReplaceAll(event.Title, " ", "_") + ".pdf"
	return servePDF(e, filename, pdf)
}

// External lists upcoming aggregator events, optionally filtered by city.
func (h *EventHandler) External(e *core.RequestEvent) error {
	limit := queryInt(e, "limit", 50)
	offset := queryInt(e, "offset", 0)
	city := e.Request.URL.Query().Get("city")

	events, err := h.external.Upcoming(e.Request.Context(), limit, offset, city)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, events)
}

// Featured lists upcoming aggregator events with the highest display
// priority.
func (h *EventHandler) Featured(e *core.RequestEvent) error {
	limit := queryInt(e, "limit", 10)

	events, err := h.external.Featured(e.Request.Context(), limit)
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, events)
}
