package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/monitoring"
	"ticketmetal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPreferenceRequest struct {
	EventID    string `json:"event_id"`
	BuyerID    string `json:"buyer_id"`
	BuyerEmail string `json:"buyer_email"`
	BuyerName  string `json:"buyer_name"`
	SuccessURL string `json:"success_url"`
	FailureURL string `json:"failure_url"`
	PendingURL string `json:"pending_url"`
}

func (r createPreferenceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EventID, validation.Required),
		validation.Field(&r.BuyerID, validation.Required),
		validation.Field(&r.BuyerEmail, validation.Required, is.EmailFormat),
		validation.Field(&r.BuyerName, validation.Required),
		validation.Field(&r.SuccessURL, is.URL),
		validation.Field(&r.FailureURL, is.URL),
		validation.Field(&r.PendingURL, is.URL),
	)
}

func (h *PaymentHandler) CreatePreference(e *core.RequestEvent) error {
	var req createPreferenceRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if err := req.Validate(); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	pref, err := h.payments.CreatePreference(e.Request.Context(), services.CreatePreferenceRequest{
		EventID:    req.EventID,
		BuyerID:    req.BuyerID,
		BuyerEmail: req.BuyerEmail,
		BuyerName:  req.BuyerName,
		SuccessURL: req.SuccessURL,
		FailureURL: req.FailureURL,
		PendingURL: req.PendingURL,
	})
	if err != nil {
		return mapError(err, "Evento não encontrado")
	}
	return e.JSON(http.StatusOK, pref)
}

// Webhook always acknowledges with 200 so the gateway stops redelivering.
// Failures are logged inside the service, not surfaced to the caller.
func (h *PaymentHandler) Webhook(e *core.RequestEvent) error {
	var payload services.WebhookPayload
	if err := e.BindBody(&payload); err != nil {
		return e.JSON(http.StatusOK, map[string]string{"status": "received"})
	}

	outcome := h.payments.ProcessWebhook(e.Request.Context(), payload)
	if !outcome.Processed {
		monitoring.TrackWebhook("ignored")
		return e.JSON(http.StatusOK, map[string]string{"status": "received"})
	}

	if outcome.TicketID != "" {
		monitoring.TrackWebhook("finalized")
		monitoring.TrackTicketSold("checkout")
	} else {
		monitoring.TrackWebhook(outcome.Status)
	}
	return e.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (h *PaymentHandler) Status(e *core.RequestEvent) error {
	st, err := h.payments.Status(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return mapError(err, "Pagamento não encontrado")
	}
	return e.JSON(http.StatusOK, st)
}

type refundRequest struct {
	Amount *float64 `json:"amount"`
}

func (r refundRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Min(0.01)),
	)
}

func (h *PaymentHandler) Refund(e *core.RequestEvent) error {
	var req refundRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if err := req.Validate(); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result, err := h.payments.Refund(e.Request.Context(), e.Request.PathValue("id"), req.Amount)
	if err != nil {
		return mapError(err, "Pagamento não encontrado")
	}
	return e.JSON(http.StatusOK, result)
}
