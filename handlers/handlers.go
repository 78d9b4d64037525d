// Package handlers maps the HTTP surface onto the gateway, media, payment
// and renderer services. Domain rejections become 4xx replies with a
// specific reason; collaborator failures become opaque 500s with the cause
// logged only.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/internal/status"
)

// mapError translates gateway/service errors to API errors. notFoundMsg
// names the missing record kind for 404s.
func mapError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError(notFoundMsg, nil)
	case errors.Is(err, status.ErrHasReferences):
		return apis.NewApiError(http.StatusConflict, "Registro possui ingressos vinculados", nil)
	case errors.Is(err, status.ErrEventInactive):
		return apis.NewBadRequestError("Evento não está ativo", nil)
	case errors.Is(err, status.ErrSoldOut):
		return apis.NewBadRequestError("Ingressos esgotados", nil)
	case errors.Is(err, status.ErrSalesEnded):
		return apis.NewBadRequestError("Vendas encerradas", nil)
	case errors.Is(err, status.ErrGateway):
		slog.Error("gateway call failed", "error", err)
		return apis.NewApiError(http.StatusBadGateway, "Falha no provedor de pagamento", nil)
	default:
		slog.Error("request failed", "error", err)
		return apis.NewApiError(http.StatusInternalServerError, "Erro interno", nil)
	}
}

// queryInt reads an integer query parameter with a default.
func queryInt(e *core.RequestEvent, name string, def int) int {
	raw := e.Request.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// servePDF writes a rendered document as a download attachment.
func servePDF(e *core.RequestEvent, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", "application/pdf")
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(data)
	return err
}
