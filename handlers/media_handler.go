package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketmetal/monitoring"
	"ticketmetal/services"
)

// maxUploadBytes caps the multipart body read for image uploads.
const maxUploadBytes = 10 << 20

type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload accepts a multipart form with an "image" file field, verifies the
// content really is an image and stores it.
func (h *MediaHandler) Upload(e *core.RequestEvent) error {
	e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxUploadBytes)

	file, header, err := e.Request.FormFile("image")
	if err != nil {
		return apis.NewBadRequestError("Arquivo de imagem ausente", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apis.NewBadRequestError("Falha ao ler o arquivo", err)
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		monitoring.TrackImageUpload("rejected")
		return apis.NewBadRequestError("Arquivo não é uma imagem", nil)
	}

	url := h.media.Upload(e.Request.Context(), data, header.Filename, detected.String())
	if url == "" {
		monitoring.TrackImageUpload("failed")
		return apis.NewApiError(http.StatusInternalServerError, "Erro interno", nil)
	}

	monitoring.TrackImageUpload("ok")
	return e.JSON(http.StatusOK, map[string]string{"url": url})
}

// Delete removes the image behind the url query parameter.
func (h *MediaHandler) Delete(e *core.RequestEvent) error {
	imageURL := e.Request.URL.Query().Get("url")
	if imageURL == "" {
		return apis.NewBadRequestError("Parâmetro url ausente", nil)
	}

	deleted := h.media.Delete(e.Request.Context(), imageURL)
	return e.JSON(http.StatusOK, map[string]bool{"success": deleted})
}

func (h *MediaHandler) List(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, map[string][]string{
		"images": h.media.List(e.Request.Context()),
	})
}
