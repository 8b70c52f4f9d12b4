package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/imaging"
)

// handleUploadImage replaces an item's image with the uploaded file, embedded
// as a data URI.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.service.GetItemByID(id); !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer closeWithLog(file, "upload file")

	uri, err := imaging.DataURI(file)
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		jsonError(w, http.StatusBadRequest, "unsupported image format")
		return
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, "failed to process image")
		s.logger.Warn("image processing failed", "item_id", id, "error", err)
		return
	}

	item, ok := s.service.UpdateItem(r.Context(), id, domain.ItemPatch{ImageURL: &uri})
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, s.service.View(item))
}
