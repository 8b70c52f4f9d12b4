package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/prepstock/internal/form"
	"github.com/vbonduro/prepstock/internal/reference"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, s.service.Settings())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in form.SettingsInput
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, errs := in.Patch()
	if len(errs) > 0 {
		validationError(w, errs)
		return
	}

	jsonResponse(w, http.StatusOK, s.service.UpdateSettings(r.Context(), patch))
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, s.service.CategoryResolver().Options())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in form.CustomCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, errs := form.ValidateCustomCategory(in, s.service.CategoryResolver())
	if len(errs) > 0 {
		validationError(w, errs)
		return
	}

	jsonResponse(w, http.StatusCreated, s.service.AddCustomCategory(r.Context(), draft))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if !s.service.DeleteCustomCategory(r.Context(), r.PathValue("id")) {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePhones(w http.ResponseWriter, r *http.Request) {
	kind := reference.PhoneKind(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("kind"))))
	if kind == "" {
		kind = reference.PhoneKindAll
	}
	if !reference.ValidPhoneKind(kind) {
		validationError(w, form.Errors{"kind": "unknown phone kind"})
		return
	}

	jsonResponse(w, http.StatusOK, reference.Phones(kind))
}
