package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/filter"
	"github.com/vbonduro/prepstock/internal/form"
	"github.com/vbonduro/prepstock/internal/service"
)

type itemListResponse struct {
	Items []service.ItemView `json:"items"`
	Total int                `json:"total"`
}

// parseQuery reads the filter predicates from the query string. Missing
// values are wildcards.
func parseQuery(r *http.Request) (filter.Query, form.Errors) {
	errs := form.Errors{}
	v := r.URL.Query()

	q := filter.Query{
		Text:     strings.TrimSpace(v.Get("q")),
		Category: domain.Category(strings.TrimSpace(v.Get("category"))),
	}

	st, err := filter.ParseStatus(v.Get("status"))
	if err != nil {
		errs["status"] = err.Error()
	}
	q.Status = st

	days, err := filter.ParseBucket(v.Get("days"))
	if err != nil {
		errs["days"] = err.Error()
	}
	q.Days = days

	return q, errs
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q, errs := parseQuery(r)
	if len(errs) > 0 {
		validationError(w, errs)
		return
	}

	res := s.service.ListItems(q)
	jsonResponse(w, http.StatusOK, itemListResponse{
		Items: s.service.Views(res.Items),
		Total: res.Total,
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.service.GetItemByID(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, s.service.View(item))
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in form.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, errs := in.Draft(s.service.CategoryResolver(), s.now())
	if len(errs) > 0 {
		validationError(w, errs)
		return
	}

	item := s.service.AddItem(r.Context(), draft)
	jsonResponse(w, http.StatusCreated, s.service.View(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	current, ok := s.service.GetItemByID(id)
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	var in form.ItemPatchInput
	if err := decodeJSON(w, r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, errs := in.Patch(s.service.CategoryResolver(), current)
	if len(errs) > 0 {
		validationError(w, errs)
		return
	}

	item, ok := s.service.UpdateItem(r.Context(), id, patch)
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, s.service.View(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if !s.service.DeleteItem(r.Context(), r.PathValue("id")) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type summaryView struct {
	domain.CategorySummary
	CategoryLabel string `json:"categoryLabel"`
	CategoryIcon  string `json:"categoryIcon"`
}

func (s *Server) handleSummaries(w http.ResponseWriter, _ *http.Request) {
	summaries := s.service.GetCategorySummaries()
	resolver := s.service.CategoryResolver()

	views := make([]summaryView, 0, len(summaries))
	for _, sum := range summaries {
		views = append(views, summaryView{
			CategorySummary: sum,
			CategoryLabel:   resolver.Label(sum.Category),
			CategoryIcon:    resolver.Icon(sum.Category),
		})
	}

	jsonResponse(w, http.StatusOK, views)
}
