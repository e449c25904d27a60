package http

import (
	"net/http"

	"finora/internal/core"
	"finora/internal/log"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	out := make([]categoryResponse, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := core.CategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
		Kind:  core.Kind(req.Kind),
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c := s.store.AddCategory(in)
	s.logger.InfoContext(r.Context(), "Category created",
		log.FieldOperation, log.OpCreate,
		log.FieldCategoryID, c.ID)
	writeJSON(w, http.StatusCreated, toCategoryResponse(c))
}

// handleDeleteCategory removes the category only. Transactions keep their
// category reference; reports render the dangling id with a fallback glyph.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteCategory(r.PathValue("id"))
	s.purgeReports()
	w.WriteHeader(http.StatusNoContent)
}
