package http

import (
	"errors"
	"log/slog"
	"net/http"

	"expendinator/internal/core"
	"expendinator/internal/storage"
)

type categoryDTO struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Color    *int64   `json:"color"`
	Keywords []string `json:"keywords"`
}

func categoryToDTO(c core.Category) categoryDTO {
	keywords := c.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return categoryDTO{ID: c.ID, Name: c.Name, Color: c.Color, Keywords: keywords}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string   `json:"name"`
		Color    *int64   `json:"color"`
		Keywords []string `json:"keywords"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "El nombre es requerido")
		return
	}

	userID := userIDFrom(r.Context())
	created, err := s.categories.Create(r.Context(), userID, req.Name, req.Color, req.Keywords)
	if err != nil {
		if errors.Is(err, core.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "El nombre es requerido")
			return
		}
		slog.ErrorContext(r.Context(), "Category create failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al crear la categoría")
		return
	}
	writeJSON(w, http.StatusCreated, categoryToDTO(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	cats, err := s.categories.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al obtener las categorías")
		return
	}
	out := make([]categoryDTO, len(cats))
	for i, c := range cats {
		out[i] = categoryToDTO(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Categoría no encontrada")
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.categories.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Categoría no encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Category delete failed",
			"component", "http", "user_id", userID, "category_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al eliminar la categoría")
		return
	}
	writeMessage(w, "Categoría eliminada")
}
