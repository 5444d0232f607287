package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"expendinator/internal/core"
	"expendinator/internal/storage"
)

type expenseDTO struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Amount     float64         `json:"amount"`
	Date       string          `json:"date"`
	CategoryID *int64          `json:"category_id"`
	Category   *categoryRefDTO `json:"category"`
}

type expenseRequest struct {
	Title      string   `json:"title"`
	Amount     *float64 `json:"amount"`
	Date       string   `json:"date"`
	CategoryID *int64   `json:"category_id"`
}

func expenseToDTO(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:         e.ID,
		Title:      e.Title,
		Amount:     e.Amount.Float(),
		Date:       e.Date.String(),
		CategoryID: e.CategoryID,
		Category:   refDTO(e.Category),
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Título, monto y fecha son requeridos")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.Amount == nil || req.Date == "" {
		writeError(w, http.StatusBadRequest, "Título, monto y fecha son requeridos")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Fecha inválida (YYYY-MM-DD)")
		return
	}

	userID := userIDFrom(r.Context())
	expense := core.Expense{
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Amount:     core.MoneyFromFloat(*req.Amount),
		Date:       date,
		CategoryID: req.CategoryID,
	}
	if err := s.expenses.Create(r.Context(), &expense); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, "Título, monto y fecha son requeridos")
			return
		}
		slog.ErrorContext(r.Context(), "Expense create failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al crear el gasto")
		return
	}
	writeJSON(w, http.StatusCreated, expenseToDTO(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	items, err := s.expenses.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense list failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al obtener los gastos")
		return
	}
	out := make([]expenseDTO, len(items))
	for i, e := range items {
		out[i] = expenseToDTO(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Gasto no encontrado")
		return
	}
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "title, amount y date son requeridos")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.Amount == nil || req.Date == "" {
		writeError(w, http.StatusBadRequest, "title, amount y date son requeridos")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Fecha inválida (YYYY-MM-DD)")
		return
	}

	userID := userIDFrom(r.Context())
	expense := core.Expense{
		ID:         id,
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Amount:     core.MoneyFromFloat(*req.Amount),
		Date:       date,
		CategoryID: req.CategoryID,
	}
	if err := s.expenses.Update(r.Context(), &expense); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gasto no encontrado")
			return
		}
		slog.ErrorContext(r.Context(), "Expense update failed",
			"component", "http", "user_id", userID, "expense_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al actualizar el gasto")
		return
	}
	writeJSON(w, http.StatusOK, expenseToDTO(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Gasto no encontrado")
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.expenses.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gasto no encontrado")
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete failed",
			"component", "http", "user_id", userID, "expense_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al eliminar el gasto")
		return
	}
	writeMessage(w, "Gasto eliminado")
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	userID := userIDFrom(r.Context())
	summary, err := s.expenses.Summary(r.Context(), userID, from, to)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense summary failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al obtener el resumen de gastos")
		return
	}

	type summaryRow struct {
		CategoryID *int64  `json:"category_id"`
		Category   string  `json:"category"`
		Color      *int64  `json:"color"`
		Amount     float64 `json:"amount"`
	}
	byCategory := make([]summaryRow, len(summary.ByCategory))
	for i, row := range summary.ByCategory {
		byCategory[i] = summaryRow{
			CategoryID: row.CategoryID,
			Category:   row.Name,
			Color:      row.Color,
			Amount:     row.Amount.Float(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":      summary.Total.Float(),
		"byCategory": byCategory,
	})
}
