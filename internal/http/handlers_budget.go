package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"expendinator/internal/core"
	"expendinator/internal/storage"
)

type budgetDTO struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	LimitAmount float64         `json:"limit_amount"`
	Period      string          `json:"period"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Category    *categoryRefDTO `json:"category"`
}

type budgetRequest struct {
	CategoryID  *int64   `json:"category_id"`
	LimitAmount *float64 `json:"limit_amount"`
	Period      string   `json:"period"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
}

type budgetUsageDTO struct {
	BudgetID           int64          `json:"budget_id"`
	LimitAmount        float64        `json:"limit_amount"`
	Period             string         `json:"period"`
	StartDate          string         `json:"start_date"`
	EndDate            string         `json:"end_date"`
	EffectiveStartDate string         `json:"effective_start_date"`
	EffectiveEndDate   string         `json:"effective_end_date"`
	Spent              float64        `json:"spent"`
	PercentUsed        float64        `json:"percent_used"`
	Remaining          float64        `json:"remaining"`
	Over               bool           `json:"over"`
	Category           categoryRefDTO `json:"category"`
}

func budgetToDTO(b core.Budget) budgetDTO {
	return budgetDTO{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		LimitAmount: b.Limit.Float(),
		Period:      string(b.Period),
		StartDate:   b.StartDate.String(),
		EndDate:     b.EndDate.String(),
		Category:    refDTO(b.Category),
	}
}

// parseBudgetRequest validates required fields and the period enum, writing
// the 400 response itself on failure.
func parseBudgetRequest(w http.ResponseWriter, r *http.Request) (budgetRequest, core.Date, core.Date, bool) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "category_id, limit_amount, period, start_date y end_date son requeridos")
		return req, core.Date{}, core.Date{}, false
	}
	if req.CategoryID == nil || req.LimitAmount == nil || req.Period == "" ||
		req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "category_id, limit_amount, period, start_date y end_date son requeridos")
		return req, core.Date{}, core.Date{}, false
	}
	if !core.ValidPeriod(core.BudgetPeriod(req.Period)) {
		writeError(w, http.StatusBadRequest, "period inválido (MONTHLY|WEEKLY|YEARLY)")
		return req, core.Date{}, core.Date{}, false
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date inválida (YYYY-MM-DD)")
		return req, core.Date{}, core.Date{}, false
	}
	end, err := core.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date inválida (YYYY-MM-DD)")
		return req, core.Date{}, core.Date{}, false
	}
	return req, start, end, true
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	req, start, end, ok := parseBudgetRequest(w, r)
	if !ok {
		return
	}

	userID := userIDFrom(r.Context())
	budget := core.Budget{
		UserID:     userID,
		CategoryID: *req.CategoryID,
		Limit:      core.MoneyFromFloat(*req.LimitAmount),
		Period:     core.BudgetPeriod(req.Period),
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.budgets.Create(r.Context(), &budget); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "Categoría no encontrada")
		case errors.Is(err, core.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest, "limit_amount debe ser positivo")
		default:
			slog.ErrorContext(r.Context(), "Budget create failed",
				"component", "http", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "Error al crear presupuesto")
		}
		return
	}
	writeJSON(w, http.StatusCreated, budgetToDTO(budget))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	budgets, err := s.budgets.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget list failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al obtener presupuestos")
		return
	}
	out := make([]budgetDTO, len(budgets))
	for i, b := range budgets {
		out[i] = budgetToDTO(b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Presupuesto no encontrado")
		return
	}
	req, start, end, ok := parseBudgetRequest(w, r)
	if !ok {
		return
	}

	userID := userIDFrom(r.Context())
	budget := core.Budget{
		ID:         id,
		UserID:     userID,
		CategoryID: *req.CategoryID,
		Limit:      core.MoneyFromFloat(*req.LimitAmount),
		Period:     core.BudgetPeriod(req.Period),
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.budgets.Update(r.Context(), &budget); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "Presupuesto no encontrado")
		case errors.Is(err, core.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest, "limit_amount debe ser positivo")
		default:
			slog.ErrorContext(r.Context(), "Budget update failed",
				"component", "http", "user_id", userID, "budget_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Error al actualizar presupuesto")
		}
		return
	}
	writeJSON(w, http.StatusOK, budgetToDTO(budget))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Presupuesto no encontrado")
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.budgets.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Presupuesto no encontrado")
			return
		}
		slog.ErrorContext(r.Context(), "Budget delete failed",
			"component", "http", "user_id", userID, "budget_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al eliminar presupuesto")
		return
	}
	writeMessage(w, "Presupuesto eliminado")
}

func (s *Server) handleBudgetUsage(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	activeOnly := strings.EqualFold(r.URL.Query().Get("active"), "true")

	userID := userIDFrom(r.Context())
	report, err := s.usage.Usage(r.Context(), userID, activeOnly, core.WindowOverride{From: from, To: to})
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget usage failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al calcular el uso de presupuestos")
		return
	}

	out := make([]budgetUsageDTO, len(report))
	for i, u := range report {
		out[i] = budgetUsageDTO{
			BudgetID:           u.BudgetID,
			LimitAmount:        u.Limit.Float(),
			Period:             string(u.Period),
			StartDate:          u.StartDate.String(),
			EndDate:            u.EndDate.String(),
			EffectiveStartDate: u.EffectiveStart.String(),
			EffectiveEndDate:   u.EffectiveEnd.String(),
			Spent:              u.Spent.Float(),
			PercentUsed:        u.PercentUsed,
			Remaining:          u.Remaining.Float(),
			Over:               u.Over,
			Category: categoryRefDTO{
				ID:    u.Category.ID,
				Name:  u.Category.Name,
				Color: u.Category.Color,
			},
		}
	}
	writeJSON(w, http.StatusOK, out)
}
