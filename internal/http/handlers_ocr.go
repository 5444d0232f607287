package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"expendinator/internal/core"
	"expendinator/internal/services"
)

type receiptItemDTO struct {
	Title        string  `json:"title"`
	Amount       float64 `json:"amount"`
	CategoryID   *int64  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Date         string  `json:"date"`
}

type receiptLineDTO struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}

type receiptGroupDTO struct {
	Category   string           `json:"category"`
	Amount     float64          `json:"amount"`
	ItemsCount int              `json:"itemsCount"`
	Items      []receiptLineDTO `json:"items"`
}

type receiptDTO struct {
	ReceiptID  string            `json:"receiptId"`
	Currency   string            `json:"currency"`
	Date       string            `json:"date"`
	Items      []receiptItemDTO  `json:"items"`
	ByCategory []receiptGroupDTO `json:"byCategory"`
	Total      float64           `json:"total"`
}

func (s *Server) handleOcrMock(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	receipt, err := s.ocr.MockReceipt(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Mock OCR failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Mock OCR simple error")
		return
	}

	out := receiptDTO{
		ReceiptID:  receipt.ReceiptID,
		Currency:   receipt.Currency,
		Date:       receipt.Date.String(),
		Items:      make([]receiptItemDTO, len(receipt.Items)),
		ByCategory: make([]receiptGroupDTO, len(receipt.ByCategory)),
		Total:      receipt.Total.Float(),
	}
	for i, it := range receipt.Items {
		out.Items[i] = receiptItemDTO{
			Title:        it.Title,
			Amount:       it.Amount.Float(),
			CategoryID:   it.CategoryID,
			CategoryName: it.CategoryName,
			Date:         it.Date.String(),
		}
	}
	for i, g := range receipt.ByCategory {
		group := receiptGroupDTO{
			Category:   g.Category,
			Amount:     g.Amount.Float(),
			ItemsCount: g.ItemsCount,
			Items:      make([]receiptLineDTO, len(g.Items)),
		}
		for j, line := range g.Items {
			group.Items[j] = receiptLineDTO{Title: line.Title, Amount: line.Amount.Float()}
		}
		out.ByCategory[i] = group
	}
	writeJSON(w, http.StatusOK, out)
}

// confirmItemRequest decodes amount loosely: clients send numbers, numeric
// strings and outright garbage. Garbage marks the item invalid instead of
// failing the whole request.
type confirmItemRequest struct {
	Title        string `json:"title"`
	Amount       any    `json:"amount"`
	Date         string `json:"date"`
	CategoryID   *int64 `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Category     string `json:"category"`
}

func (it confirmItemRequest) amountValue() (float64, bool) {
	switch v := it.Amount.(type) {
	case float64:
		return v, core.IsFiniteAmount(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, core.IsFiniteAmount(parsed)
	default:
		return 0, false
	}
}

func (s *Server) handleOcrConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []confirmItemRequest `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items es requerido y debe ser una lista")
		return
	}

	inputs := make([]services.ReceiptItemInput, len(req.Items))
	for i, it := range req.Items {
		amount, valid := it.amountValue()
		name := it.CategoryName
		if name == "" {
			name = it.Category
		}
		inputs[i] = services.ReceiptItemInput{
			Title:        it.Title,
			Amount:       amount,
			AmountValid:  valid,
			Date:         it.Date,
			CategoryID:   it.CategoryID,
			CategoryName: name,
		}
	}

	userID := userIDFrom(r.Context())
	created, err := s.ocr.Confirm(r.Context(), userID, inputs)
	if err != nil {
		slog.ErrorContext(r.Context(), "OCR confirm failed",
			"component", "http", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al confirmar gastos del OCR")
		return
	}

	out := make([]expenseDTO, len(created))
	for i, e := range created {
		out[i] = expenseToDTO(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"created": out})
}
