package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"expendinator/internal/core"
)

var errNoCredentials = errors.New("missing or invalid credentials")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseDateRange reads the optional from/to query bounds. Each bound must be
// a strict YYYY-MM-DD date, and when both are present from must not exceed
// to. Returns ok=false after writing the 400 response.
func parseDateRange(w http.ResponseWriter, r *http.Request) (from, to *core.Date, ok bool) {
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "`from` debe tener formato YYYY-MM-DD")
			return nil, nil, false
		}
		from = &d
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "`to` debe tener formato YYYY-MM-DD")
			return nil, nil, false
		}
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		writeError(w, http.StatusBadRequest, "`from` no puede ser mayor que `to`")
		return nil, nil, false
	}
	return from, to, true
}

// extractClientIP resolves the client address, honoring proxy headers.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// categoryRefDTO is the embedded category snapshot on expenses and budgets.
type categoryRefDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color *int64 `json:"color"`
}

func refDTO(ref *core.CategoryRef) *categoryRefDTO {
	if ref == nil {
		return nil
	}
	return &categoryRefDTO{ID: ref.ID, Name: ref.Name, Color: ref.Color}
}
