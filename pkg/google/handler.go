package google

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/timedesk/timedesk/internal/utils"
)

type CalendarItemDto struct {
	Id      string `json:"id"`
	Summary string `json:"summary"`
}

type exportResult struct {
	Exported int `json:"exported"`
}

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	calendars, err := h.service.ListCalendars(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	calendarItems := make([]CalendarItemDto, 0, len(calendars))
	for _, c := range calendars {
		calendarItems = append(calendarItems, CalendarItemDto{Id: c.ID, Summary: c.Summary})
	}

	if err := json.NewEncoder(w).Encode(calendarItems); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Export pushes the expanded occurrences of the given window to the
// employee's Google calendar. Defaults to the next 30 days.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from := time.Now()
	to := from.AddDate(0, 0, 30)
	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		parsed, err := utils.ParseLocal(fromParam)
		if err != nil {
			http.Error(w, "invalid 'from' date", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if toParam := r.URL.Query().Get("to"); toParam != "" {
		parsed, err := utils.ParseLocal(toParam)
		if err != nil {
			http.Error(w, "invalid 'to' date", http.StatusBadRequest)
			return
		}
		to = parsed
	}

	exported, err := h.service.ExportOccurrences(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(exportResult{Exported: exported}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
