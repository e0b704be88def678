package report

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/utils"
)

type Handler struct {
	service  Service
	renderer *CsvRenderer
}

func NewHandler(service Service, renderer *CsvRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GetWeeklyCsv serves the weekly attendance report as a CSV download.
// The optional ?date= parameter picks the week; it defaults to the current one.
func (h *Handler) GetWeeklyCsv(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if dayParam := r.URL.Query().Get("date"); dayParam != "" {
		parsed, err := utils.ParseLocal(dayParam)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	report, err := h.service.WeeklyReport(r.Context(), day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	csvData, err := h.renderer.Render(report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := "worklog-" + report.WeekStart.Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csvData)); err != nil {
		log.Errorf("failed to write csv response: %v", err)
	}
}
