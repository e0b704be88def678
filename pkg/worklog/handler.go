package worklog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/utils"
)

type WorkEntryDTO struct {
	Id        int        `json:"id"`
	Project   string     `json:"project,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

type ClockInRequest struct {
	Project string `json:"project"`
}

type ModifyStartTimeRequest struct {
	StartTime time.Time `json:"startTime"`
}

type WeeklySummaryDTO struct {
	WeekStart    string         `json:"weekStart"`
	MinutesByDay map[string]int `json:"minutesByDay"`
	ByProject    map[string]int `json:"minutesByProject"`
	TotalMinutes int            `json:"totalMinutes"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entry, err := h.service.FindCurrentEntry(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entryToDTO(*entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	log.Debug("Clocking in")
	w.Header().Set("Content-Type", "application/json")

	var req ClockInRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	entry, err := h.service.ClockIn(r.Context(), req.Project)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	log.Debug("Clocking out")
	w.Header().Set("Content-Type", "application/json")

	entry, err := h.service.ClockOut(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoCurrentEntry) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ModifyStartTime(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req ModifyStartTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.service.ModifyCurrentEntryStartTime(r.Context(), req.StartTime)
	if err != nil {
		if errors.Is(err, ErrNoCurrentEntry) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetLast(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit := 10
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.service.GetLastEntries(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]WorkEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	day := time.Now()
	if dayParam := r.URL.Query().Get("date"); dayParam != "" {
		parsed, err := utils.ParseLocal(dayParam)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	summary, err := h.service.WeeklySummary(r.Context(), day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := WeeklySummaryDTO{
		WeekStart:    summary.WeekStart.Format("2006-01-02"),
		MinutesByDay: make(map[string]int, len(summary.ByDay)),
		ByProject:    make(map[string]int, len(summary.ByProject)),
		TotalMinutes: int(summary.Total.Minutes()),
	}
	for d, duration := range summary.ByDay {
		dto.MinutesByDay[d.Format("2006-01-02")] = int(duration.Minutes())
	}
	for project, duration := range summary.ByProject {
		dto.ByProject[project] = int(duration.Minutes())
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func entryToDTO(entry WorkEntry) WorkEntryDTO {
	dto := WorkEntryDTO{
		Id:        entry.Id,
		Project:   entry.Project,
		StartTime: entry.StartTime,
	}
	if !entry.EndTime.IsZero() {
		end := entry.EndTime
		dto.EndTime = &end
	}
	return dto
}
