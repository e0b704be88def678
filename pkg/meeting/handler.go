package meeting

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/rest"
	"github.com/timedesk/timedesk/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetCalendar returns the employee's meetings projected into renderable
// calendar events.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	meetings, err := h.service.FetchMeetings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	events := ProjectForCalendar(meetings)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(events); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetOccurrences expands every meeting into concrete instances within the
// from/to window (local wall-clock ISO, from inclusive).
func (h *Handler) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, err := utils.ParseLocal(r.URL.Query().Get("from"))
	if err != nil {
		writeBadRequest(w, "invalid 'from' date", err)
		return
	}
	to, err := utils.ParseLocal(r.URL.Query().Get("to"))
	if err != nil {
		writeBadRequest(w, "invalid 'to' date", err)
		return
	}

	meetings, err := h.service.FetchMeetings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	occurrences := ExpandOccurrences(meetings, from, to)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(occurrences); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetDetails(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathId(r)
	if err != nil {
		writeBadRequest(w, "invalid meeting id", err)
		return
	}

	modal, err := h.service.FetchMeetingDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(modal); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new meeting")
	h.save(w, r, SaveModeInsert, 0)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		writeBadRequest(w, "invalid meeting id", err)
		return
	}
	h.save(w, r, SaveModeUpdate, id)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, mode SaveMode, id int) {
	w.Header().Set("Content-Type", "application/json")

	var modal MeetingModal
	if err := json.NewDecoder(r.Body).Decode(&modal); err != nil {
		writeBadRequest(w, "invalid request body", err)
		return
	}
	if mode == SaveModeUpdate {
		modal.Meeting.Id = id
	}

	saved, err := h.service.SaveMeeting(r.Context(), modal, mode)
	if err != nil {
		if isValidationError(err) {
			writeBadRequest(w, err.Error(), nil)
			return
		}
		if errors.Is(err, ErrMeetingNotFound) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if mode == SaveModeInsert {
		w.WriteHeader(http.StatusCreated)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if err := json.NewEncoder(w).Encode(saved); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Delete removes a meeting; ?wholeSeries=true removes the whole series the
// meeting belongs to.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathId(r)
	if err != nil {
		writeBadRequest(w, "invalid meeting id", err)
		return
	}
	wholeSeries := r.URL.Query().Get("wholeSeries") == "true"

	modal, err := h.service.FetchMeetingDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.service.DeleteMeeting(r.Context(), modal.Meeting, wholeSeries); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SoftDelete flips an exception record to deleted without removing the row.
func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathId(r)
	if err != nil {
		writeBadRequest(w, "invalid meeting id", err)
		return
	}

	if err := h.service.SoftDeleteException(r.Context(), id); err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathId(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func writeBadRequest(w http.ResponseWriter, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	w.WriteHeader(http.StatusBadRequest)
	if encErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); encErr != nil {
		log.Errorf("failed to encode error response: %v", encErr)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrMissingStart) ||
		errors.Is(err, ErrInvalidStart) ||
		errors.Is(err, ErrEndTooEarly) ||
		errors.Is(err, ErrSeriesWithoutRule)
}
