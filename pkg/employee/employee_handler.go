package employee

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/rest"
)

type Handler struct {
	service Service
}

type EmployeeDTO struct {
	Id          int    `json:"id"`
	Uid         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) CurrentEmployee(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	e, err := h.service.GetCurrentEmployee(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoEmployee) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(employeeToDTO(e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Creating new employee")

	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	created, err := h.service.CreateEmployee(r.Context(), dtoToEmployee(dto))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(employeeToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	employees, err := h.service.GetAllEmployees(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, employeeToDTO(e))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func employeeToDTO(e Employee) EmployeeDTO {
	return EmployeeDTO{
		Id:          e.Id,
		Uid:         e.Uid,
		DisplayName: e.DisplayName,
		Email:       e.Email,
		Phone:       e.Phone,
		Role:        e.Role,
		Timezone:    e.Settings.Timezone,
	}
}

func dtoToEmployee(dto EmployeeDTO) Employee {
	return Employee{
		Id:          dto.Id,
		Uid:         dto.Uid,
		DisplayName: dto.DisplayName,
		Email:       dto.Email,
		Phone:       dto.Phone,
		Role:        dto.Role,
		Settings: Settings{
			Timezone: dto.Timezone,
		},
	}
}
