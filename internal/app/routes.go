package app

import (
	"github.com/gorilla/mux"
	"github.com/timedesk/timedesk/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Meetings
	r.HandleFunc("/api/meeting", deps.MeetingHandler.GetCalendar).Methods("GET")
	r.HandleFunc("/api/meeting", deps.MeetingHandler.Create).Methods("POST")
	r.HandleFunc("/api/meeting/occurrences", deps.MeetingHandler.GetOccurrences).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/meeting/{id}", deps.MeetingHandler.Update).Methods("PUT")
	r.HandleFunc("/api/meeting/{id}", deps.MeetingHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/meeting/{id}/status", deps.MeetingHandler.SoftDelete).Methods("PATCH")
	r.HandleFunc("/api/meeting/{id}/details", deps.MeetingHandler.GetDetails).Methods("GET")

	// Worklog
	r.HandleFunc("/api/worklog", deps.WorklogHandler.ClockIn).Methods("POST")
	r.HandleFunc("/api/worklog/current/status", deps.WorklogHandler.ClockOut).Methods("PATCH")
	r.HandleFunc("/api/worklog/current/start", deps.WorklogHandler.ModifyStartTime).Methods("PATCH")
	r.HandleFunc("/api/worklog/current", deps.WorklogHandler.GetCurrent).Methods("GET")
	r.HandleFunc("/api/worklog", deps.WorklogHandler.GetLast).Methods("GET")
	r.HandleFunc("/api/worklog/summary/weekly", deps.WorklogHandler.GetWeeklySummary).Methods("GET")

	// Reports
	r.HandleFunc("/api/report/weekly", deps.ReportHandler.GetWeeklyCsv).Methods("GET")

	// Employee management
	r.HandleFunc("/api/employee/current", deps.EmployeeHandler.CurrentEmployee).Methods("GET")
	r.HandleFunc("/api/employee", deps.EmployeeHandler.CreateEmployee).Methods("POST")
	r.HandleFunc("/api/employee", deps.EmployeeHandler.GetAllEmployees).Methods("GET")

	// Directory
	r.HandleFunc("/api/directory/contact", deps.DirectoryHandler.List).Methods("GET")
	r.HandleFunc("/api/directory/contact", deps.DirectoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/directory/contact/{id}", deps.DirectoryHandler.Get).Methods("GET")
	r.HandleFunc("/api/directory/contact/{id}", deps.DirectoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/directory/contact/{id}", deps.DirectoryHandler.Delete).Methods("DELETE")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")
	r.HandleFunc("/api/integrations/google/export", deps.GoogleHandler.Export).Methods("POST")
}
