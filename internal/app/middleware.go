package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/config"
	"github.com/timedesk/timedesk/pkg/employee"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-Employee-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			employeeIdHeader := req.Header.Get("X-Employee-Id")
			ctx := req.Context()

			if employeeIdHeader != "" {
				e, err := deps.EmployeeService.GetEmployeeByUid(ctx, employeeIdHeader)
				if err != nil {
					if errors.Is(err, employee.ErrEmployeeNotFound) {
						log.Debugf("employee not found: %s", employeeIdHeader)
						http.Error(w, "employee not found", http.StatusForbidden)
						return
					}
					log.Errorf("failed to get employee: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				log.Debugf("employee found: %s", e.Uid)
				ctx = employee.WithEmployee(ctx, e)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
