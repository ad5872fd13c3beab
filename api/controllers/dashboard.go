package controllers

import (
	"net/http"

	"github.com/dcastano/veloshop-backend/api/responses"
	dashboardsvc "github.com/dcastano/veloshop-backend/internal/dashboard"
	"github.com/dcastano/veloshop-backend/pkg/logger"
)

// DashboardSummary serves headline store metrics (vendor only).
func DashboardSummary(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
