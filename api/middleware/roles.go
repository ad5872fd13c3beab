package middleware

import (
	"net/http"

	"github.com/dcastano/veloshop-backend/api/responses"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
	"github.com/dcastano/veloshop-backend/pkg/logger"
)

// RequireVendor gates routes reserved for vendor or staff accounts.
func RequireVendor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsVendorFromContext(r.Context()) && !IsStaffFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
