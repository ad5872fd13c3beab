package controllers

import (
	"net/http"

	"github.com/dcastano/veloshop-backend/api/responses"
	"github.com/dcastano/veloshop-backend/api/validators"
	shippingsvc "github.com/dcastano/veloshop-backend/internal/shipping"
	"github.com/dcastano/veloshop-backend/pkg/logger"
)

type updateShippingRequest struct {
	Method         *string `json:"method,omitempty"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	Status         *string `json:"status,omitempty"`
}

func ShippingGet(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipping, err := svc.GetByOrder(r.Context(), orderID, uid, callerIsVendor(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipping)
	}
}

// ShippingUpdate sets tracking details on an order's shipping record (vendor only).
func ShippingUpdate(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateShippingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipping, err := svc.Update(r.Context(), orderID, shippingsvc.UpdateShippingDTO{
			Method:         payload.Method,
			TrackingNumber: payload.TrackingNumber,
			Status:         payload.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipping)
	}
}
