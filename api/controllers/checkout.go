package controllers

import (
	"net/http"

	"github.com/angelmondragon/markethub-backend/api/responses"
	"github.com/angelmondragon/markethub-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/markethub-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/logger"
	"github.com/angelmondragon/markethub-backend/pkg/types"
)

// Checkout converts the caller's cart into one order per store.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		uid, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Checkout(r.Context(), uid, payload.ShippingAddress)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

type checkoutRequest struct {
	ShippingAddress types.JSONObject `json:"shipping_address"`
}
