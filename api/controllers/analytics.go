package controllers

import (
	"net/http"

	"github.com/angelmondragon/markethub-backend/api/responses"
	"github.com/angelmondragon/markethub-backend/api/validators"
	analyticsvc "github.com/angelmondragon/markethub-backend/internal/analytics"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/logger"
)

// StoreAnalytics returns a store's sales summary, daily trend and top
// products for staff with the view-stats permission.
func StoreAnalytics(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		uid, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := pathUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days, err := validators.ParseQueryInt(r, "days", 30, 1, 180)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		top, err := validators.ParseQueryInt(r, "top", 5, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.StoreAnalytics(r.Context(), uid, storeID, days, top)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
