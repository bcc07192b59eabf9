package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/api/responses"
	"github.com/angelmondragon/markethub-backend/api/validators"
	grantsvc "github.com/angelmondragon/markethub-backend/internal/grants"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/logger"
)

// GrantStoreAccess issues a private-store access grant to a user.
func GrantStoreAccess(svc grantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grant service unavailable"))
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

		var payload grantAccessRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grant, err := svc.Grant(r.Context(), uid, storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, grant)
	}
}

// RevokeStoreAccess revokes a user's private-store access grant.
func RevokeStoreAccess(svc grantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grant service unavailable"))
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

		targetID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grant, err := svc.Revoke(r.Context(), uid, storeID, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, grant)
	}
}

type grantAccessRequest struct {
	UserID      string     `json:"user_id" validate:"required,uuid4"`
	AccessLevel string     `json:"access_level" validate:"required"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (r grantAccessRequest) toInput() (grantsvc.GrantInput, error) {
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return grantsvc.GrantInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id")
	}

	level, err := enums.ParseAccessLevel(strings.TrimSpace(r.AccessLevel))
	if err != nil {
		return grantsvc.GrantInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid access_level")
	}

	return grantsvc.GrantInput{
		UserID:      userID,
		AccessLevel: level,
		ExpiresAt:   r.ExpiresAt,
	}, nil
}
