package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/markethub-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
)

// requireUser pulls the authenticated user id from the request context.
func requireUser(r *http.Request) (uuid.UUID, error) {
	uid := middleware.UserUUIDFromContext(r.Context())
	if uid == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return uid, nil
}

// optionalUser returns the authenticated user id, or uuid.Nil for anonymous
// requests.
func optionalUser(r *http.Request) uuid.UUID {
	return middleware.UserUUIDFromContext(r.Context())
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s", param))
	}
	return id, nil
}
