package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zestcart/zestcart-backend/api/middleware"
	"github.com/zestcart/zestcart-backend/internal/orders"
	"github.com/zestcart/zestcart-backend/pkg/enums"
	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

// actorFromRequest rebuilds the authenticated actor from the request
// context seeded by the auth middleware.
func actorFromRequest(r *http.Request) (orders.Actor, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid role")
	}

	actor := orders.Actor{UserID: userID, Role: role}
	if raw := middleware.ShopIDFromContext(r.Context()); raw != "" {
		if shopID, parseErr := uuid.Parse(raw); parseErr == nil {
			actor.ShopID = &shopID
		}
	}
	return actor, nil
}

// customerIDFromRequest returns the caller's user id.
func customerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return userID, nil
}

// pathlessUUID parses a UUID carried in a request body field.
func pathlessUUID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a valid uuid")
	}
	return id, nil
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, param+" must be a valid uuid")
	}
	return id, nil
}
