package main

import (
	"net/http"

	"legalhub/internal/middleware"
)

// routeGuards wraps handlers in the authentication and role checks
type routeGuards struct {
	auth *middleware.AuthMiddleware
}

// user requires any signed-in caller
func (g routeGuards) user(h http.HandlerFunc) http.Handler {
	return g.auth.Authenticate(h)
}

// admin requires the admin or legal role
func (g routeGuards) admin(h http.HandlerFunc) http.Handler {
	return g.auth.Authenticate(middleware.RequireAdmin(h))
}
