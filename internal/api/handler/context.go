package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aegis-id/auth-service/internal/api/middleware"
	"github.com/aegis-id/auth-service/internal/core/accesscontrol"
)

// requireSecurityContext extracts the security context injected by the auth
// middleware. Routes calling this are guarded by an Authenticated (or
// stricter) policy, so a missing context means the route table is
// misconfigured; fail closed with a 401 rather than panicking.
func requireSecurityContext(c echo.Context) (*accesscontrol.SecurityContext, error) {
	sc := middleware.SecurityContextFrom(c)
	if sc == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return sc, nil
}
