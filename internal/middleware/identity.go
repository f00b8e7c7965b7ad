package middleware

// Helpers shared by the cache and rate limit middleware. requestUser
// reads the identity that JWTAuth stored in the context; anonymous
// requests share the "guest" identity so they can be limited as a
// group.

import "github.com/labstack/echo/v4"

// requestUser returns the authenticated user's hex id, or "guest"
// when the request carries no valid token.
func requestUser(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "guest"
}
