package middleware

// identity.go attaches the optional caller identity to the request
// context.  Authentication itself lives in the outer platform; this
// service only consumes its product: when a request carries a valid
// bearer token, the token's subject becomes the user_id attached to
// holds and bookings.  Requests without a token (or with an invalid
// one) proceed anonymously – reservations key on the session, never on
// the user.

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// OptionalAuth returns middleware that parses a Bearer access token
// when one is present and stores its subject under "user_id" in the
// context.  Unlike a gatekeeping JWT middleware it never rejects the
// request: identity is optional on every reservation endpoint.  An
// empty secret disables parsing entirely.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return next(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return next(c)
			}
			if claims, ok := tok.Claims.(jwt.MapClaims); ok {
				if sub, ok := claims["sub"].(string); ok && sub != "" {
					c.Set("user_id", sub)
				}
			}
			return next(c)
		}
	}
}

// currentUserID is shared by the rate limiter's key builder: the
// authenticated subject when present, "anon" otherwise.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
