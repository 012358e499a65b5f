package middleware

import (
	"net/http"

	"checkout-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates requests from a JWT session cookie and puts
// the user id into the request context. Unauthenticated requests are
// redirected to the login page with a next parameter pointing back at the
// requested path.
func AuthMiddleware(jwtSecret, cookieName string, site service.SiteURLs) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusFound, site.LoginURL(c.Request().URL.Path))
			}

			userID, err := parseUserID(cookie.Value, jwtSecret)
			if err != nil {
				return c.Redirect(http.StatusFound, site.LoginURL(c.Request().URL.Path))
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}

func parseUserID(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return sub, nil
}
