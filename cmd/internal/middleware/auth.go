package middleware

import (
	"strings"

	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates the Bearer token and stores the claims the handlers
// need under the "tokendata" context key.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(401, apierror.InvalidAuthTokenError)
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			}, jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				return c.JSON(401, apierror.InvalidAuthTokenError)
			}

			sub, _ := claims["sub"].(string)
			username, _ := claims["username"].(string)
			isAdmin, _ := claims["is_admin"].(bool)
			if sub == "" {
				return c.JSON(401, apierror.InvalidAuthTokenError)
			}

			c.Set("tokendata", &utils.TokenData{
				Sub:      sub,
				Username: username,
				IsAdmin:  isAdmin,
			})
			return next(c)
		}
	}
}
