package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"style-preset-backend/internal/config"
	"style-preset-backend/internal/models"
)

// SubjectKey holds the "sub" claim of an authenticated caller.
const SubjectKey = "subject"

// AuthMiddleware requires an HS256 bearer token signed with AUTH_JWT_SECRET.
// When no secret is configured every request passes through.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.AuthJWTSecret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header", "")
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			abortUnauthorized(c, "invalid authorization header format", "expected \"Bearer <token>\"")
			return
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			abortUnauthorized(c, "empty token", "")
			return
		}

		token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil {
			abortUnauthorized(c, "invalid token", tokenErrorMessage(err))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims", "")
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			abortUnauthorized(c, "missing subject in token", "")
			return
		}

		c.Set(SubjectKey, sub)
		c.Next()
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "token must carry an exp claim"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "token uses an unsupported signing method"
	}
	return err.Error()
}

func abortUnauthorized(c *gin.Context, msg, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: msg, Message: detail})
}
