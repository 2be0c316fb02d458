package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/open-builders/giveaway-bot/internal/common/errors"
)

const operatorKey = "operator"

// Auth accepts "Authorization: ApiKey <key>" or "Authorization: Bearer <jwt>"
// (HS256, signed with jwtSecret). The operator identity (key label or the
// token subject) is stored in the context. With no keys and no secret
// configured every request is rejected.
func Auth(apiKeys []string, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, credential, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
		if !ok || credential == "" {
			AbortWithError(c, errors.NewUnauthorizedError("missing credentials"))
			return
		}

		switch strings.ToLower(scheme) {
		case "apikey":
			if !matchAPIKey(apiKeys, credential) {
				AbortWithError(c, errors.NewUnauthorizedError("invalid API key"))
				return
			}
			c.Set(operatorKey, "apikey:"+keyHint(credential))
		case "bearer":
			subject, err := verifyJWT(jwtSecret, credential)
			if err != nil {
				AbortWithError(c, errors.NewUnauthorizedError("invalid token"))
				return
			}
			c.Set(operatorKey, subject)
		default:
			AbortWithError(c, errors.NewUnauthorizedError("unsupported authorization scheme"))
			return
		}

		c.Next()
	}
}

func matchAPIKey(keys []string, candidate string) bool {
	found := false
	for _, k := range keys {
		if k == "" {
			continue
		}
		// сравниваем со всеми ключами, чтобы время не зависело от позиции
		if subtle.ConstantTimeCompare([]byte(k), []byte(candidate)) == 1 {
			found = true
		}
	}
	return found
}

func verifyJWT(secret, raw string) (string, error) {
	if secret == "" {
		return "", jwt.ErrTokenUnverifiable
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		subject = "jwt"
	}
	return subject, nil
}

func keyHint(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// getOperator returns the authenticated operator, if any.
func getOperator(c *gin.Context) string {
	if v, ok := c.Get(operatorKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
