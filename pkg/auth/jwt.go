package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// JWT signs and verifies the admin tokens that guard hard-delete routes.
// The secret is injected so nothing in here touches the environment.
type JWT struct {
	Secret   string
	TokenTTL time.Duration
}

func New(secret string, tokenTTL time.Duration) *JWT {
	return &JWT{Secret: secret, TokenTTL: tokenTTL}
}

func (j *JWT) CreateToken(subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(j.TokenTTL).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

func (j *JWT) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.Secret), nil
	})

	if err != nil {
		log.Warn().Err(err).Msg("token_verification_failed")
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	return token.Claims.(jwt.MapClaims), nil
}

// GinMiddleware rejects requests without a valid bearer token. With an
// empty secret the guarded routes are effectively disabled.
func (j *JWT) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if j.Secret == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Admin access is not configured"},
			})
			c.Abort()
			return
		}

		bearer := c.GetHeader("Authorization")

		if !strings.HasPrefix(bearer, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})
			c.Abort()
			return
		}

		claims, err := j.VerifyToken(strings.TrimPrefix(bearer, "Bearer "))

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})
			c.Abort()
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("x-admin-subject", sub)
		}

		c.Next()
	}
}
