package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	repository "go-huddle/internal/repository/port"
)

// actorKey is the gin context key holding the resolved actor's user id.
const actorKey = "actorID"

// Claims carries the authenticated user's identity inside the bearer token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken mints a signed bearer token for the given user. Used by test
// harnesses and the local seed tooling; real tokens come from the identity
// provider sharing the same secret.
func GenerateToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthRequired authenticates the bearer token and resolves it to an internal
// user record. Requests without a valid, resolvable identity never reach the
// handler.
func AuthRequired(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing Authorization header")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Authorization header must be: Bearer <token>")
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "token is invalid or expired")
			return
		}
		userID := claims.UserID
		if userID == "" {
			userID = claims.Subject
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) {
			abortUnauthorized(c, "unknown user")
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "internal_error", "message": "identity lookup failed"},
			})
			return
		}

		c.Set(actorKey, user.ID)
		c.Next()
	}
}

// ActorID returns the authenticated actor's user id, empty when unauthenticated.
func ActorID(c *gin.Context) string {
	return c.GetString(actorKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "unauthorized", "message": message},
	})
}
