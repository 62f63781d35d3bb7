package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ideahub/internal/access"
	"ideahub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const principalKey = "principal"

var errNoToken = errors.New("no token")

// Claims represents the JWT claims. Guest tokens carry no id.
type Claims struct {
	ID   *uint  `json:"id,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for p that expires after ttl.
func IssueToken(p access.Principal, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:   p.ID,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// AuthMiddleware resolves the request principal from a Bearer token or the
// token query parameter. Requests without a token act as the guest principal.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := getToken(c)
		if errors.Is(err, errNoToken) {
			c.Set(principalKey, access.Guest())
			c.Next()
			return
		}
		if err != nil {
			AbortWithError(c, apperr.Unauthorized(err.Error()))
			return
		}

		claims, err := parseToken(tokenString, jwtSecret)
		if err != nil {
			AbortWithError(c, apperr.Unauthorized("invalid token"))
			return
		}

		c.Set(principalKey, access.Principal{ID: claims.ID, Role: claims.Role})
		c.Next()
	}
}

// RequirePermission lets the request through only when the resolver allows
// the current principal to perform capability.
func RequirePermission(resolver *access.Resolver, capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		decision, err := resolver.Authorize(c.Request.Context(), p, capability)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := decision.Err(); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal set by AuthMiddleware, or the guest.
func CurrentPrincipal(c *gin.Context) access.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Guest()
}

func getToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1], nil
		}
		return "", errors.New("malformed authorization header")
	}

	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", errNoToken
}

func parseToken(tokenString, jwtSecret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// AbortWithError writes err as {"error": msg} with the status of its kind.
// Internal errors are logged with their cause and answered generically.
func AbortWithError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}

// CORSMiddleware sets up CORS headers for origin.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
