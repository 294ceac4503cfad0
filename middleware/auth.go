package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/egor/backoffice/config"
	"github.com/egor/backoffice/models"
)

const requesterKey = "requester"

// Claims is the token payload: the user id and role of the requester.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 tokens.
type Tokens struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokens(cfg config.JWTConfig) *Tokens {
	return &Tokens{key: []byte(cfg.Secret), ttl: cfg.TTL, issuer: cfg.Issuer, now: time.Now}
}

// Generate signs a token for u valid for the configured TTL.
func (t *Tokens) Generate(u models.Requester) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := &Claims{
		UserID: u.ID.String(),
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Validate parses a token and returns the requester it was issued to.
func (t *Tokens) Validate(tokenString string) (models.Requester, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.key, nil
	})
	if err != nil {
		return models.Requester{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.Requester{}, errors.New("invalid token")
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.Requester{}, fmt.Errorf("invalid user id in token: %w", err)
	}
	role := models.Role(claims.Role)
	if !role.Valid() {
		return models.Requester{}, fmt.Errorf("invalid role in token: %q", claims.Role)
	}
	return models.Requester{ID: id, Role: role}, nil
}

// Auth rejects requests without a valid bearer token and stores the
// requester in the gin context.
func Auth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		requester, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		SetRequester(c, requester)
		c.Next()
	}
}

// RequireRole lets only the given role through. It must run after Auth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := RequesterFrom(c)
		if !ok || r.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RequesterFrom returns the identity set by Auth.
func RequesterFrom(c *gin.Context) (models.Requester, bool) {
	v, ok := c.Get(requesterKey)
	if !ok {
		return models.Requester{}, false
	}
	r, ok := v.(models.Requester)
	return r, ok
}

// SetRequester stores the identity later read by RequesterFrom.
func SetRequester(c *gin.Context, r models.Requester) {
	c.Set(requesterKey, r)
}
