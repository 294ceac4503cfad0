package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/service"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Generate(r models.Requester) (string, time.Time, error)
}

type AuthHandler struct {
	users  UserService
	tokens TokenIssuer
	log    logger.Logger
}

func NewAuthHandler(users UserService, tokens TokenIssuer, log logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Login exchanges email and password for a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&credentials); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Infof("failed login for %s from %s", credentials.Email, c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: err.Error()})
			return
		}
		respondError(c, h.log, err)
		return
	}

	token, expires, err := h.tokens.Generate(models.Requester{ID: user.ID, Role: user.Role})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Infof("user %s (%s) logged in", user.Email, user.ID)
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expires, User: user})
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(c *gin.Context) {
	r := requester(c)
	user, err := h.users.GetByID(c.Request.Context(), r.ID, models.Unrestricted())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
