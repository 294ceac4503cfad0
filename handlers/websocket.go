package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/models"
	hub "github.com/egor/backoffice/websocket"
)

// TokenValidator verifies access tokens.
type TokenValidator interface {
	Validate(token string) (models.Requester, error)
}

// WSHandler upgrades dashboard connections. Browsers cannot set headers on
// a websocket handshake, so the token travels in the query string.
type WSHandler struct {
	hub      *hub.Hub
	tokens   TokenValidator
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewWSHandler(h *hub.Hub, tokens TokenValidator, allowedOrigins []string, log logger.Logger) *WSHandler {
	return &WSHandler{
		hub:    h,
		tokens: tokens,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins, log),
		},
	}
}

// originChecker accepts requests without an Origin header (non-browser
// clients), any listed origin, or anything when the list holds "*".
func originChecker(allowed []string, log logger.Logger) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		log.Warnf("websocket origin rejected: %s", origin)
		return false
	}
}

func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "authorization required"})
		return
	}
	r, err := h.tokens.Validate(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the response.
		h.log.Warnf("websocket upgrade for %s failed: %v", r.ID, err)
		return
	}
	hub.NewClient(h.hub, conn, r).Serve()
}
