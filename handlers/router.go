package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/middleware"
	"github.com/egor/backoffice/models"
)

// API groups everything the routes need.
type API struct {
	Tokens       *middleware.Tokens
	Clients      ClientService
	Properties   PropertyService
	Transactions TransactionService
	Users        UserService
	Dashboard    DashboardService
	DB           Pinger
	WS           *WSHandler
	Metrics      http.Handler
	Log          logger.Logger
}

// Register mounts the public and authenticated routes on r.
func (a API) Register(r *gin.Engine) {
	auth := NewAuthHandler(a.Users, a.Tokens, a.Log)

	if a.DB != nil {
		r.GET("/healthz", Health(a.DB))
	}
	if a.Metrics != nil {
		r.GET("/metrics", gin.WrapH(a.Metrics))
	}
	if a.WS != nil {
		r.GET("/ws", a.WS.Serve)
	}

	api := r.Group("/api")
	api.POST("/auth/login", auth.Login)

	authorized := api.Group("")
	authorized.Use(middleware.Auth(a.Tokens))
	{
		authorized.GET("/auth/me", auth.Me)
		authorized.GET("/dashboard/stats", Dashboard(a.Dashboard))

		NewClientHandler(a.Clients, a.Log).Register(authorized.Group("/clients"))
		NewPropertyHandler(a.Properties, a.Log).Register(authorized.Group("/properties"))
		NewTransactionHandler(a.Transactions, a.Log).Register(authorized.Group("/transactions"))

		users := authorized.Group("/users")
		users.Use(middleware.RequireRole(models.RoleAdmin))
		NewUserHandler(a.Users, a.Log).Register(users)
	}
}
