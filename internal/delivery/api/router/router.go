// Package router registers the API routes on an echo instance.
package router

import (
	"tasker/internal/delivery/api/middleware"
	"tasker/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	TaskHandler    *handler.TaskHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	accountHandler *handler.AccountHandler
	taskHandler    *handler.TaskHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		accountHandler: params.AccountHandler,
		taskHandler:    params.TaskHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
	}

	accountGroup := e.Group("/account")
	accountGroup.Use(r.authMiddleware.Authenticate)
	{
		accountGroup.GET("", r.accountHandler.GetAccount)
		accountGroup.PATCH("", r.accountHandler.UpdateAccount)
		accountGroup.DELETE("", r.accountHandler.DeleteAccount)
	}

	tasksGroup := e.Group("/tasks")
	tasksGroup.Use(r.authMiddleware.Authenticate)
	{
		tasksGroup.GET("", r.taskHandler.ListTasks)
		tasksGroup.POST("", r.taskHandler.CreateTask)
		tasksGroup.GET("/:id", r.taskHandler.GetTask)
		tasksGroup.PATCH("/:id", r.taskHandler.UpdateTask)
		tasksGroup.DELETE("/:id", r.taskHandler.DeleteTask)
	}
}
