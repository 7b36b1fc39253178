package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"tasktrack/internal/handler"
	"tasktrack/internal/hash"
	"tasktrack/internal/middleware"
	"tasktrack/internal/repository"
	"tasktrack/internal/service"
	"tasktrack/internal/token"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// NewUserServer wires the auth and admin routes.
func NewUserServer(db *sqlx.DB, tokens *token.Manager, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()
	s := &Server{router: router, logger: logger}

	userRepo := repository.NewUserRepository(db, log)
	hasher := hash.NewHasher(hash.DefaultCost)
	authService := service.NewAuthService(userRepo, hasher, tokens, logger)
	adminService := service.NewAdminService(userRepo, logger)
	authHandler := handler.NewAuthHandler(authService, log)
	adminHandler := handler.NewAdminHandler(adminService, log)

	router.GET("/health", healthCheck)

	authGroup := router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.Auth(tokens, logger), authHandler.Me)

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.Auth(tokens, logger), middleware.RequireAdmin())
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
		adminGroup.PUT("/users/:id/role", adminHandler.UpdateRole)
	}

	return s
}

// NewTodoServer wires the ownership-scoped todo routes.
func NewTodoServer(db *sqlx.DB, tokens *token.Manager, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()
	s := &Server{router: router, logger: logger}

	todoRepo := repository.NewTodoRepository(db, log)
	todoService := service.NewTodoService(todoRepo, logger)
	todoHandler := handler.NewTodoHandler(todoService, log)

	router.GET("/health", healthCheck)

	todoGroup := router.Group("/api/todos")
	todoGroup.Use(middleware.Auth(tokens, logger))
	{
		todoGroup.GET("", todoHandler.List)
		todoGroup.POST("", todoHandler.Create)
		todoGroup.GET("/stats", todoHandler.Stats)
		todoGroup.PUT("/:id", todoHandler.Update)
		todoGroup.DELETE("/:id", todoHandler.Delete)
	}

	return s
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) {
	srv := &http.Server{Addr: addr, Handler: s.router}

	go func() {
		s.logger.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server shutdown failed", zap.Error(err))
	}
	s.logger.Info("Server stopped")
}
