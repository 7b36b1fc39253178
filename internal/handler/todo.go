package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasktrack/internal/middleware"
	"tasktrack/internal/service"
)

type TodoHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Stats(c *gin.Context)
}

type todoHandler struct {
	todoService service.TodoService
	log         *logrus.Logger
}

func NewTodoHandler(todoService service.TodoService, log *logrus.Logger) TodoHandler {
	return &todoHandler{todoService: todoService, log: log}
}

type CreateTodoRequest struct {
	Content string `json:"content"`
}

// UpdateTodoRequest carries a partial update; nil fields are left untouched.
type UpdateTodoRequest struct {
	Content   *string `json:"content"`
	Completed *bool   `json:"completed"`
}

func (h *todoHandler) List(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	todos, err := h.todoService.List(claims.UserID)
	if err != nil {
		h.log.Errorf("Failed to list todos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"todos": todos,
		"total": len(todos),
	})
}

func (h *todoHandler) Create(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	todo, err := h.todoService.Create(claims.UserID, req.Content)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		h.log.Errorf("Failed to create todo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Todo created successfully",
		"todo":    todo,
	})
}

func (h *todoHandler) Update(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	todo, err := h.todoService.Update(claims.UserID, c.Param("id"), req.Content, req.Completed)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		h.log.Errorf("Failed to update todo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Todo updated successfully",
		"todo":    todo,
	})
}

func (h *todoHandler) Delete(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.todoService.Delete(claims.UserID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		h.log.Errorf("Failed to delete todo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *todoHandler) Stats(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	stats, err := h.todoService.Stats(claims.UserID)
	if err != nil {
		h.log.Errorf("Failed to compute stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// writeValidationError maps caller-fixable todo errors to 400 responses and
// reports whether it handled the error.
func writeValidationError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrContentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Todo content is required"})
	case errors.Is(err, service.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Todo content must be at most 500 characters"})
	case errors.Is(err, service.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields supplied for update"})
	default:
		return false
	}
	return true
}
