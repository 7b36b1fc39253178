package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasktrack/internal/middleware"
	"tasktrack/internal/models"
	"tasktrack/internal/service"
)

type AdminHandler interface {
	ListUsers(c *gin.Context)
	DeleteUser(c *gin.Context)
	UpdateRole(c *gin.Context)
}

type adminHandler struct {
	adminService service.AdminService
	log          *logrus.Logger
}

func NewAdminHandler(adminService service.AdminService, log *logrus.Logger) AdminHandler {
	return &adminHandler{adminService: adminService, log: log}
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

func (h *adminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		h.log.Errorf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

func (h *adminHandler) DeleteUser(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	targetID := c.Param("id")
	err := h.adminService.DeleteUser(claims.UserID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.log.Errorf("Failed to delete user %s: %v", targetID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *adminHandler) UpdateRole(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	targetID := c.Param("id")
	user, err := h.adminService.UpdateRole(claims.UserID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid role. Must be "user" or "admin"`})
		case errors.Is(err, service.ErrSelfTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.log.Errorf("Failed to update role for user %s: %v", targetID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    user,
	})
}
