package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bloghub/internal/httpapi/repository"
	"bloghub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.PATCH("/:id/read", h.MarkRead)
	rg.PATCH("/mark-all-read", h.MarkAllRead)
}

// List returns the authenticated user's recent notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.svc.ListRecent(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead marks a single owned notification as read; a notification owned
// by someone else is a 404, indistinguishable from a missing one
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notification, err := h.svc.MarkRead(ctx, user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, notification)
}

// MarkAllRead marks every notification read; idempotent
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAllRead(ctx, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
