package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bloghub/internal/httpapi/dto"
	"bloghub/internal/httpapi/repository"
	"bloghub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	svc service.BlogService
}

func NewBlogHandler(svc service.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// List returns one page of blogs in the SPA's pagination envelope
func (h *BlogHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("pages", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response, err := h.svc.List(ctx, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get all blogs"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Get returns a single blog. Exactly one response: 404 when not found,
// 200 with the entity otherwise.
func (h *BlogHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blog, err := h.svc.GetByID(ctx, c.Param("blogid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get blog"})
		return
	}

	c.JSON(http.StatusOK, blog)
}

// Create runs the publish pipeline for the authenticated author
func (h *BlogHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateBlogDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blog, err := h.svc.Publish(ctx, user, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post blog"})
		return
	}

	c.JSON(http.StatusCreated, blog)
}

// Update rewrites an owned blog; 404 covers both missing and not-owned
func (h *BlogHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateBlogDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	blog, err := h.svc.Update(ctx, user, c.Param("blogid"), req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update blog"})
		}
		return
	}

	c.JSON(http.StatusOK, blog)
}

// Delete removes an owned blog; 404 covers both missing and not-owned
func (h *BlogHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, user, c.Param("blogid")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete blog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
