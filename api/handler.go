// Package api maps the HTTP surface onto the user service: verb and status
// code translation, JSON request/response bodies, and the boundary where
// store failures become generic 500s.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Skryldev/user-service/db"
	"github.com/Skryldev/user-service/models"
	"github.com/Skryldev/user-service/service"
)

// UserResource is the service contract the handlers run against.
type UserResource interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	Update(ctx context.Context, params models.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

// UserHandler binds the /api/users routes to a UserResource.
type UserHandler struct {
	users UserResource
}

func NewUserHandler(users UserResource) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers handles GET /api/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	switch {
	case db.IsNotFound(err):
		respondError(c, http.StatusNotFound, "User not found")
	case err != nil:
		respondInternal(c, err, "Failed to fetch user")
	default:
		c.JSON(http.StatusOK, user)
	}
}

// CreateUser handles POST /api/users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var params models.CreateUserParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Create(c.Request.Context(), params)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		respondError(c, http.StatusBadRequest, "Name and email are required")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, "A user with this email already exists")
	case err != nil:
		respondInternal(c, err, "Failed to create user")
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"user":    user,
		})
	}
}

// UpdateUser handles PUT /api/users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var params models.UpdateUserParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	params.ID = id

	user, err := h.users.Update(c.Request.Context(), params)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		respondError(c, http.StatusBadRequest, "Name and email are required")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, "A user with this email already exists")
	case db.IsNotFound(err):
		respondError(c, http.StatusNotFound, "User not found")
	case err != nil:
		respondInternal(c, err, "Failed to update user")
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "User updated successfully",
			"user":    user,
		})
	}
}

// DeleteUser handles DELETE /api/users/:id. Deleting an already-deleted id
// reports the same not-found outcome as an id that never existed.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	_, err := h.users.Delete(c.Request.Context(), id)
	switch {
	case db.IsNotFound(err):
		respondError(c, http.StatusNotFound, "User not found")
	case err != nil:
		respondInternal(c, err, "Failed to delete user")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// userID parses the :id parameter. A malformed id can match no record, so it
// answers with the same not-found body as a well-formed miss.
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// respondInternal logs the real error and answers with a generic message;
// store internals never reach the caller.
func respondInternal(c *gin.Context, err error, message string) {
	slog.Error("api: request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	respondError(c, http.StatusInternalServerError, message)
}
