package handlers

import (
	"errors"
	"net/http"

	"prediction-arena/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	UserAddress string `json:"user_address" binding:"required,eth_addr"`
	Nickname    string `json:"nickname" binding:"max=50"`
}

// Register upserts a user by address. Safe to call repeatedly.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.UserAddress, req.Nickname)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser fetches a registered user by address.
func (h *UserHandler) GetUser(c *gin.Context) {
	address := c.Param("address")
	if !ValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user address"})
		return
	}

	user, err := h.users.GetByAddress(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
