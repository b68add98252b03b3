package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"prediction-arena/internal/models"
	"prediction-arena/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	h := NewUserHandler(services.NewUserService(setupHandlerDB(t)))

	r := gin.New()
	r.POST("/api/v1/users/register", h.Register)
	r.GET("/api/v1/users/:address", h.GetUser)
	return r
}

func TestRegisterAndFetchUser(t *testing.T) {
	r := userRouter(t)

	w := postJSON(r, "/api/v1/users/register",
		fmt.Sprintf(`{"user_address":"%s","nickname":"degen"}`, testAddr))
	require.Equal(t, http.StatusOK, w.Code)

	w = getPath(r, "/api/v1/users/"+testAddr)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, testAddr, user.UserAddress)
	assert.Equal(t, "degen", user.Nickname)
}

func TestRegisterRejectsBadAddress(t *testing.T) {
	r := userRouter(t)

	w := postJSON(r, "/api/v1/users/register", `{"user_address":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	r := userRouter(t)

	w := getPath(r, "/api/v1/users/"+testAddr)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}
