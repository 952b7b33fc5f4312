package api

import (
	"net/http"

	"qr-table-service/internal/auth"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	RestaurantID string `json:"restaurant_id" binding:"required"`
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// login handles credential verification and session issuance
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, session, err := h.authService.Login(c.Request.Context(), req.RestaurantID, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(auth.CookieName, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": session})
}

// logout clears the session cookie
func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// me returns the resolved session identity
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": CurrentSession(c)})
}
