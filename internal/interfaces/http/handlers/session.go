// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/identity"
)

// SessionHandler exposes login, signup and logout for the UI surfaces
type SessionHandler struct {
	session *identity.Session
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session *identity.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// Login handles POST /session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	info, err := h.session.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"data":    info,
	})
}

// Signup handles POST /session/signup
func (h *SessionHandler) Signup(c *gin.Context) {
	var req identity.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	info, err := h.session.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account created successfully",
		"data":    info,
	})
}

// Logout handles POST /session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.session.Logout()

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me handles GET /session/me
func (h *SessionHandler) Me(c *gin.Context) {
	state := h.session.State()

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"authenticated": state.Authenticated,
			"resolved":      state.Resolved,
			"userId":        state.UserID,
			"username":      state.Username,
			"email":         state.Email,
			"roles":         state.Roles,
		},
	})
}
