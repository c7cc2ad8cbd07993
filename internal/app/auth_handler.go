package app

import (
	"net/http"
	"strings"

	"bloggers-platform/internal/service"
	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// POST /api/auth/registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.Register(req); err != nil {
		util.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusNoContent, "Registration successful, confirmation email sent", nil)
}

// ConfirmRegistration handles email confirmation by code
// POST /api/auth/registration-confirmation
func (h *AuthHandler) ConfirmRegistration(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ConfirmRegistration(req.Code); err != nil {
		util.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusNoContent, "Email confirmed", nil)
}

// ResendConfirmation re-issues the confirmation code and email
// POST /api/auth/registration-email-resending
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ResendConfirmationEmail(req.Email); err != nil {
		util.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusNoContent, "Confirmation email sent", nil)
}

// Login authenticates a user and opens a device session
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	pair, err := h.authService.Login(req, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		util.Unauthorized(c, err.Error())
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	util.SuccessResponse(c, http.StatusOK, "Login successful", gin.H{"accessToken": pair.AccessToken})
}

// RefreshToken rotates the token pair of the current device session
// POST /api/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refreshToken")
	if err != nil || refreshToken == "" {
		util.Unauthorized(c, "Refresh token missing")
		return
	}

	pair, err := h.authService.RefreshTokens(refreshToken)
	if err != nil {
		util.Unauthorized(c, err.Error())
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	util.SuccessResponse(c, http.StatusOK, "Tokens refreshed", gin.H{"accessToken": pair.AccessToken})
}

// Logout closes the current device session
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie("refreshToken")
	if err != nil || refreshToken == "" {
		util.Unauthorized(c, "Refresh token missing")
		return
	}

	if err := h.authService.Logout(refreshToken); err != nil {
		util.Unauthorized(c, err.Error())
		return
	}

	c.SetCookie("refreshToken", "", -1, "/", "", false, true)
	util.SuccessResponse(c, http.StatusNoContent, "Logged out", nil)
}

// PasswordRecovery sends a recovery email if the address is registered.
// Responds 204 either way so the endpoint cannot be used to probe emails.
// POST /api/auth/password-recovery
func (h *AuthHandler) PasswordRecovery(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.RecoverPassword(req.Email); err != nil {
		util.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusNoContent, "Recovery email sent", nil)
}

// NewPassword sets a new password using a recovery code
// POST /api/auth/new-password
func (h *AuthHandler) NewPassword(c *gin.Context) {
	var req struct {
		NewPassword  string `json:"newPassword" binding:"required,min=6,max=20"`
		RecoveryCode string `json:"recoveryCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.SetNewPassword(req.RecoveryCode, req.NewPassword); err != nil {
		util.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusNoContent, "Password updated", nil)
}

// GetMe returns the authenticated user's own info
// GET /api/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	me, err := h.authService.GetMe(c.GetString("userID"))
	if err != nil {
		util.Unauthorized(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "", me)
}

// AuthMiddleware requires a valid Bearer access token
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := h.bearerClaims(c)
		if !ok {
			util.Unauthorized(c, "Authorization required")
			c.Abort()
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("userLogin", claims.Login)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer when a valid token is present
// but lets anonymous requests through, so myStatus stays None for them
func (h *AuthHandler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := h.bearerClaims(c); ok {
			c.Set("userID", claims.UserID)
			c.Set("userLogin", claims.Login)
		}
		c.Next()
	}
}

func (h *AuthHandler) bearerClaims(c *gin.Context) (*service.AccessClaims, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := h.authService.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	// httpOnly cookie scoped to the whole API, rotated on every refresh
	c.SetCookie("refreshToken", token, 0, "/", "", false, true)
}
