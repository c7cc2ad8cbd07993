package app

import (
	"errors"
	"net/http"

	"bloggers-platform/internal/service"
	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the device session endpoints. All of them are
// authorized by the refresh token cookie, not the access token, so a
// stolen access token alone cannot manage devices.
type SessionHandler struct {
	sessionService service.SessionService
	authService    service.AuthService
}

func NewSessionHandler(sessionService service.SessionService, authService service.AuthService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		authService:    authService,
	}
}

// GetDevices lists the caller's active device sessions
// GET /api/security/devices
func (h *SessionHandler) GetDevices(c *gin.Context) {
	claims, ok := h.refreshClaims(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.GetUserSessions(claims.UserID)
	if err != nil {
		util.InternalError(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", sessions)
}

// TerminateOtherDevices closes every session except the current device
// DELETE /api/security/devices
func (h *SessionHandler) TerminateOtherDevices(c *gin.Context) {
	claims, ok := h.refreshClaims(c)
	if !ok {
		return
	}

	if err := h.sessionService.TerminateOtherSessions(claims.UserID, claims.DeviceID); err != nil {
		util.InternalError(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Other sessions terminated", nil)
}

// TerminateDevice closes one device session
// DELETE /api/security/devices/:deviceId
func (h *SessionHandler) TerminateDevice(c *gin.Context) {
	claims, ok := h.refreshClaims(c)
	if !ok {
		return
	}

	err := h.sessionService.TerminateSession(claims.UserID, c.Param("deviceId"))
	switch {
	case err == nil:
		util.SuccessResponse(c, http.StatusNoContent, "Session terminated", nil)
	case errors.Is(err, service.ErrSessionNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, service.ErrSessionForbidden):
		util.Forbidden(c, err.Error())
	default:
		util.InternalError(c, err.Error())
	}
}

func (h *SessionHandler) refreshClaims(c *gin.Context) (*service.RefreshClaims, bool) {
	refreshToken, err := c.Cookie("refreshToken")
	if err != nil || refreshToken == "" {
		util.Unauthorized(c, "Refresh token missing")
		return nil, false
	}

	// Check against the stored session too: a token superseded by
	// rotation must not keep managing devices until it expires
	claims, err := h.authService.CheckRefreshSession(refreshToken)
	if err != nil {
		util.Unauthorized(c, err.Error())
		return nil, false
	}
	return claims, true
}
