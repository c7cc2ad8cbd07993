package app

import (
	"net/http"

	"bloggers-platform/internal/service"
	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes the admin user management endpoints
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetUsers returns a page of users, filterable by login and email
// GET /api/users
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, err := h.userService.GetUsers(service.UserListQuery{
		SearchLoginTerm: c.Query("searchLoginTerm"),
		SearchEmailTerm: c.Query("searchEmailTerm"),
		Params:          parseListParams(c),
	})
	if err != nil {
		util.InternalError(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", page)
}

// CreateUser creates a pre-confirmed user
// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		util.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	util.SuccessResponse(c, http.StatusCreated, "User created", user)
}

// DeleteUser removes a user
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Param("id")); err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "User deleted", nil)
}
