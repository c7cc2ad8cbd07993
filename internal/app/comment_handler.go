package app

import (
	"errors"
	"net/http"

	"bloggers-platform/internal/service"
	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// GetComment returns a single comment
// GET /api/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	comment, err := h.commentService.GetComment(c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondCommentError(c, err)
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", comment)
}

// UpdateComment edits a comment; only the author may do so
// PUT /api/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var req service.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.commentService.UpdateComment(c.Param("id"), c.GetString("userID"), req); err != nil {
		respondCommentError(c, err)
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Comment updated", nil)
}

// DeleteComment removes a comment; only the author may do so
// DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.commentService.DeleteComment(c.Param("id"), c.GetString("userID")); err != nil {
		respondCommentError(c, err)
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Comment deleted", nil)
}

// UpdateLikeStatus applies the caller's like status to a comment
// PUT /api/comments/:id/like-status
func (h *CommentHandler) UpdateLikeStatus(c *gin.Context) {
	var req likeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	err := h.commentService.UpdateLikeStatus(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("userID"),
		c.GetString("userLogin"),
		req.LikeStatus,
	)
	if err != nil {
		respondCommentError(c, err)
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Like status updated", nil)
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, service.ErrCommentForbidden):
		util.Forbidden(c, err.Error())
	default:
		util.InternalError(c, err.Error())
	}
}
