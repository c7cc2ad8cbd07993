package app

import (
	"net/http"

	"bloggers-platform/internal/likes"
	"bloggers-platform/internal/service"
	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService    service.PostService
	commentService service.CommentService
}

func NewPostHandler(postService service.PostService, commentService service.CommentService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
	}
}

type likeStatusRequest struct {
	LikeStatus likes.Status `json:"likeStatus" binding:"required,oneof=None Like Dislike"`
}

// GetPosts returns a page of posts, with myStatus resolved for signed-in viewers
// GET /api/posts
func (h *PostHandler) GetPosts(c *gin.Context) {
	page, err := h.postService.GetPosts(c.GetString("userID"), parseListParams(c))
	if err != nil {
		util.InternalError(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", page)
}

// GetPost returns a single post
// GET /api/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Param("id"), c.GetString("userID"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", post)
}

// CreatePost creates a post (admin)
// POST /api/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.CreatePost(req)
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusCreated, "Post created", post)
}

// UpdatePost updates a post (admin)
// PUT /api/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req service.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.postService.UpdatePost(c.Param("id"), req); err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Post updated", nil)
}

// DeletePost deletes a post (admin)
// DELETE /api/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postService.DeletePost(c.Param("id")); err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Post deleted", nil)
}

// UpdateLikeStatus applies the caller's like status to a post
// PUT /api/posts/:id/like-status
func (h *PostHandler) UpdateLikeStatus(c *gin.Context) {
	var req likeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	err := h.postService.UpdateLikeStatus(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("userID"),
		c.GetString("userLogin"),
		req.LikeStatus,
	)
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Like status updated", nil)
}

// GetPostComments returns a page of a post's comments
// GET /api/posts/:id/comments
func (h *PostHandler) GetPostComments(c *gin.Context) {
	page, err := h.commentService.GetCommentsByPost(c.Param("id"), c.GetString("userID"), parseListParams(c))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", page)
}

// CreatePostComment creates a comment under a post
// POST /api/posts/:id/comments
func (h *PostHandler) CreatePostComment(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.CreateComment(
		c.Param("id"),
		c.GetString("userID"),
		c.GetString("userLogin"),
		req,
	)
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusCreated, "Comment created", comment)
}
