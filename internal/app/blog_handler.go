package app

import (
	"net/http"

	"bloggers-platform/internal/service"
	"bloggers-platform/internal/util"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	blogService service.BlogService
	postService service.PostService
}

func NewBlogHandler(blogService service.BlogService, postService service.PostService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		postService: postService,
	}
}

// GetBlogs returns a page of blogs
// GET /api/blogs
func (h *BlogHandler) GetBlogs(c *gin.Context) {
	page, err := h.blogService.GetBlogs(service.BlogListQuery{
		SearchNameTerm: c.Query("searchNameTerm"),
		Params:         parseListParams(c),
	})
	if err != nil {
		util.InternalError(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", page)
}

// GetBlog returns a single blog
// GET /api/blogs/:id
func (h *BlogHandler) GetBlog(c *gin.Context) {
	blog, err := h.blogService.GetBlog(c.Param("id"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", blog)
}

// GetBlogPosts returns a page of one blog's posts
// GET /api/blogs/:id/posts
func (h *BlogHandler) GetBlogPosts(c *gin.Context) {
	page, err := h.postService.GetPostsByBlog(c.Param("id"), c.GetString("userID"), parseListParams(c))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusOK, "", page)
}

// CreateBlog creates a blog (admin)
// POST /api/blogs
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req service.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	blog, err := h.blogService.CreateBlog(req)
	if err != nil {
		util.InternalError(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusCreated, "Blog created", blog)
}

// CreateBlogPost creates a post under a blog (admin)
// POST /api/blogs/:id/posts
func (h *BlogHandler) CreateBlogPost(c *gin.Context) {
	var req struct {
		Title            string `json:"title" binding:"required,max=30"`
		ShortDescription string `json:"shortDescription" binding:"required,max=100"`
		Content          string `json:"content" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.CreatePost(service.CreatePostRequest{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		BlogID:           c.Param("id"),
	})
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusCreated, "Post created", post)
}

// UpdateBlog updates a blog (admin)
// PUT /api/blogs/:id
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	var req service.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.blogService.UpdateBlog(c.Param("id"), req); err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Blog updated", nil)
}

// DeleteBlog deletes a blog (admin)
// DELETE /api/blogs/:id
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	if err := h.blogService.DeleteBlog(c.Param("id")); err != nil {
		util.NotFound(c, err.Error())
		return
	}
	util.SuccessResponse(c, http.StatusNoContent, "Blog deleted", nil)
}
