package service

import (
	"errors"

	"bloggers-platform/internal/model"
	"bloggers-platform/internal/repository"
)

type CreateBlogRequest struct {
	Name        string `json:"name" binding:"required,max=15"`
	Description string `json:"description" binding:"required,max=500"`
	WebsiteURL  string `json:"websiteUrl" binding:"required,url,max=100"`
}

type UpdateBlogRequest struct {
	Name        string `json:"name" binding:"required,max=15"`
	Description string `json:"description" binding:"required,max=500"`
	WebsiteURL  string `json:"websiteUrl" binding:"required,url,max=100"`
}

type BlogListQuery struct {
	SearchNameTerm string
	Params         repository.ListParams
}

type BlogService interface {
	CreateBlog(req CreateBlogRequest) (*BlogView, error)
	GetBlog(id string) (*BlogView, error)
	GetBlogs(query BlogListQuery) (*Paginated, error)
	UpdateBlog(id string, req UpdateBlogRequest) error
	DeleteBlog(id string) error
}

type blogService struct {
	blogRepo repository.BlogRepository
	postRepo repository.PostRepository
}

func NewBlogService(blogRepo repository.BlogRepository, postRepo repository.PostRepository) BlogService {
	return &blogService{
		blogRepo: blogRepo,
		postRepo: postRepo,
	}
}

// CreateBlog creates a new blog
func (s *blogService) CreateBlog(req CreateBlogRequest) (*BlogView, error) {
	blog := &model.Blog{
		Name:        req.Name,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
	}
	if err := s.blogRepo.Create(blog); err != nil {
		return nil, errors.New("failed to create blog")
	}
	return mapBlogToView(blog), nil
}

// GetBlog returns a blog by ID
func (s *blogService) GetBlog(id string) (*BlogView, error) {
	blog, err := s.blogRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("blog not found")
	}
	return mapBlogToView(blog), nil
}

// GetBlogs returns a page of blogs
func (s *blogService) GetBlogs(query BlogListQuery) (*Paginated, error) {
	blogs, total, err := s.blogRepo.FindAll(query.SearchNameTerm, query.Params)
	if err != nil {
		return nil, errors.New("failed to get blogs")
	}

	views := make([]*BlogView, 0, len(blogs))
	for _, blog := range blogs {
		views = append(views, mapBlogToView(blog))
	}
	return paginate(views, total, query.Params.Page, query.Params.PageSize), nil
}

// UpdateBlog updates a blog and keeps the denormalized blog name on posts current
func (s *blogService) UpdateBlog(id string, req UpdateBlogRequest) error {
	blog, err := s.blogRepo.FindByID(id)
	if err != nil {
		return errors.New("blog not found")
	}

	nameChanged := blog.Name != req.Name

	blog.Name = req.Name
	blog.Description = req.Description
	blog.WebsiteURL = req.WebsiteURL
	if err := s.blogRepo.Update(blog); err != nil {
		return errors.New("failed to update blog")
	}

	if nameChanged {
		if err := s.postRepo.UpdateBlogName(blog.ID, blog.Name); err != nil {
			return errors.New("failed to update blog name on posts")
		}
	}
	return nil
}

// DeleteBlog deletes a blog
func (s *blogService) DeleteBlog(id string) error {
	if _, err := s.blogRepo.FindByID(id); err != nil {
		return errors.New("blog not found")
	}
	return s.blogRepo.Delete(id)
}
