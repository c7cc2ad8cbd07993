package service

import (
	"context"
	"encoding/json"
	"errors"

	"bloggers-platform/internal/likes"
	"bloggers-platform/internal/model"
	"bloggers-platform/internal/repository"

	"gorm.io/gorm"
)

type CreatePostRequest struct {
	Title            string `json:"title" binding:"required,max=30"`
	ShortDescription string `json:"shortDescription" binding:"required,max=100"`
	Content          string `json:"content" binding:"required,max=1000"`
	BlogID           string `json:"blogId" binding:"required,uuid"`
}

type UpdatePostRequest struct {
	Title            string `json:"title" binding:"required,max=30"`
	ShortDescription string `json:"shortDescription" binding:"required,max=100"`
	Content          string `json:"content" binding:"required,max=1000"`
	BlogID           string `json:"blogId" binding:"required,uuid"`
}

type PostService interface {
	CreatePost(req CreatePostRequest) (*PostView, error)
	GetPost(postID, viewerID string) (*PostView, error)
	GetPosts(viewerID string, params repository.ListParams) (*Paginated, error)
	GetPostsByBlog(blogID, viewerID string, params repository.ListParams) (*Paginated, error)
	UpdatePost(postID string, req UpdatePostRequest) error
	DeletePost(postID string) error
	UpdateLikeStatus(ctx context.Context, postID, userID, login string, requested likes.Status) error
}

type postService struct {
	db           *gorm.DB
	postRepo     repository.PostRepository
	blogRepo     repository.BlogRepository
	reactionRepo repository.ReactionRepository
	updater      *likes.Updater
}

func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	blogRepo repository.BlogRepository,
	reactionRepo repository.ReactionRepository,
	updater *likes.Updater,
) PostService {
	return &postService{
		db:           db,
		postRepo:     postRepo,
		blogRepo:     blogRepo,
		reactionRepo: reactionRepo,
		updater:      updater,
	}
}

// CreatePost creates a post under an existing blog
func (s *postService) CreatePost(req CreatePostRequest) (*PostView, error) {
	blog, err := s.blogRepo.FindByID(req.BlogID)
	if err != nil {
		return nil, errors.New("blog not found")
	}

	post := &model.Post{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		BlogID:           blog.ID,
		BlogName:         blog.Name,
		NewestLikers:     "[]",
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, errors.New("failed to create post")
	}

	return mapPostToView(post, likes.StatusNone), nil
}

// GetPost returns a post with the viewer's own like status resolved
func (s *postService) GetPost(postID, viewerID string) (*PostView, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, errors.New("post not found")
	}

	myStatus := likes.StatusNone
	if viewerID != "" {
		reaction, err := s.reactionRepo.GetReaction(context.Background(), viewerID, postID)
		if err != nil {
			return nil, errors.New("failed to get like status")
		}
		if reaction != nil {
			myStatus = reaction.Status
		}
	}

	return mapPostToView(post, myStatus), nil
}

// GetPosts returns a page of posts with the viewer's statuses resolved in bulk
func (s *postService) GetPosts(viewerID string, params repository.ListParams) (*Paginated, error) {
	posts, total, err := s.postRepo.FindAll(params)
	if err != nil {
		return nil, errors.New("failed to get posts")
	}
	return s.mapPostsPage(posts, total, viewerID, params)
}

// GetPostsByBlog returns a page of one blog's posts
func (s *postService) GetPostsByBlog(blogID, viewerID string, params repository.ListParams) (*Paginated, error) {
	if _, err := s.blogRepo.FindByID(blogID); err != nil {
		return nil, errors.New("blog not found")
	}

	posts, total, err := s.postRepo.FindByBlogID(blogID, params)
	if err != nil {
		return nil, errors.New("failed to get posts")
	}
	return s.mapPostsPage(posts, total, viewerID, params)
}

func (s *postService) mapPostsPage(posts []*model.Post, total int64, viewerID string, params repository.ListParams) (*Paginated, error) {
	statuses := map[string]likes.Status{}
	if viewerID != "" && len(posts) > 0 {
		ids := make([]string, 0, len(posts))
		for _, post := range posts {
			ids = append(ids, post.ID)
		}
		var err error
		statuses, err = s.reactionRepo.FindStatusesByUserAndTargets(context.Background(), viewerID, ids)
		if err != nil {
			return nil, errors.New("failed to get like statuses")
		}
	}

	views := make([]*PostView, 0, len(posts))
	for _, post := range posts {
		myStatus := likes.StatusNone
		if status, ok := statuses[post.ID]; ok {
			myStatus = status
		}
		views = append(views, mapPostToView(post, myStatus))
	}
	return paginate(views, total, params.Page, params.PageSize), nil
}

// UpdatePost updates a post (and re-resolves the owning blog)
func (s *postService) UpdatePost(postID string, req UpdatePostRequest) error {
	blog, err := s.blogRepo.FindByID(req.BlogID)
	if err != nil {
		return errors.New("blog not found")
	}

	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return errors.New("post not found")
	}

	post.Title = req.Title
	post.ShortDescription = req.ShortDescription
	post.Content = req.Content
	post.BlogID = blog.ID
	post.BlogName = blog.Name
	if err := s.postRepo.Update(post); err != nil {
		return errors.New("failed to update post")
	}
	return nil
}

// DeletePost deletes a post
func (s *postService) DeletePost(postID string) error {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return errors.New("post not found")
	}
	return s.postRepo.Delete(postID)
}

// UpdateLikeStatus runs the reaction engine for a post. The engine loads
// the current counters and cached newest-likers projection, applies the
// transition and persists the result back onto the post, all inside the
// post's update lock and a single database transaction, so the reaction
// row and the counters commit together or not at all.
func (s *postService) UpdateLikeStatus(ctx context.Context, postID, userID, login string, requested likes.Status) error {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return errors.New("post not found")
	}

	begin := func(ctx context.Context, fn func(ctx context.Context, tx likes.TargetTx) error) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			posts := s.postRepo.WithTx(tx)
			return fn(ctx, likes.TargetTx{
				Ledger: s.reactionRepo.WithTx(tx),
				Load: func(ctx context.Context) (likes.TargetState, error) {
					// Straight from the DB: a cached row could carry counters
					// from before a concurrent update committed
					post, err := posts.FindByIDUncached(postID)
					if err != nil {
						return likes.TargetState{}, err
					}
					return likes.TargetState{
						Counts:       likes.Counters{Likes: post.LikesCount, Dislikes: post.DislikesCount},
						NewestLikers: post.GetNewestLikers(),
					}, nil
				},
				Persist: func(ctx context.Context, res likes.Result) error {
					newest, err := json.Marshal(res.NewestLikers)
					if err != nil {
						return err
					}
					if len(res.NewestLikers) == 0 {
						newest = []byte("[]")
					}
					return posts.UpdateLikeInfo(postID, res.Counts.Likes, res.Counts.Dislikes, string(newest))
				},
			})
		})
	}

	_, err := s.updater.UpdateReaction(ctx, userID, login, postID, requested, begin)
	return err
}
