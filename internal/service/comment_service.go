package service

import (
	"context"
	"errors"

	"bloggers-platform/internal/likes"
	"bloggers-platform/internal/model"
	"bloggers-platform/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentForbidden = errors.New("comment belongs to another user")
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=20,max=300"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=20,max=300"`
}

type CommentService interface {
	CreateComment(postID, userID, userLogin string, req CreateCommentRequest) (*CommentView, error)
	GetComment(commentID, viewerID string) (*CommentView, error)
	GetCommentsByPost(postID, viewerID string, params repository.ListParams) (*Paginated, error)
	UpdateComment(commentID, userID string, req UpdateCommentRequest) error
	DeleteComment(commentID, userID string) error
	UpdateLikeStatus(ctx context.Context, commentID, userID, login string, requested likes.Status) error
}

type commentService struct {
	db           *gorm.DB
	commentRepo  repository.CommentRepository
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	updater      *likes.Updater
}

func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	reactionRepo repository.ReactionRepository,
	updater *likes.Updater,
) CommentService {
	return &commentService{
		db:           db,
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		updater:      updater,
	}
}

// CreateComment creates a comment under an existing post
func (s *commentService) CreateComment(postID, userID, userLogin string, req CreateCommentRequest) (*CommentView, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, errors.New("post not found")
	}

	comment := &model.Comment{
		PostID:    postID,
		UserID:    userID,
		UserLogin: userLogin,
		Content:   req.Content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, errors.New("failed to create comment")
	}

	return mapCommentToView(comment, likes.StatusNone), nil
}

// GetComment returns a comment with the viewer's own like status resolved
func (s *commentService) GetComment(commentID, viewerID string) (*CommentView, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}

	myStatus := likes.StatusNone
	if viewerID != "" {
		reaction, err := s.reactionRepo.GetReaction(context.Background(), viewerID, commentID)
		if err != nil {
			return nil, errors.New("failed to get like status")
		}
		if reaction != nil {
			myStatus = reaction.Status
		}
	}

	return mapCommentToView(comment, myStatus), nil
}

// GetCommentsByPost returns a page of a post's comments with the viewer's
// statuses resolved in bulk
func (s *commentService) GetCommentsByPost(postID, viewerID string, params repository.ListParams) (*Paginated, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, errors.New("post not found")
	}

	comments, total, err := s.commentRepo.FindByPostID(postID, params)
	if err != nil {
		return nil, errors.New("failed to get comments")
	}

	statuses := map[string]likes.Status{}
	if viewerID != "" && len(comments) > 0 {
		ids := make([]string, 0, len(comments))
		for _, comment := range comments {
			ids = append(ids, comment.ID)
		}
		statuses, err = s.reactionRepo.FindStatusesByUserAndTargets(context.Background(), viewerID, ids)
		if err != nil {
			return nil, errors.New("failed to get like statuses")
		}
	}

	views := make([]*CommentView, 0, len(comments))
	for _, comment := range comments {
		myStatus := likes.StatusNone
		if status, ok := statuses[comment.ID]; ok {
			myStatus = status
		}
		views = append(views, mapCommentToView(comment, myStatus))
	}
	return paginate(views, total, params.Page, params.PageSize), nil
}

// UpdateComment edits a comment; only the author may do so
func (s *commentService) UpdateComment(commentID, userID string, req UpdateCommentRequest) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return ErrCommentForbidden
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(comment); err != nil {
		return errors.New("failed to update comment")
	}
	return nil
}

// DeleteComment removes a comment; only the author may do so
func (s *commentService) DeleteComment(commentID, userID string) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return ErrCommentForbidden
	}
	return s.commentRepo.Delete(commentID)
}

// UpdateLikeStatus runs the reaction engine for a comment. Comments keep
// counters only; the newest-likers projection is a post feature, so the
// cached projection is always empty here and only Like transitions trigger
// the (cheap, limit-3) re-query which is then discarded.
func (s *commentService) UpdateLikeStatus(ctx context.Context, commentID, userID, login string, requested likes.Status) error {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		return ErrCommentNotFound
	}

	begin := func(ctx context.Context, fn func(ctx context.Context, tx likes.TargetTx) error) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			comments := s.commentRepo.WithTx(tx)
			return fn(ctx, likes.TargetTx{
				Ledger: s.reactionRepo.WithTx(tx),
				Load: func(ctx context.Context) (likes.TargetState, error) {
					comment, err := comments.FindByIDUncached(commentID)
					if err != nil {
						return likes.TargetState{}, err
					}
					return likes.TargetState{
						Counts: likes.Counters{Likes: comment.LikesCount, Dislikes: comment.DislikesCount},
					}, nil
				},
				Persist: func(ctx context.Context, res likes.Result) error {
					return comments.UpdateLikeInfo(commentID, res.Counts.Likes, res.Counts.Dislikes)
				},
			})
		})
	}

	_, err := s.updater.UpdateReaction(ctx, userID, login, commentID, requested, begin)
	return err
}
