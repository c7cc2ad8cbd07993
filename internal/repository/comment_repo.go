package repository

import (
	"encoding/json"
	"time"

	"bloggers-platform/internal/model"
	"bloggers-platform/internal/util"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id string) (*model.Comment, error)
	FindByIDUncached(id string) (*model.Comment, error)
	FindByPostID(postID string, params ListParams) ([]*model.Comment, int64, error)
	Update(comment *model.Comment) error
	UpdateLikeInfo(id string, likesCount, dislikesCount int) error
	Delete(id string) error
	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	commentCachePrefix     = "comment:"
	commentCacheExpiration = 10 * time.Minute
)

var commentSortColumns = map[string]string{
	"createdAt": "created_at",
}

func NewCommentRepository(db *gorm.DB, redis *util.RedisClient) CommentRepository {
	return &commentRepository{
		db:    db,
		redis: redis,
	}
}

// WithTx returns a copy of the repository running on the transaction
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx, redis: r.redis}
}

// Create creates a new comment
func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID
func (r *commentRepository) FindByID(id string) (*model.Comment, error) {
	// Try cache first
	cacheKey := commentCachePrefix + id
	if r.redis != nil {
		if cached, err := r.redis.Get(cacheKey); err == nil {
			var comment model.Comment
			if err := json.Unmarshal([]byte(cached), &comment); err == nil {
				return &comment, nil
			}
		}
	}

	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(cacheKey, &comment, commentCacheExpiration)
	}

	return &comment, nil
}

// FindByIDUncached reads the comment straight from the database, skipping
// the cache, for the likes engine's read-modify-write cycle
func (r *commentRepository) FindByIDUncached(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByPostID returns a page of comments for a post
func (r *commentRepository) FindByPostID(postID string, params ListParams) ([]*model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("post_id = ?", postID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*model.Comment
	err := query.
		Order(params.OrderClause(commentSortColumns)).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// Update updates a comment and invalidates cache
func (r *commentRepository) Update(comment *model.Comment) error {
	if err := r.db.Save(comment).Error; err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(commentCachePrefix + comment.ID)
	}
	return nil
}

// UpdateLikeInfo persists the derived counters produced by the likes engine
func (r *commentRepository) UpdateLikeInfo(id string, likesCount, dislikesCount int) error {
	err := r.db.Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes_count":    likesCount,
			"dislikes_count": dislikesCount,
		}).Error
	if err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(commentCachePrefix + id)
	}
	return nil
}

// Delete soft-deletes a comment and invalidates cache
func (r *commentRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(commentCachePrefix + id)
	}
	return nil
}
