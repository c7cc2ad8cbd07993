package repository

import (
	"encoding/json"
	"time"

	"bloggers-platform/internal/model"
	"bloggers-platform/internal/util"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	FindByIDUncached(id string) (*model.Post, error)
	FindAll(params ListParams) ([]*model.Post, int64, error)
	FindByBlogID(blogID string, params ListParams) ([]*model.Post, int64, error)
	Update(post *model.Post) error
	UpdateLikeInfo(id string, likesCount, dislikesCount int, newestLikers string) error
	UpdateBlogName(blogID, blogName string) error
	Delete(id string) error
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	postCachePrefix     = "post:"
	postCacheExpiration = 10 * time.Minute
)

var postSortColumns = map[string]string{
	"title":     "title",
	"blogName":  "blog_name",
	"createdAt": "created_at",
}

func NewPostRepository(db *gorm.DB, redis *util.RedisClient) PostRepository {
	return &postRepository{
		db:    db,
		redis: redis,
	}
}

// WithTx returns a copy of the repository running on the transaction
func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx, redis: r.redis}
}

// Create creates a new post
func (r *postRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// FindByID finds a post by ID
func (r *postRepository) FindByID(id string) (*model.Post, error) {
	// Try cache first
	cacheKey := postCachePrefix + id
	if r.redis != nil {
		if cached, err := r.redis.Get(cacheKey); err == nil {
			var post model.Post
			if err := json.Unmarshal([]byte(cached), &post); err == nil {
				return &post, nil
			}
		}
	}

	var post model.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(cacheKey, &post, postCacheExpiration)
	}

	return &post, nil
}

// FindByIDUncached reads the post straight from the database, skipping the
// cache. The likes engine reads counters through this so a stale cache entry
// can never feed its read-modify-write cycle.
func (r *postRepository) FindByIDUncached(id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAll returns a page of posts
func (r *postRepository) FindAll(params ListParams) ([]*model.Post, int64, error) {
	var total int64
	if err := r.db.Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	err := r.db.
		Order(params.OrderClause(postSortColumns)).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// FindByBlogID returns a page of posts belonging to a blog
func (r *postRepository) FindByBlogID(blogID string, params ListParams) ([]*model.Post, int64, error) {
	query := r.db.Model(&model.Post{}).Where("blog_id = ?", blogID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	err := query.
		Order(params.OrderClause(postSortColumns)).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Update updates a post and invalidates cache
func (r *postRepository) Update(post *model.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(postCachePrefix + post.ID)
	}
	return nil
}

// UpdateLikeInfo persists the derived counters and the newest-likers
// projection produced by the likes engine
func (r *postRepository) UpdateLikeInfo(id string, likesCount, dislikesCount int, newestLikers string) error {
	err := r.db.Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes_count":    likesCount,
			"dislikes_count": dislikesCount,
			"newest_likers":  newestLikers,
		}).Error
	if err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(postCachePrefix + id)
	}
	return nil
}

// UpdateBlogName refreshes the denormalized blog name on all posts of a blog
func (r *postRepository) UpdateBlogName(blogID, blogName string) error {
	err := r.db.Model(&model.Post{}).
		Where("blog_id = ?", blogID).
		Update("blog_name", blogName).Error
	if err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.DeletePattern(postCachePrefix + "*")
	}
	return nil
}

// Delete soft-deletes a post and invalidates cache
func (r *postRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Post{}).Error; err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(postCachePrefix + id)
	}
	return nil
}
