package repository

import (
	"encoding/json"
	"time"

	"bloggers-platform/internal/model"
	"bloggers-platform/internal/util"

	"gorm.io/gorm"
)

type BlogRepository interface {
	Create(blog *model.Blog) error
	FindByID(id string) (*model.Blog, error)
	FindAll(searchNameTerm string, params ListParams) ([]*model.Blog, int64, error)
	Update(blog *model.Blog) error
	Delete(id string) error
}

type blogRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	blogCachePrefix     = "blog:"
	blogCacheExpiration = 10 * time.Minute
)

var blogSortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

func NewBlogRepository(db *gorm.DB, redis *util.RedisClient) BlogRepository {
	return &blogRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new blog
func (r *blogRepository) Create(blog *model.Blog) error {
	return r.db.Create(blog).Error
}

// FindByID finds a blog by ID
func (r *blogRepository) FindByID(id string) (*model.Blog, error) {
	// Try cache first
	cacheKey := blogCachePrefix + id
	if r.redis != nil {
		if cached, err := r.redis.Get(cacheKey); err == nil {
			var blog model.Blog
			if err := json.Unmarshal([]byte(cached), &blog); err == nil {
				return &blog, nil
			}
		}
	}

	var blog model.Blog
	if err := r.db.Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(cacheKey, &blog, blogCacheExpiration)
	}

	return &blog, nil
}

// FindAll returns a page of blogs, optionally filtered by name substring
func (r *blogRepository) FindAll(searchNameTerm string, params ListParams) ([]*model.Blog, int64, error) {
	query := r.db.Model(&model.Blog{})
	if searchNameTerm != "" {
		query = query.Where("name ILIKE ?", "%"+searchNameTerm+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []*model.Blog
	err := query.
		Order(params.OrderClause(blogSortColumns)).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

// Update updates a blog and invalidates cache
func (r *blogRepository) Update(blog *model.Blog) error {
	if err := r.db.Save(blog).Error; err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(blogCachePrefix + blog.ID)
	}
	return nil
}

// Delete soft-deletes a blog and invalidates cache
func (r *blogRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Blog{}).Error; err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(blogCachePrefix + id)
	}
	return nil
}
