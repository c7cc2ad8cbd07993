package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bloggers-platform/internal/likes"
	"bloggers-platform/internal/model"
	"bloggers-platform/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository is the reaction ledger plus the read-side queries the
// view layer needs (a user's own status for one or many targets).
type ReactionRepository interface {
	likes.Ledger
	FindStatusesByUserAndTargets(ctx context.Context, userID string, targetIDs []string) (map[string]likes.Status, error)

	// WithTx returns a copy bound to the given transaction, so ledger
	// writes can commit together with the target's counter write
	WithTx(tx *gorm.DB) ReactionRepository
}

// reactionRepository is the gorm-backed reaction ledger. The unique
// (user_id, target_id) index plus the ON CONFLICT upsert guarantee a single
// row per pair.
type reactionRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	recentLikersCachePrefix = "reaction:recent:"
	recentLikersCacheTTL    = 10 * time.Minute
)

func NewReactionRepository(db *gorm.DB, redis *util.RedisClient) ReactionRepository {
	return &reactionRepository{
		db:    db,
		redis: redis,
	}
}

// WithTx returns a copy of the repository running on the transaction
func (r *reactionRepository) WithTx(tx *gorm.DB) ReactionRepository {
	return &reactionRepository{db: tx, redis: r.redis}
}

// GetReaction returns the current reaction for (userID, targetID), nil when absent
func (r *reactionRepository) GetReaction(ctx context.Context, userID, targetID string) (*likes.Reaction, error) {
	var row model.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	status, err := likes.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("corrupt reaction row %s: %w", row.ID, err)
	}

	return &likes.Reaction{
		UserID:    row.UserID,
		TargetID:  row.TargetID,
		Login:     row.UserLogin,
		Status:    status,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// UpsertReaction creates the row or overwrites status, login and timestamp
// of the existing one, and invalidates the recent-likers cache
func (r *reactionRepository) UpsertReaction(ctx context.Context, reaction likes.Reaction) error {
	row := model.Reaction{
		UserID:    reaction.UserID,
		TargetID:  reaction.TargetID,
		UserLogin: reaction.Login,
		Status:    string(reaction.Status),
		UpdatedAt: reaction.UpdatedAt,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "user_login", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateRecentLikersCache(reaction.TargetID)
	}

	return nil
}

// DeleteReaction removes the row; deleting an absent row is a no-op
func (r *reactionRepository) DeleteReaction(ctx context.Context, userID, targetID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Delete(&model.Reaction{}).Error
	if err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateRecentLikersCache(targetID)
	}

	return nil
}

// ListRecentLikers returns up to limit current likers of the target, most
// recent first. Recency ties are broken by primary key descending so the
// order is deterministic.
func (r *reactionRepository) ListRecentLikers(ctx context.Context, targetID string, limit int) ([]likes.LikerEntry, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("%s%s:%d", recentLikersCachePrefix, targetID, limit)
	if r.redis != nil {
		if cached, err := r.redis.Get(cacheKey); err == nil {
			var entries []likes.LikerEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	var rows []model.Reaction
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND status = ?", targetID, string(likes.StatusLike)).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]likes.LikerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, likes.LikerEntry{
			UserID:  row.UserID,
			Login:   row.UserLogin,
			AddedAt: row.UpdatedAt,
		})
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(cacheKey, entries, recentLikersCacheTTL)
	}

	return entries, nil
}

// FindStatusesByUserAndTargets returns the user's current status per target
// in one query; targets without a row are simply absent from the map
func (r *reactionRepository) FindStatusesByUserAndTargets(ctx context.Context, userID string, targetIDs []string) (map[string]likes.Status, error) {
	statuses := make(map[string]likes.Status)
	if len(targetIDs) == 0 {
		return statuses, nil
	}

	var rows []model.Reaction
	err := r.db.WithContext(ctx).
		Select("target_id", "status").
		Where("user_id = ? AND target_id IN ?", userID, targetIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if status, err := likes.ParseStatus(row.Status); err == nil {
			statuses[row.TargetID] = status
		}
	}
	return statuses, nil
}

func (r *reactionRepository) invalidateRecentLikersCache(targetID string) {
	r.redis.DeletePattern(fmt.Sprintf("%s%s:*", recentLikersCachePrefix, targetID))
}
