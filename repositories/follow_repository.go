// File: /repositories/follow_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"athlos-api/models"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// CreateEdge inserts the (follower, following) edge. A duplicate insert
// affects zero rows instead of failing, which is how callers detect the
// idempotent no-op case. Created reports whether a new edge was written.
func (r *FollowRepository) CreateEdge(ctx context.Context, tx *gorm.DB, followerID, followingID string) (created bool, err error) {
	if tx == nil {
		tx = r.db
	}
	edge := models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(&edge)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteEdge removes the edge if present. Deleted reports whether a row
// was actually removed; deleting an absent edge is a no-op, not an error.
func (r *FollowRepository) DeleteEdge(ctx context.Context, tx *gorm.DB, followerID, followingID string) (deleted bool, err error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists checks whether followerID follows followingID.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsMutual checks whether both directed edges exist between a and b.
func (r *FollowRepository) IsMutual(ctx context.Context, aID, bID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
			aID, bID, bID, aID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 2, nil
}

// CountFollowers returns the authoritative number of live edges pointing
// at userID.
func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing returns the authoritative number of live edges leaving
// userID.
func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListFollowers returns the users following userID.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]models.User, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).Preload("Follower").
		Where("following_id = ?", userID).Find(&follows).Error; err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		f.Follower.Password = ""
		users = append(users, f.Follower)
	}
	return users, nil
}

// ListFollowing returns the users userID follows.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]models.User, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).Preload("Following").
		Where("follower_id = ?", userID).Find(&follows).Error; err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		f.Following.Password = ""
		users = append(users, f.Following)
	}
	return users, nil
}
