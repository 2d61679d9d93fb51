// File: /services/engagement_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"athlos-api/models"
)

// EngagementService handles the per-post interaction toggles and comment
// edges. Toggles are state flips: callers never pre-check, and repeating a
// request drives the state to the opposite side, not into an error.
type EngagementService struct {
	db *gorm.DB
}

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// ToggleLike flips the viewer's like on a post and reports the resulting
// state. The insert is conflict-tolerant, so a concurrent duplicate like
// resolves to the delete branch instead of an error.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID string) (liked bool, err error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return false, err
	}

	like := models.PostLike{PostID: postID, UserID: userID}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&like)
	if result.Error != nil {
		return false, storeErr(result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Already liked: the toggle removes it.
	err = s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{}).Error
	if err != nil {
		return false, storeErr(err)
	}
	return false, nil
}

// SharePost bumps the stored share counter. Shares are the one engagement
// number kept on the post row itself, and it only ever grows.
func (s *EngagementService) SharePost(ctx context.Context, postID string) error {
	result := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("shares_count", gorm.Expr("shares_count + ?", 1))
	if result.Error != nil {
		return storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	return nil
}

// AddComment appends a comment to a post. Comments are multi-valued; the
// same user may comment any number of times.
func (s *EngagementService) AddComment(ctx context.Context, userID, postID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", ErrValidation)
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:     uuid.New().String(),
		PostID: postID,
		UserID: userID,
		Body:   body,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, storeErr(err)
	}
	return &comment, nil
}

// ListComments returns a post's comments oldest first.
func (s *EngagementService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, storeErr(err)
	}
	for i := range comments {
		comments[i].User.Password = ""
	}
	return comments, nil
}

func (s *EngagementService) requirePost(ctx context.Context, postID string) error {
	var post models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %s", ErrNotFound, postID)
		}
		return storeErr(err)
	}
	return nil
}
