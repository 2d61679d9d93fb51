// File: /services/follow_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"athlos-api/models"
	"athlos-api/repositories"
)

// FollowService maintains the directed follow graph. Follow and unfollow
// are idempotent toggles: repeating one after the desired state is reached
// changes nothing, including the counters.
type FollowService struct {
	db            *gorm.DB
	followRepo    *repositories.FollowRepository
	counters      *CounterService
	conversations *ConversationService
}

func NewFollowService(db *gorm.DB, followRepo *repositories.FollowRepository, counters *CounterService, conversations *ConversationService) *FollowService {
	return &FollowService{
		db:            db,
		followRepo:    followRepo,
		counters:      counters,
		conversations: conversations,
	}
}

// Follow creates the actor->target edge. The edge write and both counter
// updates commit as one transaction; a duplicate follow is a no-op success
// that leaves the counters untouched. On a newly created edge the
// conversation bootstrap runs afterwards.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidOperation)
	}

	var target models.User
	if err := s.db.WithContext(ctx).Select("id").First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, targetID)
		}
		return storeErr(err)
	}

	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.followRepo.CreateEdge(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if !created {
			// Already following: idempotent success.
			return nil
		}
		if err := s.counters.IncrementTx(tx, targetID, FieldFollowers); err != nil {
			return err
		}
		return s.counters.IncrementTx(tx, actorID, FieldFollowing)
	})
	if err != nil {
		return storeErr(err)
	}

	if created {
		// Conversation bootstrap is opportunistic; a failure here must not
		// roll back or fail the follow.
		if err := s.conversations.OnFollowCreated(ctx, actorID, targetID); err != nil {
			log.Printf("conversation bootstrap failed for %s<->%s: %v", actorID, targetID, err)
		}
	}
	return nil
}

// Unfollow removes the actor->target edge. Removing an absent edge is a
// no-op success; counters only move when a row was actually deleted.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID string) error {
	return storeErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.followRepo.DeleteEdge(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		if err := s.counters.DecrementTx(tx, targetID, FieldFollowers); err != nil {
			return err
		}
		return s.counters.DecrementTx(tx, actorID, FieldFollowing)
	}))
}

// IsFollowing checks the actor->target edge.
func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	exists, err := s.followRepo.Exists(ctx, actorID, targetID)
	return exists, storeErr(err)
}

// IsMutual checks that both directed edges between a and b exist.
func (s *FollowService) IsMutual(ctx context.Context, aID, bID string) (bool, error) {
	mutual, err := s.followRepo.IsMutual(ctx, aID, bID)
	return mutual, storeErr(err)
}

// Followers lists the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID string) ([]models.User, error) {
	users, err := s.followRepo.ListFollowers(ctx, userID)
	return users, storeErr(err)
}

// Following lists the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID string) ([]models.User, error) {
	users, err := s.followRepo.ListFollowing(ctx, userID)
	return users, storeErr(err)
}
