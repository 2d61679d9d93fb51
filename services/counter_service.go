// File: /services/counter_service.go
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

// CounterField selects which denormalized profile counter a mutation
// targets.
type CounterField string

const (
	FieldFollowers CounterField = "followers_count"
	FieldFollowing CounterField = "following_count"
)

func (f CounterField) column() (string, error) {
	switch f {
	case FieldFollowers, FieldFollowing:
		return string(f), nil
	}
	return "", fmt.Errorf("%w: unknown counter field %q", ErrInvalidOperation, string(f))
}

// CounterService keeps the denormalized follower/following counters on
// profiles consistent with the edge set. Mutations are single conditional
// UPDATE statements evaluated by the store, never a read followed by a
// write, so concurrent toggles cannot lose updates or drive a counter
// negative.
type CounterService struct {
	db         *gorm.DB
	followRepo *repositories.FollowRepository
}

func NewCounterService(db *gorm.DB, followRepo *repositories.FollowRepository) *CounterService {
	return &CounterService{db: db, followRepo: followRepo}
}

// Increment adds one to the given counter field.
func (s *CounterService) Increment(ctx context.Context, profileID string, field CounterField) error {
	return s.IncrementTx(s.db.WithContext(ctx), profileID, field)
}

// Decrement subtracts one from the given counter field, clamped at zero.
func (s *CounterService) Decrement(ctx context.Context, profileID string, field CounterField) error {
	return s.DecrementTx(s.db.WithContext(ctx), profileID, field)
}

// IncrementTx is Increment inside a caller-supplied transaction.
func (s *CounterService) IncrementTx(tx *gorm.DB, profileID string, field CounterField) error {
	column, err := field.column()
	if err != nil {
		return err
	}
	return storeErr(tx.Model(&models.User{}).
		Where("id = ?", profileID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error)
}

// DecrementTx is Decrement inside a caller-supplied transaction. The
// `> 0` guard makes the clamp part of the statement itself: a racing
// double-decrement matches zero rows instead of writing a negative value.
func (s *CounterService) DecrementTx(tx *gorm.DB, profileID string, field CounterField) error {
	column, err := field.column()
	if err != nil {
		return err
	}
	return storeErr(tx.Model(&models.User{}).
		Where("id = ? AND "+column+" > 0", profileID).
		UpdateColumn(column, gorm.Expr(column+" - ?", 1)).Error)
}

// Repair recomputes both counters for one profile from the authoritative
// edge counts and overwrites the stored values. It exists as a self-healing
// net for historical drift, not as the primary consistency mechanism.
func (s *CounterService) Repair(ctx context.Context, profileID string) error {
	// Existence is checked up front: MySQL reports zero affected rows when
	// an UPDATE writes values identical to the stored ones, so RowsAffected
	// cannot distinguish a missing profile from an already-correct one.
	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: profile %s", ErrNotFound, profileID)
		}
		return storeErr(err)
	}

	followers, err := s.followRepo.CountFollowers(ctx, profileID)
	if err != nil {
		return storeErr(err)
	}
	following, err := s.followRepo.CountFollowing(ctx, profileID)
	if err != nil {
		return storeErr(err)
	}

	return storeErr(s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", profileID).
		UpdateColumns(map[string]interface{}{
			"followers_count": followers,
			"following_count": following,
		}).Error)
}

// RepairAll runs Repair across every profile. Per-profile failures are
// logged and skipped so one bad row cannot stall the maintenance pass.
func (s *CounterService) RepairAll(ctx context.Context) error {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		return storeErr(err)
	}

	for _, id := range ids {
		if err := s.Repair(ctx, id); err != nil {
			log.Printf("counter repair failed for profile %s: %v", id, err)
		}
	}
	return nil
}
