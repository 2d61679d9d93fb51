// File: /services/conversation_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"athlos-api/models"
	"athlos-api/repositories"
)

// ConversationService creates direct-message channels the moment two users
// follow each other, so messaging works without a request/accept step.
type ConversationService struct {
	db         *gorm.DB
	followRepo *repositories.FollowRepository
}

func NewConversationService(db *gorm.DB, followRepo *repositories.FollowRepository) *ConversationService {
	return &ConversationService{db: db, followRepo: followRepo}
}

// OnFollowCreated runs after a new follow edge is written. If the
// relationship is now mutual it ensures the pair's conversation exists.
func (s *ConversationService) OnFollowCreated(ctx context.Context, actorID, targetID string) error {
	mutual, err := s.followRepo.IsMutual(ctx, actorID, targetID)
	if err != nil {
		return storeErr(err)
	}
	if !mutual {
		return nil
	}
	_, err = s.EnsureConversation(ctx, actorID, targetID)
	return err
}

// EnsureConversation returns the single conversation for the unordered
// pair, creating it if absent. The pair is normalized before the insert
// and the insert itself is conflict-tolerant, so two concurrent calls from
// opposite follow directions converge on one row instead of racing a
// check-then-insert.
func (s *ConversationService) EnsureConversation(ctx context.Context, aID, bID string) (*models.Conversation, error) {
	if aID == bID {
		return nil, fmt.Errorf("%w: conversation requires two distinct users", ErrInvalidOperation)
	}
	user1ID, user2ID := models.NormalizePair(aID, bID)

	conv := models.Conversation{
		ID:      uuid.New().String(),
		User1ID: user1ID,
		User2ID: user2ID,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
		DoNothing: true,
	}).Create(&conv)
	if result.Error != nil {
		return nil, storeErr(result.Error)
	}
	if result.RowsAffected > 0 {
		return &conv, nil
	}

	// Lost the race or the conversation predates this call; fetch the row
	// the constraint protected.
	var existing models.Conversation
	if err := s.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		First(&existing).Error; err != nil {
		return nil, storeErr(err)
	}
	return &existing, nil
}

// ListConversations returns all conversations the user participates in,
// newest first.
func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.db.WithContext(ctx).
		Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, storeErr(err)
	}
	for i := range conversations {
		conversations[i].User1.Password = ""
		conversations[i].User2.Password = ""
	}
	return conversations, nil
}

// SendMessage appends a message to a conversation the sender participates
// in.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, senderID, body string) (*models.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrValidation)
	}

	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Includes(senderID) {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}

	msg := models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, storeErr(err)
	}
	return &msg, nil
}

// ListMessages returns a conversation's messages oldest first.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Includes(userID) {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}

	var messages []models.Message
	err = s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (s *ConversationService) getConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, id)
		}
		return nil, storeErr(err)
	}
	return &conv, nil
}
