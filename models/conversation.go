// File: /models/conversation.go
package models

import (
	"time"
)

// Conversation is a direct-message channel between two users. The pair is
// stored ordered (User1ID < User2ID) so the unordered pair maps to exactly
// one row, enforced by the unique index.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	User1ID   string    `json:"user1_id" gorm:"not null;size:191;uniqueIndex:uk_conversations_pair"`
	User2ID   string    `json:"user2_id" gorm:"not null;size:191;uniqueIndex:uk_conversations_pair"`
	CreatedAt time.Time `json:"created_at"`

	User1    User      `json:"user1" gorm:"foreignKey:User1ID"`
	User2    User      `json:"user2" gorm:"foreignKey:User2ID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

// NormalizePair orders two user ids so that the smaller one comes first.
func NormalizePair(aID, bID string) (string, string) {
	if aID > bID {
		return bID, aID
	}
	return aID, bID
}

// Includes reports whether userID is a participant of the conversation.
func (c *Conversation) Includes(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	ConversationID string    `json:"conversation_id" gorm:"not null;size:191;index"`
	SenderID       string    `json:"sender_id" gorm:"not null;size:191"`
	Body           string    `json:"body" gorm:"not null;size:2000"`
	CreatedAt      time.Time `json:"created_at"`

	Sender User `json:"sender" gorm:"foreignKey:SenderID"`
}
