package services

import (
	"context"
	"sync"
	"testing"

	"athlos-api/models"
	"athlos-api/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConversationService(db *gorm.DB) *ConversationService {
	return NewConversationService(db, repositories.NewFollowRepository(db))
}

func TestEnsureConversationNormalizesPair(t *testing.T) {
	db := newTestDB(t)
	conversations := newConversationService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")

	first, err := conversations.EnsureConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// The reversed pair must resolve to the same conversation.
	second, err := conversations.EnsureConversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.Less(t, first.User1ID, first.User2ID)
}

func TestEnsureConversationRejectsSelf(t *testing.T) {
	db := newTestDB(t)
	conversations := newConversationService(db)

	alice := seedUser(t, db, "Alice")

	_, err := conversations.EnsureConversation(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestConcurrentEnsureConversation(t *testing.T) {
	db := newTestDB(t)
	conversations := newConversationService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		a, b := alice.ID, bob.ID
		if i%2 == 1 {
			a, b = b, a
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := conversations.EnsureConversation(ctx, a, b)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSendAndListMessages(t *testing.T) {
	db := newTestDB(t)
	conversations := newConversationService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")
	eve := seedUser(t, db, "Eve")

	conv, err := conversations.EnsureConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = conversations.SendMessage(ctx, conv.ID, alice.ID, "see you at practice")
	require.NoError(t, err)
	_, err = conversations.SendMessage(ctx, conv.ID, bob.ID, "bring the cones")
	require.NoError(t, err)

	// Empty bodies and outsiders are rejected.
	_, err = conversations.SendMessage(ctx, conv.ID, alice.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = conversations.SendMessage(ctx, conv.ID, eve.ID, "let me in")
	assert.ErrorIs(t, err, ErrForbidden)

	messages, err := conversations.ListMessages(ctx, conv.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "see you at practice", messages[0].Body)
	assert.Equal(t, "bring the cones", messages[1].Body)

	_, err = conversations.ListMessages(ctx, conv.ID, eve.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = conversations.ListMessages(ctx, "no-such-conversation", alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListConversations(t *testing.T) {
	db := newTestDB(t)
	conversations := newConversationService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")
	cara := seedUser(t, db, "Cara")

	_, err := conversations.EnsureConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = conversations.EnsureConversation(ctx, cara.ID, alice.ID)
	require.NoError(t, err)

	list, err := conversations.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, conv := range list {
		assert.True(t, conv.Includes(alice.ID))
		assert.Empty(t, conv.User1.Password)
		assert.Empty(t, conv.User2.Password)
	}

	list, err = conversations.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
