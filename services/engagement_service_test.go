package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athlos-api/models"
)

func TestToggleLike(t *testing.T) {
	db := newTestDB(t)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")
	post := seedPost(t, db, author.ID, "soccer", time.Now())

	liked, err := engagement.ToggleLike(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = engagement.ToggleLike(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	var count int64
	require.NoError(t, db.Model(&models.PostLike{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	_, err = engagement.ToggleLike(ctx, viewer.ID, "no-such-post")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSharePostMonotonic(t *testing.T) {
	db := newTestDB(t)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	post := seedPost(t, db, author.ID, "soccer", time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, engagement.SharePost(ctx, post.ID))
		}()
	}
	wg.Wait()

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 10, reloaded.SharesCount)

	err := engagement.SharePost(ctx, "no-such-post")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentsMultiValued(t *testing.T) {
	db := newTestDB(t)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")
	post := seedPost(t, db, author.ID, "soccer", time.Now())

	_, err := engagement.AddComment(ctx, viewer.ID, post.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = engagement.AddComment(ctx, viewer.ID, "no-such-post", "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := engagement.AddComment(ctx, viewer.ID, post.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, post.ID, first.PostID)

	// The same user may comment repeatedly.
	_, err = engagement.AddComment(ctx, viewer.ID, post.ID, "second")
	require.NoError(t, err)

	comments, err := engagement.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "second", comments[1].Body)
	assert.Empty(t, comments[0].User.Password)
}
