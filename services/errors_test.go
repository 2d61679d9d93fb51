package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreErrWrapsOnce(t *testing.T) {
	assert.NoError(t, storeErr(nil))

	base := errors.New("connection refused")
	wrapped := storeErr(base)
	assert.ErrorIs(t, wrapped, ErrStoreUnavailable)
	assert.ErrorIs(t, wrapped, base)

	// Re-wrapping across nested service calls must not stack prefixes.
	assert.Equal(t, wrapped, storeErr(wrapped))
}

func TestClosedStoreSurfacesAsUnavailable(t *testing.T) {
	db := newTestDB(t)
	follows, _, _ := newFollowStack(db)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = follows.IsFollowing(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	err = follows.Follow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = bookmarks.ListFolders(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
