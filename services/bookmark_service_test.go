package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athlos-api/models"
)

func TestToggleBookmark(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")
	post := seedPost(t, db, author.ID, "soccer", time.Now())

	bookmarked, err := bookmarks.ToggleBookmark(ctx, viewer.ID, post.ID, nil)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	bookmarked, err = bookmarks.ToggleBookmark(ctx, viewer.ID, post.ID, nil)
	require.NoError(t, err)
	assert.False(t, bookmarked)

	var count int64
	require.NoError(t, db.Model(&models.PostBookmark{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	_, err = bookmarks.ToggleBookmark(ctx, viewer.ID, "no-such-post", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleBookmarkIntoFolder(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")
	other := seedUser(t, db, "Cara")
	post := seedPost(t, db, author.ID, "soccer", time.Now())

	folder, err := bookmarks.CreateFolder(ctx, viewer.ID, "Prospects", "#FF8800")
	require.NoError(t, err)

	// Somebody else's folder is not usable.
	_, err = bookmarks.ToggleBookmark(ctx, other.ID, post.ID, &folder.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	bookmarked, err := bookmarks.ToggleBookmark(ctx, viewer.ID, post.ID, &folder.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	var saved models.PostBookmark
	require.NoError(t, db.First(&saved, "post_id = ? AND user_id = ?", post.ID, viewer.ID).Error)
	require.NotNil(t, saved.FolderID)
	assert.Equal(t, folder.ID, *saved.FolderID)
}

func TestCreateFolderValidation(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "Dana")

	_, err := bookmarks.CreateFolder(ctx, viewer.ID, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	folder, err := bookmarks.CreateFolder(ctx, viewer.ID, "Prospects", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFolderColor, folder.Color)
}

func TestCreateFolderDuplicateName(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "Dana")

	_, err := bookmarks.CreateFolder(ctx, viewer.ID, "Prospects", "")
	require.NoError(t, err)
	_, err = bookmarks.CreateFolder(ctx, viewer.ID, "Prospects", "#112233")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	// The same name under another user is fine.
	other := seedUser(t, db, "Cara")
	_, err = bookmarks.CreateFolder(ctx, other.ID, "Prospects", "")
	require.NoError(t, err)
}

func TestConcurrentEnsureDefaultFolderSingleRow(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "Dana")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bookmarks.EnsureDefaultFolder(ctx, viewer.ID)
		}()
	}
	wg.Wait()

	var folders []models.BookmarkFolder
	require.NoError(t, db.Where("user_id = ?", viewer.ID).Find(&folders).Error)
	require.Len(t, folders, 1)
	assert.Equal(t, models.DefaultFolderName, folders[0].Name)

	// The unique (user_id, name) index is what closes the race, not the
	// zero-folder check. Prove the schema actually carries it.
	dup := models.BookmarkFolder{
		ID:     uuid.New().String(),
		UserID: viewer.ID,
		Name:   models.DefaultFolderName,
		Color:  models.DefaultFolderColor,
	}
	assert.Error(t, db.Create(&dup).Error)
}

func TestEnsureDefaultFolderOnce(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "Dana")

	require.NoError(t, bookmarks.EnsureDefaultFolder(ctx, viewer.ID))
	require.NoError(t, bookmarks.EnsureDefaultFolder(ctx, viewer.ID))

	var folders []models.BookmarkFolder
	require.NoError(t, db.Where("user_id = ?", viewer.ID).Find(&folders).Error)
	require.Len(t, folders, 1)
	assert.Equal(t, models.DefaultFolderName, folders[0].Name)

	// A user with folders of their own never gets the default added.
	other := seedUser(t, db, "Cara")
	_, err := bookmarks.CreateFolder(ctx, other.ID, "Prospects", "")
	require.NoError(t, err)
	require.NoError(t, bookmarks.EnsureDefaultFolder(ctx, other.ID))

	require.NoError(t, db.Where("user_id = ?", other.ID).Find(&folders).Error)
	require.Len(t, folders, 1)
	assert.Equal(t, "Prospects", folders[0].Name)
}

func TestListFoldersGrouping(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")

	base := time.Now().Add(-time.Hour)
	inFolder := seedPost(t, db, author.ID, "soccer", base)
	loose := seedPost(t, db, author.ID, "soccer", base.Add(time.Minute))

	folder, err := bookmarks.CreateFolder(ctx, viewer.ID, "Prospects", "")
	require.NoError(t, err)

	_, err = bookmarks.ToggleBookmark(ctx, viewer.ID, inFolder.ID, &folder.ID)
	require.NoError(t, err)
	_, err = bookmarks.ToggleBookmark(ctx, viewer.ID, loose.ID, nil)
	require.NoError(t, err)

	views, err := bookmarks.ListFolders(ctx, viewer.ID)
	require.NoError(t, err)

	// All Bookmarks first, Uncategorized last, real folders between.
	require.GreaterOrEqual(t, len(views), 3)
	assert.Equal(t, models.SyntheticFolderAll, views[0].Folder.ID)
	assert.Len(t, views[0].Posts, 2)
	assert.Equal(t, models.SyntheticFolderUncategorized, views[len(views)-1].Folder.ID)
	require.Len(t, views[len(views)-1].Posts, 1)
	assert.Equal(t, loose.ID, views[len(views)-1].Posts[0].ID)

	var prospects *models.FolderView
	for i := range views {
		if views[i].Folder.ID == folder.ID {
			prospects = &views[i]
		}
	}
	require.NotNil(t, prospects)
	require.Len(t, prospects.Posts, 1)
	assert.Equal(t, inFolder.ID, prospects.Posts[0].ID)
}

func TestSaveToFolderMovesBookmark(t *testing.T) {
	db := newTestDB(t)
	bookmarks := NewBookmarkService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")
	post := seedPost(t, db, author.ID, "soccer", time.Now())

	folder, err := bookmarks.CreateFolder(ctx, viewer.ID, "Prospects", "")
	require.NoError(t, err)

	// Moving a bookmark that does not exist fails.
	err = bookmarks.SaveToFolder(ctx, viewer.ID, post.ID, &folder.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = bookmarks.ToggleBookmark(ctx, viewer.ID, post.ID, nil)
	require.NoError(t, err)

	require.NoError(t, bookmarks.SaveToFolder(ctx, viewer.ID, post.ID, &folder.ID))

	var saved models.PostBookmark
	require.NoError(t, db.First(&saved, "post_id = ? AND user_id = ?", post.ID, viewer.ID).Error)
	require.NotNil(t, saved.FolderID)
	assert.Equal(t, folder.ID, *saved.FolderID)

	// And back to uncategorized.
	require.NoError(t, bookmarks.SaveToFolder(ctx, viewer.ID, post.ID, nil))
	require.NoError(t, db.First(&saved, "post_id = ? AND user_id = ?", post.ID, viewer.ID).Error)
	assert.Nil(t, saved.FolderID)
}
