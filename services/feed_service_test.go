package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeedNewestFirstWithStats(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 0)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")

	base := time.Now().Add(-time.Hour)
	older := seedPost(t, db, author.ID, "soccer", base)
	newer := seedPost(t, db, author.ID, "soccer", base.Add(10*time.Minute))

	liked, err := engagement.ToggleLike(ctx, viewer.ID, older.ID)
	require.NoError(t, err)
	require.True(t, liked)
	_, err = engagement.AddComment(ctx, viewer.ID, older.ID, "great match")
	require.NoError(t, err)
	require.NoError(t, engagement.SharePost(ctx, older.ID))

	resp, err := feed.GetFeed(ctx, viewer.ID, FeedFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)

	assert.Equal(t, newer.ID, resp.Posts[0].Post.ID)
	assert.Equal(t, older.ID, resp.Posts[1].Post.ID)

	enriched := resp.Posts[1]
	assert.Equal(t, int64(1), enriched.Stats.Likes)
	assert.Equal(t, int64(1), enriched.Stats.Comments)
	assert.Equal(t, int64(1), enriched.Stats.Shares)
	assert.True(t, enriched.ViewerLiked)
	assert.False(t, enriched.ViewerBookmarked)
	assert.Equal(t, author.ID, enriched.Author.ID)
	assert.Equal(t, author.Handle, enriched.Author.Handle)

	// The newer post gathered nothing.
	assert.Equal(t, int64(0), resp.Posts[0].Stats.Likes)
	assert.False(t, resp.Posts[0].ViewerLiked)
}

func TestGetFeedFiltersBeforePagination(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 0)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	base := time.Now().Add(-time.Hour)
	seedPost(t, db, author.ID, "soccer", base)
	seedPost(t, db, author.ID, "basketball", base.Add(time.Minute))
	seedPost(t, db, author.ID, "soccer", base.Add(2*time.Minute))

	// A sport filter with page size 2 must return both soccer posts: the
	// filter applies before the page is cut, so the basketball post does
	// not occupy a slot.
	resp, err := feed.GetFeed(ctx, "", FeedFilter{Sport: "soccer", Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, int64(2), resp.Total)
	assert.False(t, resp.HasMore)
	for _, item := range resp.Posts {
		assert.Equal(t, "soccer", item.Post.Sport)
	}
}

func TestGetFeedPagination(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 0)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedPost(t, db, author.ID, "soccer", base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := feed.GetFeed(ctx, "", FeedFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page1.Posts, 2)
	assert.Equal(t, int64(5), page1.Total)
	assert.Equal(t, 3, page1.TotalPages)
	assert.True(t, page1.HasMore)

	page3, err := feed.GetFeed(ctx, "", FeedFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page3.Posts, 1)
	assert.False(t, page3.HasMore)

	// Pages do not overlap.
	seen := map[string]bool{}
	for _, p := range append(page1.Posts, page3.Posts...) {
		assert.False(t, seen[p.Post.ID])
		seen[p.Post.ID] = true
	}
}

func TestGetFeedAuthorFilter(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 0)
	ctx := context.Background()

	marcus := seedUser(t, db, "Marcus")
	dana := seedUser(t, db, "Dana")
	base := time.Now().Add(-time.Hour)
	seedPost(t, db, marcus.ID, "soccer", base)
	seedPost(t, db, dana.ID, "basketball", base.Add(time.Minute))

	resp, err := feed.GetFeed(ctx, "", FeedFilter{AuthorID: dana.ID})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, dana.ID, resp.Posts[0].Post.AuthorID)
}

func TestGetFeedAnonymousViewer(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 0)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	post := seedPost(t, db, author.ID, "soccer", time.Now().Add(-time.Hour))
	_, err := engagement.ToggleLike(ctx, author.ID, post.ID)
	require.NoError(t, err)

	resp, err := feed.GetFeed(ctx, "", FeedFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)

	// Stats are still counted; viewer flags stay false without a viewer.
	assert.Equal(t, int64(1), resp.Posts[0].Stats.Likes)
	assert.False(t, resp.Posts[0].ViewerLiked)
	assert.False(t, resp.Posts[0].ViewerBookmarked)
}

func TestGetFeedDegradesWhenStatQueriesTimeOut(t *testing.T) {
	db := newTestDB(t)
	// A nanosecond budget guarantees every per-post sub-query sees an
	// expired deadline; the candidate query runs on the caller's context
	// and is unaffected.
	feed := NewFeedService(db, time.Nanosecond)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	author := seedUser(t, db, "Marcus")
	viewer := seedUser(t, db, "Dana")
	post := seedPost(t, db, author.ID, "soccer", time.Now().Add(-time.Hour))

	liked, err := engagement.ToggleLike(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	require.True(t, liked)
	_, err = engagement.AddComment(ctx, viewer.ID, post.ID, "great match")
	require.NoError(t, err)
	require.NoError(t, engagement.SharePost(ctx, post.ID))

	resp, err := feed.GetFeed(ctx, viewer.ID, FeedFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)

	item := resp.Posts[0]
	// Shares ride on the post row itself and survive; the counted stats
	// and viewer flags fall back to their zero values instead of failing
	// the whole page.
	assert.Equal(t, int64(1), item.Stats.Shares)
	assert.Equal(t, int64(0), item.Stats.Likes)
	assert.Equal(t, int64(0), item.Stats.Comments)
	assert.False(t, item.ViewerLiked)
	assert.False(t, item.ViewerBookmarked)
	assert.Equal(t, author.ID, item.Author.ID)
	assert.Equal(t, int64(1), resp.Total)
}
