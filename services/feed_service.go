// File: /services/feed_service.go
package services

import (
	"context"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"athlos-api/models"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50

	// Upper bound on concurrently outstanding enrichment queries.
	defaultFanoutLimit = 16

	defaultFanoutTimeout = 3 * time.Second
)

// FeedFilter narrows the candidate posts before enrichment fan-out. An
// empty field means no restriction.
type FeedFilter struct {
	Sport    string
	AuthorID string
	Page     int
	Limit    int
}

// FeedService assembles ranked, per-viewer-personalized post lists. Author
// profiles are batch-loaded once per page; per-post stats and viewer flags
// are fetched concurrently under a bounded timeout. A failed or slow
// sub-query degrades that post's stats to zero/false and is logged, never
// surfaced to the caller.
type FeedService struct {
	db            *gorm.DB
	fanoutTimeout time.Duration
	fanoutLimit   int
}

func NewFeedService(db *gorm.DB, fanoutTimeout time.Duration) *FeedService {
	if fanoutTimeout <= 0 {
		fanoutTimeout = defaultFanoutTimeout
	}
	return &FeedService{
		db:            db,
		fanoutTimeout: fanoutTimeout,
		fanoutLimit:   defaultFanoutLimit,
	}
}

// GetFeed returns one page of enriched posts, newest first. viewerID may
// be empty, in which case the viewer-specific flags stay false.
func (s *FeedService) GetFeed(ctx context.Context, viewerID string, filter FeedFilter) (*models.FeedResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	offset := (page - 1) * limit

	// Filters apply before the fan-out stage so enrichment cost is bounded
	// by the page size, not the corpus.
	query := s.db.WithContext(ctx).Model(&models.Post{})
	if filter.Sport != "" {
		query = query.Where("sport = ?", filter.Sport)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, storeErr(err)
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, storeErr(err)
	}

	authors, err := s.loadAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	items := s.enrich(ctx, viewerID, posts, authors)

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return &models.FeedResponse{
		Posts:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		HasMore:    page < totalPages,
		TotalPages: totalPages,
	}, nil
}

// loadAuthors fetches the distinct author set for a page of posts in one
// query, avoiding a profile lookup per post.
func (s *FeedService) loadAuthors(ctx context.Context, posts []models.Post) (map[string]models.User, error) {
	if len(posts) == 0 {
		return map[string]models.User{}, nil
	}

	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, storeErr(err)
	}

	authors := make(map[string]models.User, len(users))
	for _, u := range users {
		u.Password = ""
		authors[u.ID] = u
	}
	return authors, nil
}

// enrich issues every per-post sub-query concurrently and merges the
// results back in the original chronological order. Each closure writes a
// distinct field of a distinct item, so no locking is needed.
func (s *FeedService) enrich(ctx context.Context, viewerID string, posts []models.Post, authors map[string]models.User) []models.FeedItem {
	items := make([]models.FeedItem, len(posts))
	for i, post := range posts {
		items[i] = models.FeedItem{
			Post:  post,
			Stats: models.PostStats{Shares: int64(post.SharesCount)},
		}
		if author, ok := authors[post.AuthorID]; ok {
			items[i].Author = author.Summary()
		}
	}

	fanoutCtx, cancel := context.WithTimeout(ctx, s.fanoutTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(fanoutCtx)
	g.SetLimit(s.fanoutLimit)

	for i := range items {
		item := &items[i]
		postID := item.Post.ID

		g.Go(func() error {
			var likes int64
			err := s.db.WithContext(gctx).Model(&models.PostLike{}).
				Where("post_id = ?", postID).Count(&likes).Error
			if err != nil {
				log.Printf("feed: like count degraded for post %s: %v", postID, err)
				return nil
			}
			item.Stats.Likes = likes
			return nil
		})

		g.Go(func() error {
			var comments int64
			err := s.db.WithContext(gctx).Model(&models.Comment{}).
				Where("post_id = ?", postID).Count(&comments).Error
			if err != nil {
				log.Printf("feed: comment count degraded for post %s: %v", postID, err)
				return nil
			}
			item.Stats.Comments = comments
			return nil
		})

		if viewerID == "" {
			continue
		}

		g.Go(func() error {
			var count int64
			err := s.db.WithContext(gctx).Model(&models.PostLike{}).
				Where("post_id = ? AND user_id = ?", postID, viewerID).Count(&count).Error
			if err != nil {
				log.Printf("feed: viewer like flag degraded for post %s: %v", postID, err)
				return nil
			}
			item.ViewerLiked = count > 0
			return nil
		})

		g.Go(func() error {
			var count int64
			err := s.db.WithContext(gctx).Model(&models.PostBookmark{}).
				Where("post_id = ? AND user_id = ?", postID, viewerID).Count(&count).Error
			if err != nil {
				log.Printf("feed: viewer bookmark flag degraded for post %s: %v", postID, err)
				return nil
			}
			item.ViewerBookmarked = count > 0
			return nil
		})
	}

	// Closures never return an error; Wait only observes the deadline.
	_ = g.Wait()

	return items
}
