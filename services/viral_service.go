// File: /services/viral_service.go
package services

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"athlos-api/models"
)

// Weights reflect increasing intent: a bookmark is a stronger signal than
// a like.
const (
	likeWeight     = 1
	commentWeight  = 2
	shareWeight    = 3
	bookmarkWeight = 4
)

// The ranking is drawn from a bounded recent window rather than the full
// corpus, trading completeness for bounded cost. This is deliberate
// reference behavior, not an optimization left for later.
const (
	viralWindowSize = 50
	viralTopN       = 20

	viralCacheKey = "viral:posts"
	viralCacheTTL = 5 * time.Minute
)

// ViralService ranks a recent window of posts by weighted engagement. A
// Redis client is optional; with one configured the ranked list is cached
// with a short TTL, without one every call recomputes from the store.
type ViralService struct {
	db            *gorm.DB
	cache         *redis.Client
	fanoutTimeout time.Duration
}

func NewViralService(db *gorm.DB, cache *redis.Client, fanoutTimeout time.Duration) *ViralService {
	if fanoutTimeout <= 0 {
		fanoutTimeout = defaultFanoutTimeout
	}
	return &ViralService{db: db, cache: cache, fanoutTimeout: fanoutTimeout}
}

// GetViralPosts returns the top-ranked posts from the recent window.
// Posts with a zero score never appear. Ties are broken by recency,
// most recent first, so the ordering is deterministic.
func (s *ViralService) GetViralPosts(ctx context.Context) ([]models.RankedPost, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	var posts []models.Post
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(viralWindowSize).
		Find(&posts).Error
	if err != nil {
		return nil, storeErr(err)
	}

	ranked := s.score(ctx, posts)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Post.CreatedAt.After(ranked[j].Post.CreatedAt)
	})

	if len(ranked) > viralTopN {
		ranked = ranked[:viralTopN]
	}

	s.fillAuthors(ctx, ranked)
	s.toCache(ctx, ranked)
	return ranked, nil
}

// score counts engagement edges for each candidate concurrently and drops
// posts that gathered no engagement at all.
func (s *ViralService) score(ctx context.Context, posts []models.Post) []models.RankedPost {
	candidates := make([]models.RankedPost, len(posts))

	fanoutCtx, cancel := context.WithTimeout(ctx, s.fanoutTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(fanoutCtx)
	g.SetLimit(defaultFanoutLimit)

	for i, post := range posts {
		candidates[i] = models.RankedPost{
			Post:   post,
			Shares: int64(post.SharesCount),
		}
		entry := &candidates[i]
		postID := post.ID

		g.Go(func() error {
			if err := s.db.WithContext(gctx).Model(&models.PostLike{}).
				Where("post_id = ?", postID).Count(&entry.Likes).Error; err != nil {
				log.Printf("viral: like count degraded for post %s: %v", postID, err)
			}
			return nil
		})
		g.Go(func() error {
			if err := s.db.WithContext(gctx).Model(&models.Comment{}).
				Where("post_id = ?", postID).Count(&entry.Comments).Error; err != nil {
				log.Printf("viral: comment count degraded for post %s: %v", postID, err)
			}
			return nil
		})
		g.Go(func() error {
			if err := s.db.WithContext(gctx).Model(&models.PostBookmark{}).
				Where("post_id = ?", postID).Count(&entry.Bookmarks).Error; err != nil {
				log.Printf("viral: bookmark count degraded for post %s: %v", postID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]models.RankedPost, 0, len(candidates))
	for _, c := range candidates {
		c.Score = c.Likes*likeWeight + c.Comments*commentWeight + c.Shares*shareWeight + c.Bookmarks*bookmarkWeight
		if c.Score > 0 {
			ranked = append(ranked, c)
		}
	}
	return ranked
}

// fillAuthors batch-loads author summaries for the final ranked set.
func (s *ViralService) fillAuthors(ctx context.Context, ranked []models.RankedPost) {
	if len(ranked) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(ranked))
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		if _, ok := seen[r.Post.AuthorID]; ok {
			continue
		}
		seen[r.Post.AuthorID] = struct{}{}
		ids = append(ids, r.Post.AuthorID)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Printf("viral: author load degraded: %v", err)
		return
	}
	authors := make(map[string]models.ProfileSummary, len(users))
	for _, u := range users {
		authors[u.ID] = u.Summary()
	}
	for i := range ranked {
		ranked[i].Author = authors[ranked[i].Post.AuthorID]
	}
}

func (s *ViralService) fromCache(ctx context.Context) ([]models.RankedPost, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, viralCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("viral: cache read failed: %v", err)
		}
		return nil, false
	}
	var ranked []models.RankedPost
	if err := json.Unmarshal([]byte(raw), &ranked); err != nil {
		log.Printf("viral: cache decode failed: %v", err)
		return nil, false
	}
	return ranked, true
}

func (s *ViralService) toCache(ctx context.Context, ranked []models.RankedPost) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(ranked)
	if err != nil {
		log.Printf("viral: cache encode failed: %v", err)
		return
	}
	if err := s.cache.Set(ctx, viralCacheKey, raw, viralCacheTTL).Err(); err != nil {
		log.Printf("viral: cache write failed: %v", err)
	}
}
