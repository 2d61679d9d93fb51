// File: /services/container.go
package services

import (
	"athlos-api/config"
	"athlos-api/repositories"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container wires the service graph once so the router and the background
// jobs share the same instances.
type Container struct {
	Email         *EmailService
	Counters      *CounterService
	Follows       *FollowService
	Conversations *ConversationService
	Feed          *FeedService
	Viral         *ViralService
	Engagement    *EngagementService
	Bookmarks     *BookmarkService
}

func NewContainer(db *gorm.DB, cache *redis.Client, cfg *config.Config) *Container {
	followRepo := repositories.NewFollowRepository(db)

	counters := NewCounterService(db, followRepo)
	conversations := NewConversationService(db, followRepo)

	return &Container{
		Email:         NewEmailService(cfg),
		Counters:      counters,
		Follows:       NewFollowService(db, followRepo, counters, conversations),
		Conversations: conversations,
		Feed:          NewFeedService(db, cfg.FanoutTimeout),
		Viral:         NewViralService(db, cache, cfg.FanoutTimeout),
		Engagement:    NewEngagementService(db),
		Bookmarks:     NewBookmarkService(db),
	}
}
