// File: /database/database.go
package database

import (
	"fmt"
	"log"

	"athlos-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.PostLike{},
		&models.PostBookmark{},
		&models.BookmarkFolder{},
		&models.Comment{},
		&models.Conversation{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Feed queries page posts by recency, optionally filtered by author
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts(author_id, created_at DESC)").Error; err != nil {
		log.Printf("Warning: Could not create index for posts: %v", err)
	}

	// Follower / following listings
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_follows_following ON follows(following_id)").Error; err != nil {
		log.Printf("Warning: Could not create index for follows: %v", err)
	}

	// Comment counts and listings per post
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at)").Error; err != nil {
		log.Printf("Warning: Could not create index for comments: %v", err)
	}

	// Conversation pair lookups
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_conversations_user2 ON conversations(user2_id)").Error; err != nil {
		log.Printf("Warning: Could not create index for conversations: %v", err)
	}

	// Message history per conversation
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages(conversation_id, created_at)").Error; err != nil {
		log.Printf("Warning: Could not create index for messages: %v", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// The unique pair indexes come from the model tags; the constraints here
	// guard invariants gorm tags cannot express. Errors are logged, not
	// fatal, because re-running against an already constrained schema fails.

	// Prevent self-following
	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT ck_follows_no_self_follow CHECK (follower_id != following_id)").Error; err != nil {
		log.Printf("Warning: Could not add check constraint for follows: %v", err)
	}

	// Conversation pairs are stored normalized, smaller id first
	if err := db.Exec("ALTER TABLE conversations ADD CONSTRAINT ck_conversations_ordered_pair CHECK (user1_id < user2_id)").Error; err != nil {
		log.Printf("Warning: Could not add check constraint for conversations: %v", err)
	}

	// Stored counters never go negative
	if err := db.Exec("ALTER TABLE users ADD CONSTRAINT ck_users_counts_non_negative CHECK (followers_count >= 0 AND following_count >= 0)").Error; err != nil {
		log.Printf("Warning: Could not add check constraint for users counters: %v", err)
	}

	return nil
}

// SeedData populates the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		log.Println("Database already has data, skipping seed")
		return nil
	}

	testUsers := []models.User{
		{
			ID:            "user-1",
			Name:          "Marcus Silva",
			Handle:        "marcus_silva",
			Email:         "marcus@example.com",
			Password:      "$2a$10$dummy", // This should be properly hashed in real scenarios
			EmailVerified: true,
			Role:          models.RoleAthlete,
			Sport:         "soccer",
			Bio:           "Striker. Always looking for the next match.",
		},
		{
			ID:            "user-2",
			Name:          "Dana Kovac",
			Handle:        "dana_kovac",
			Email:         "dana@example.com",
			Password:      "$2a$10$dummy",
			EmailVerified: true,
			Role:          models.RoleScout,
			Sport:         "basketball",
			Bio:           "Scouting guards and forwards across the region.",
		},
		{
			ID:            "user-3",
			Name:          "Riverside FC",
			Handle:        "riverside_fc",
			Email:         "club@riversidefc.example.com",
			Password:      "$2a$10$dummy",
			EmailVerified: true,
			Role:          models.RoleTeam,
			Sport:         "soccer",
			Bio:           "Official account of Riverside FC.",
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Warning: Could not create test user %s: %v", user.Handle, err)
		}
	}

	testPosts := []models.Post{
		{
			ID:       "post-1",
			AuthorID: "user-1",
			Text:     "Hat trick in today's friendly. Full highlights soon.",
			Sport:    "soccer",
			Hashtags: models.StringSlice{"soccer", "highlights"},
		},
		{
			ID:       "post-2",
			AuthorID: "user-2",
			Text:     "Open tryouts next month. DM for details.",
			Sport:    "basketball",
			Hashtags: models.StringSlice{"tryouts", "basketball"},
		},
		{
			ID:        "post-3",
			AuthorID:  "user-3",
			Text:      "Match day! Kickoff at 15:00.",
			ImageUrls: models.StringSlice{"https://picsum.photos/600/400?random=3"},
			Sport:     "soccer",
			Hashtags:  models.StringSlice{"matchday"},
		},
	}

	for _, post := range testPosts {
		if err := db.Create(&post).Error; err != nil {
			log.Printf("Warning: Could not create test post %s: %v", post.ID, err)
		}
	}

	log.Println("Database seeded with test users and posts")
	return nil
}
