package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"athlos-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB opens a private in-memory database per test. The pool is
// pinned to a single connection so concurrent goroutines in fan-out tests
// serialize instead of tripping sqlite's write locking.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.PostLike{},
		&models.PostBookmark{},
		&models.BookmarkFolder{},
		&models.Comment{},
		&models.Conversation{},
		&models.Message{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()

	user := models.User{
		ID:            uuid.New().String(),
		Name:          name,
		Handle:        models.GenerateHandleFromName(name) + "_" + uuid.New().String()[:8],
		Email:         uuid.New().String() + "@example.com",
		Password:      "hashed",
		EmailVerified: true,
		Role:          models.RoleAthlete,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID, sport string, createdAt time.Time) models.Post {
	t.Helper()

	post := models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Text:      "post by " + authorID,
		Sport:     sport,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func reloadUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user
}
