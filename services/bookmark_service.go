// File: /services/bookmark_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"athlos-api/models"
)

// BookmarkService organizes saved posts into named, colored folders. A
// bookmark without a folder assignment is "uncategorized"; every user gets
// a lazily provisioned default folder the first time folders are listed.
type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// ToggleBookmark flips the user's bookmark on a post and reports the
// resulting state. folderID may be nil (uncategorized) and only applies
// when the toggle creates the bookmark.
func (s *BookmarkService) ToggleBookmark(ctx context.Context, userID, postID string, folderID *string) (bookmarked bool, err error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: post %s", ErrNotFound, postID)
		}
		return false, storeErr(err)
	}

	if folderID != nil {
		if err := s.requireOwnedFolder(ctx, userID, *folderID); err != nil {
			return false, err
		}
	}

	bookmark := models.PostBookmark{PostID: postID, UserID: userID, FolderID: folderID}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&bookmark)
	if result.Error != nil {
		return false, storeErr(result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	err = s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostBookmark{}).Error
	if err != nil {
		return false, storeErr(err)
	}
	return false, nil
}

// SaveToFolder assigns an existing bookmark to a folder. Passing nil moves
// it back to uncategorized.
func (s *BookmarkService) SaveToFolder(ctx context.Context, userID, postID string, folderID *string) error {
	if folderID != nil {
		if err := s.requireOwnedFolder(ctx, userID, *folderID); err != nil {
			return err
		}
	}

	// Existence is checked separately: an UPDATE that writes the folder the
	// bookmark is already in affects zero rows on MySQL, which would be
	// indistinguishable from a missing bookmark.
	var bookmark models.PostBookmark
	err := s.db.WithContext(ctx).Select("id").
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&bookmark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: bookmark for post %s", ErrNotFound, postID)
		}
		return storeErr(err)
	}

	return storeErr(s.db.WithContext(ctx).Model(&models.PostBookmark{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Update("folder_id", folderID).Error)
}

// CreateFolder creates a named folder for the user. Names are unique per
// user; a duplicate is reported, not silently reused.
func (s *BookmarkService) CreateFolder(ctx context.Context, userID, name, color string) (*models.BookmarkFolder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrValidation)
	}
	if color == "" {
		color = models.DefaultFolderColor
	}

	folder := models.BookmarkFolder{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&folder)
	if result.Error != nil {
		return nil, storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: folder %q already exists", ErrInvalidOperation, name)
	}
	return &folder, nil
}

// EnsureDefaultFolder provisions the "General" folder for users with no
// folders at all. The zero-folder check is only a fast path; the real
// guarantee is the unique (user_id, name) index plus the conflict-tolerant
// insert, so two racing first-listings converge on one row the same way
// racing conversation bootstraps do.
func (s *BookmarkService) EnsureDefaultFolder(ctx context.Context, userID string) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.BookmarkFolder{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return storeErr(err)
	}
	if count > 0 {
		return nil
	}

	folder := models.BookmarkFolder{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   models.DefaultFolderName,
		Color:  models.DefaultFolderColor,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&folder).Error
	return storeErr(err)
}

// ListFolders groups the user's bookmarked posts by folder: the real
// folders in creation order, plus a synthetic "All Bookmarks" aggregate
// and a synthetic "Uncategorized" bucket for bookmarks with no folder.
func (s *BookmarkService) ListFolders(ctx context.Context, userID string) ([]models.FolderView, error) {
	if err := s.EnsureDefaultFolder(ctx, userID); err != nil {
		return nil, err
	}

	var folders []models.BookmarkFolder
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&folders).Error
	if err != nil {
		return nil, storeErr(err)
	}

	var bookmarks []models.PostBookmark
	err = s.db.WithContext(ctx).Preload("Post").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, storeErr(err)
	}

	byFolder := make(map[string][]models.Post)
	allPosts := make([]models.Post, 0, len(bookmarks))
	var uncategorized []models.Post
	for _, b := range bookmarks {
		allPosts = append(allPosts, b.Post)
		if b.FolderID == nil {
			uncategorized = append(uncategorized, b.Post)
			continue
		}
		byFolder[*b.FolderID] = append(byFolder[*b.FolderID], b.Post)
	}

	views := make([]models.FolderView, 0, len(folders)+2)
	views = append(views, models.FolderView{
		Folder: models.BookmarkFolder{
			ID:     models.SyntheticFolderAll,
			UserID: userID,
			Name:   "All Bookmarks",
		},
		Posts: allPosts,
	})
	for _, folder := range folders {
		views = append(views, models.FolderView{
			Folder: folder,
			Posts:  orEmpty(byFolder[folder.ID]),
		})
	}
	views = append(views, models.FolderView{
		Folder: models.BookmarkFolder{
			ID:     models.SyntheticFolderUncategorized,
			UserID: userID,
			Name:   "Uncategorized",
		},
		Posts: orEmpty(uncategorized),
	})
	return views, nil
}

func (s *BookmarkService) requireOwnedFolder(ctx context.Context, userID, folderID string) error {
	var folder models.BookmarkFolder
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", folderID, userID).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: folder %s", ErrNotFound, folderID)
		}
		return storeErr(err)
	}
	return nil
}

func orEmpty(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}
