// File: /models/post.go
package models

import (
	"time"
)

// Post is a piece of shared content. Like and comment counts are derived
// by counting edges at read time; only shares_count is stored, and it is
// monotonically incremented.
type Post struct {
	ID          string      `json:"id" gorm:"primaryKey;size:191"`
	AuthorID    string      `json:"author_id" gorm:"not null;size:191;index"`
	Text        string      `json:"text" gorm:"size:2000"`
	ImageUrls   StringSlice `json:"image_urls" gorm:"type:json"`
	VideoURL    string      `json:"video_url" gorm:"size:500"`
	Sport       string      `json:"sport" gorm:"size:50;index"`
	Hashtags    StringSlice `json:"hashtags" gorm:"type:json"`
	SharesCount int         `json:"shares_count" gorm:"default:0"`
	CreatedAt   time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Author    User           `json:"author" gorm:"foreignKey:AuthorID"`
	Likes     []PostLike     `json:"likes" gorm:"foreignKey:PostID"`
	Bookmarks []PostBookmark `json:"bookmarks" gorm:"foreignKey:PostID"`
	Comments  []Comment      `json:"comments" gorm:"foreignKey:PostID"`
}

type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_pair"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_pair"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"post" gorm:"foreignKey:PostID"`
	User User `json:"user" gorm:"foreignKey:UserID"`
}

// PostBookmark saves a post for a user. FolderID is nil while the bookmark
// is uncategorized.
type PostBookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_post_bookmarks_pair"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_post_bookmarks_pair"`
	FolderID  *string   `json:"folder_id" gorm:"size:191;index"`
	CreatedAt time.Time `json:"created_at"`

	Post   Post            `json:"post" gorm:"foreignKey:PostID"`
	User   User            `json:"user" gorm:"foreignKey:UserID"`
	Folder *BookmarkFolder `json:"folder,omitempty" gorm:"foreignKey:FolderID"`
}

// PostStats holds the derived engagement numbers for one post.
type PostStats struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

// FeedItem is one enriched post in a feed response.
type FeedItem struct {
	Post             Post           `json:"post"`
	Author           ProfileSummary `json:"author"`
	Stats            PostStats      `json:"stats"`
	ViewerLiked      bool           `json:"viewer_liked"`
	ViewerBookmarked bool           `json:"viewer_bookmarked"`
}

// FeedResponse is the paginated feed payload.
type FeedResponse struct {
	Posts      []FeedItem `json:"posts"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	HasMore    bool       `json:"has_more"`
	TotalPages int        `json:"total_pages"`
}

// RankedPost is one entry in the trending list.
type RankedPost struct {
	Post      Post           `json:"post"`
	Author    ProfileSummary `json:"author"`
	Score     int64          `json:"score"`
	Likes     int64          `json:"likes"`
	Comments  int64          `json:"comments"`
	Shares    int64          `json:"shares"`
	Bookmarks int64          `json:"bookmarks"`
}
