// File: /models/bookmark_folder.go
package models

import (
	"time"
)

// Default folder provisioned lazily for every user.
const (
	DefaultFolderName  = "General"
	DefaultFolderColor = "#4A90D9"
)

// Synthetic folder ids used in grouped bookmark listings. They never exist
// as rows.
const (
	SyntheticFolderAll           = "all"
	SyntheticFolderUncategorized = "uncategorized"
)

// BookmarkFolder names are unique per user. The constraint is what makes
// default-folder provisioning race-safe: two concurrent first-listings
// both attempt the insert and the conflict resolves to one row.
type BookmarkFolder struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_bookmark_folders_user_name"`
	Name      string    `json:"name" gorm:"not null;size:100;uniqueIndex:uk_bookmark_folders_user_name"`
	Color     string    `json:"color" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

// FolderView is one group in the bookmark folder listing: the folder plus
// the posts saved into it. Synthetic groups (all, uncategorized) reuse the
// same shape with the reserved ids above.
type FolderView struct {
	Folder BookmarkFolder `json:"folder"`
	Posts  []Post         `json:"posts"`
}
