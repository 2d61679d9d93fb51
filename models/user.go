// File: /models/user.go
package models

import (
	"strings"
	"time"
)

// Profile roles.
const (
	RoleAthlete = "athlete"
	RoleScout   = "scout"
	RoleTeam    = "team"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	Handle         string    `json:"handle" gorm:"uniqueIndex;not null;size:50"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password       string    `json:"-" gorm:"not null;size:255"`
	EmailVerified  bool      `json:"email_verified" gorm:"default:false"`
	Role           string    `json:"role" gorm:"not null;default:'athlete';size:20"`
	Sport          string    `json:"sport" gorm:"size:50"`
	Bio            string    `json:"bio" gorm:"size:500"`
	Location       string    `json:"location" gorm:"size:255"`
	Avatar         *string   `json:"avatar" gorm:"size:500"`
	FollowersCount int       `json:"followers_count" gorm:"default:0"`
	FollowingCount int       `json:"following_count" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Posts []Post `json:"posts" gorm:"foreignKey:AuthorID"`
}

// Follow is a directed edge: follower follows following. The ordered pair
// is unique; self-edges are rejected at the service layer and backed by a
// CHECK constraint in database.Migrate.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:uk_follows_pair"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;uniqueIndex:uk_follows_pair"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"follower" gorm:"foreignKey:FollowerID"`
	Following User `json:"following" gorm:"foreignKey:FollowingID"`
}

// ProfileSummary is the slim author view embedded in feed items.
type ProfileSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Handle string  `json:"handle"`
	Role   string  `json:"role"`
	Sport  string  `json:"sport"`
	Avatar *string `json:"avatar"`
}

// Summary returns the slim view of a user for embedding in feed items.
func (u *User) Summary() ProfileSummary {
	return ProfileSummary{
		ID:     u.ID,
		Name:   u.Name,
		Handle: u.Handle,
		Role:   u.Role,
		Sport:  u.Sport,
		Avatar: u.Avatar,
	}
}

// ValidRole reports whether role is one of the known profile roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAthlete, RoleScout, RoleTeam:
		return true
	}
	return false
}

// GenerateHandleFromName creates a handle candidate from the user's name
func GenerateHandleFromName(name string) string {
	handle := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	handle = strings.ReplaceAll(handle, ".", "")
	handle = strings.ReplaceAll(handle, "-", "_")
	return handle
}
