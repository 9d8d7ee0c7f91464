package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RootEmail is the distinguished superuser account. Its role can never be
// changed through the admin API.
const RootEmail = "root@example.com"

// User is an account that can author tweets and follow other users.
type User struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Account string `gorm:"uniqueIndex;not null" json:"account"`
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`

	// bcrypt hash, never serialized
	Password string `gorm:"not null" json:"-"`

	Avatar       string `json:"avatar"`
	Cover        string `json:"cover"`
	Introduction string `gorm:"type:text" json:"introduction"`
	Role         string `gorm:"default:user;not null" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tweet is a short post authored by a user. Deleting a tweet removes its
// replies and likes in the same transaction (see repository.TweetRepository).
type Tweet struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string `gorm:"not null;index" json:"userId"`
	User        User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Description string `gorm:"type:text;not null" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reply is a comment on a tweet.
type Reply struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"not null;index" json:"userId"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TweetID string `gorm:"not null;index" json:"tweetId"`
	Tweet   Tweet  `gorm:"foreignKey:TweetID" json:"-"`
	Comment string `gorm:"type:text;not null" json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Like is a join record between a user and a tweet. One like per pair,
// enforced by a unique index.
type Like struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"not null;uniqueIndex:idx_likes_user_tweet" json:"userId"`
	User    User   `gorm:"foreignKey:UserID" json:"-"`
	TweetID string `gorm:"not null;uniqueIndex:idx_likes_user_tweet;index" json:"tweetId"`
	Tweet   Tweet  `gorm:"foreignKey:TweetID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// Followship is a directed edge: follower follows following. Self-follows
// and duplicate edges are rejected at the handler layer and by the unique index.
type Followship struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID  string `gorm:"not null;uniqueIndex:idx_followships_edge" json:"followerId"`
	Follower    User   `gorm:"foreignKey:FollowerID" json:"-"`
	FollowingID string `gorm:"not null;uniqueIndex:idx_followships_edge;index" json:"followingId"`
	Following   User   `gorm:"foreignKey:FollowingID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate hooks for GORM

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = generateUUID()
	}
	return nil
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = generateUUID()
	}
	return nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

func (f *Followship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

// IsRoot reports whether this is the protected superuser account.
func (u *User) IsRoot() bool {
	return u.Email == RootEmail
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func generateUUID() string {
	return uuid.New().String()
}
