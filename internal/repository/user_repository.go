package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yschu/twitter/backend/internal/models"
)

// UserStats are the social counters shown on a profile, computed relative
// to the viewing principal.
type UserStats struct {
	TweetCount     int64
	FollowerCount  int64
	FollowingCount int64
	IsFollowed     bool
}

// FollowListEntry is one user in a followers/followings listing
type FollowListEntry struct {
	User       models.User
	FollowedAt time.Time
	IsFollowed bool
}

// RankedUser is a user ranked by follower count
type RankedUser struct {
	User          models.User
	FollowerCount int64
	IsFollowed    bool
}

// AdminUserEntry is a user with the engagement counters the admin
// dashboard lists
type AdminUserEntry struct {
	User           models.User
	TweetCount     int64
	LikeCount      int64
	FollowerCount  int64
	FollowingCount int64
}

// UserRepository handles all database operations for users and followships
type UserRepository interface {
	// User CRUD
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByAccount(ctx context.Context, account string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Profile aggregates
	GetUserStats(ctx context.Context, userID, viewerID string) (*UserStats, error)

	// Followers/Following
	GetFollowers(ctx context.Context, userID, viewerID string) ([]FollowListEntry, error)
	GetFollowings(ctx context.Context, userID, viewerID string) ([]FollowListEntry, error)
	GetTopUsers(ctx context.Context, viewerID string, limit int) ([]RankedUser, error)

	// Follow relationship
	CreateFollow(ctx context.Context, followerID, followingID string) error
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)

	// Admin
	ListUsersWithStats(ctx context.Context, limit, offset int) ([]AdminUserEntry, int64, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetUser gets a user by ID
func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return &user, err
}

// GetUserByEmail gets a user by email (case-insensitive)
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return &user, err
}

// GetUserByAccount gets a user by account handle (case-insensitive)
func (r *userRepository) GetUserByAccount(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(account) = LOWER(?)", account).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return &user, err
}

// UpdateUser persists all fields of a user record
func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Save(user).Error
}

// GetUserStats computes the profile counters relative to the viewer
func (r *userRepository) GetUserStats(ctx context.Context, userID, viewerID string) (*UserStats, error) {
	db := r.db.WithContext(ctx)
	stats := &UserStats{}

	if err := db.Model(&models.Tweet{}).
		Where("user_id = ?", userID).
		Count(&stats.TweetCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Followship{}).
		Where("following_id = ?", userID).
		Count(&stats.FollowerCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Followship{}).
		Where("follower_id = ?", userID).
		Count(&stats.FollowingCount).Error; err != nil {
		return nil, err
	}

	if viewerID != "" && viewerID != userID {
		followed, err := r.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		stats.IsFollowed = followed
	}

	return stats, nil
}

// GetFollowers lists the users following userID, newest edge first
func (r *userRepository) GetFollowers(ctx context.Context, userID, viewerID string) ([]FollowListEntry, error) {
	var edges []models.Followship
	err := r.db.WithContext(ctx).
		Preload("Follower").
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	entries := make([]FollowListEntry, 0, len(edges))
	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		entries = append(entries, FollowListEntry{
			User:       edge.Follower,
			FollowedAt: edge.CreatedAt,
		})
		ids = append(ids, edge.FollowerID)
	}

	if err := r.markFollowed(ctx, viewerID, ids, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetFollowings lists the users userID follows, newest edge first
func (r *userRepository) GetFollowings(ctx context.Context, userID, viewerID string) ([]FollowListEntry, error) {
	var edges []models.Followship
	err := r.db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	entries := make([]FollowListEntry, 0, len(edges))
	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		entries = append(entries, FollowListEntry{
			User:       edge.Following,
			FollowedAt: edge.CreatedAt,
		})
		ids = append(ids, edge.FollowingID)
	}

	if err := r.markFollowed(ctx, viewerID, ids, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// markFollowed fills in IsFollowed for each entry using a single query
// over the viewer's outgoing edges.
func (r *userRepository) markFollowed(ctx context.Context, viewerID string, ids []string, entries []FollowListEntry) error {
	if viewerID == "" || len(ids) == 0 {
		return nil
	}

	var followedIDs []string
	err := r.db.WithContext(ctx).Model(&models.Followship{}).
		Where("follower_id = ? AND following_id IN ?", viewerID, ids).
		Pluck("following_id", &followedIDs).Error
	if err != nil {
		return err
	}

	followed := make(map[string]bool, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = true
	}
	for i := range entries {
		entries[i].IsFollowed = followed[entries[i].User.ID]
	}

	return nil
}

// GetTopUsers lists regular users ordered by follower count
func (r *userRepository) GetTopUsers(ctx context.Context, viewerID string, limit int) ([]RankedUser, error) {
	if limit <= 0 {
		limit = -1
	}

	type row struct {
		models.User   `gorm:"embedded"`
		FollowerCount int64
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("users.*, (SELECT COUNT(*) FROM followships WHERE followships.following_id = users.id) AS follower_count").
		Where("role = ?", models.RoleUser).
		Order("follower_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedUser, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, rec := range rows {
		ranked = append(ranked, RankedUser{
			User:          rec.User,
			FollowerCount: rec.FollowerCount,
		})
		ids = append(ids, rec.User.ID)
	}

	if viewerID != "" && len(ids) > 0 {
		var followedIDs []string
		err := r.db.WithContext(ctx).Model(&models.Followship{}).
			Where("follower_id = ? AND following_id IN ?", viewerID, ids).
			Pluck("following_id", &followedIDs).Error
		if err != nil {
			return nil, err
		}

		followed := make(map[string]bool, len(followedIDs))
		for _, id := range followedIDs {
			followed[id] = true
		}
		for i := range ranked {
			ranked[i].IsFollowed = followed[ranked[i].User.ID]
		}
	}

	return ranked, nil
}

// CreateFollow creates a follow edge. Duplicate edges are rejected.
func (r *userRepository) CreateFollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" || followingID == "" {
		return ErrInvalidInput
	}

	exists, err := r.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}

	edge := models.Followship{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	return r.db.WithContext(ctx).Create(&edge).Error
}

// DeleteFollow removes a follow edge
func (r *userRepository) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Followship{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}

	return nil
}

// IsFollowing checks for a follow edge from follower to following
func (r *userRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Followship{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error

	return count > 0, err
}

// ListUsersWithStats lists all users with engagement counters for the
// admin dashboard, most tweets first.
func (r *userRepository) ListUsersWithStats(ctx context.Context, limit, offset int) ([]AdminUserEntry, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	type row struct {
		models.User    `gorm:"embedded"`
		TweetCount     int64
		LikeCount      int64
		FollowerCount  int64
		FollowingCount int64
	}

	var rows []row
	err := db.Model(&models.User{}).
		Select(`users.*,
			(SELECT COUNT(*) FROM tweets WHERE tweets.user_id = users.id) AS tweet_count,
			(SELECT COUNT(*) FROM likes JOIN tweets ON likes.tweet_id = tweets.id WHERE tweets.user_id = users.id) AS like_count,
			(SELECT COUNT(*) FROM followships WHERE followships.following_id = users.id) AS follower_count,
			(SELECT COUNT(*) FROM followships WHERE followships.follower_id = users.id) AS following_count`).
		Order("tweet_count DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	entries := make([]AdminUserEntry, 0, len(rows))
	for _, rec := range rows {
		entries = append(entries, AdminUserEntry{
			User:           rec.User,
			TweetCount:     rec.TweetCount,
			LikeCount:      rec.LikeCount,
			FollowerCount:  rec.FollowerCount,
			FollowingCount: rec.FollowingCount,
		})
	}

	return entries, total, nil
}
