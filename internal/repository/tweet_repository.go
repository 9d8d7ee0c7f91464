package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yschu/twitter/backend/internal/models"
)

// TweetWithStats is a tweet with its engagement counters, computed
// relative to the viewing principal.
type TweetWithStats struct {
	Tweet      models.Tweet
	ReplyCount int64
	LikeCount  int64
	IsLiked    bool
}

// LikedTweetEntry is a tweet a user has liked, with the time of the like
type LikedTweetEntry struct {
	TweetWithStats
	LikedAt time.Time
}

// TweetRepository handles all database operations for tweets, replies
// and likes
type TweetRepository interface {
	// Tweet CRUD
	CreateTweet(ctx context.Context, tweet *models.Tweet) error
	GetTweet(ctx context.Context, tweetID, viewerID string) (*TweetWithStats, error)
	ListTweets(ctx context.Context, viewerID string) ([]TweetWithStats, error)
	ListTweetsByUser(ctx context.Context, userID, viewerID string) ([]TweetWithStats, error)

	// Listings derived from engagement
	ListLikedTweets(ctx context.Context, userID, viewerID string) ([]LikedTweetEntry, error)
	ListRepliesByUser(ctx context.Context, userID string) ([]models.Reply, error)

	// Replies
	CreateReply(ctx context.Context, reply *models.Reply) error
	ListReplies(ctx context.Context, tweetID string) ([]models.Reply, error)

	// Likes
	CreateLike(ctx context.Context, userID, tweetID string) error
	DeleteLike(ctx context.Context, userID, tweetID string) error

	// Admin
	ListAllTweets(ctx context.Context) ([]models.Tweet, error)
	DeleteTweetCascade(ctx context.Context, tweetID string) error
}

// tweetRepository implements TweetRepository
type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

// CreateTweet creates a new tweet
func (r *tweetRepository) CreateTweet(ctx context.Context, tweet *models.Tweet) error {
	if tweet == nil || tweet.UserID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(tweet).Error
}

// GetTweet gets a tweet by ID with its author and counters
func (r *tweetRepository) GetTweet(ctx context.Context, tweetID, viewerID string) (*TweetWithStats, error) {
	var tweet models.Tweet
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", tweetID).
		First(&tweet).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTweetNotFound
	} else if err != nil {
		return nil, err
	}

	stats, err := r.withStats(ctx, []models.Tweet{tweet}, viewerID)
	if err != nil {
		return nil, err
	}

	return &stats[0], nil
}

// ListTweets lists all tweets, newest first
func (r *tweetRepository) ListTweets(ctx context.Context, viewerID string) ([]TweetWithStats, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}

	return r.withStats(ctx, tweets, viewerID)
}

// ListTweetsByUser lists one user's tweets, newest first
func (r *tweetRepository) ListTweetsByUser(ctx context.Context, userID, viewerID string) ([]TweetWithStats, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}

	return r.withStats(ctx, tweets, viewerID)
}

// ListLikedTweets lists the tweets a user has liked, most recent like first
func (r *tweetRepository) ListLikedTweets(ctx context.Context, userID, viewerID string) ([]LikedTweetEntry, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Preload("Tweet").
		Preload("Tweet.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}

	tweets := make([]models.Tweet, 0, len(likes))
	for _, like := range likes {
		tweets = append(tweets, like.Tweet)
	}

	stats, err := r.withStats(ctx, tweets, viewerID)
	if err != nil {
		return nil, err
	}

	entries := make([]LikedTweetEntry, 0, len(likes))
	for i, like := range likes {
		entries = append(entries, LikedTweetEntry{
			TweetWithStats: stats[i],
			LikedAt:        like.CreatedAt,
		})
	}

	return entries, nil
}

// ListRepliesByUser lists a user's replies with the replied tweet and its
// author preloaded, newest first.
func (r *tweetRepository) ListRepliesByUser(ctx context.Context, userID string) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.WithContext(ctx).
		Preload("Tweet").
		Preload("Tweet.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&replies).Error

	return replies, err
}

// CreateReply creates a reply on a tweet. The tweet must exist.
func (r *tweetRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	if reply == nil || reply.UserID == "" || reply.TweetID == "" {
		return ErrInvalidInput
	}

	if err := r.requireTweet(ctx, reply.TweetID); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(reply).Error
}

// ListReplies lists a tweet's replies in conversation order
func (r *tweetRepository) ListReplies(ctx context.Context, tweetID string) ([]models.Reply, error) {
	if err := r.requireTweet(ctx, tweetID); err != nil {
		return nil, err
	}

	var replies []models.Reply
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tweet_id = ?", tweetID).
		Order("created_at ASC").
		Find(&replies).Error

	return replies, err
}

// CreateLike likes a tweet. One like per user per tweet.
func (r *tweetRepository) CreateLike(ctx context.Context, userID, tweetID string) error {
	if err := r.requireTweet(ctx, tweetID); err != nil {
		return err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyLiked
	}

	like := models.Like{UserID: userID, TweetID: tweetID}
	return r.db.WithContext(ctx).Create(&like).Error
}

// DeleteLike removes a like from a tweet
func (r *tweetRepository) DeleteLike(ctx context.Context, userID, tweetID string) error {
	if err := r.requireTweet(ctx, tweetID); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&models.Like{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotLiked
	}

	return nil
}

// ListAllTweets lists every tweet with its author for moderation
func (r *tweetRepository) ListAllTweets(ctx context.Context) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&tweets).Error

	return tweets, err
}

// DeleteTweetCascade removes a tweet together with its replies and likes
// in a single transaction.
func (r *tweetRepository) DeleteTweetCascade(ctx context.Context, tweetID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tweet models.Tweet
		err := tx.Where("id = ?", tweetID).First(&tweet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTweetNotFound
		} else if err != nil {
			return err
		}

		if err := tx.Where("tweet_id = ?", tweetID).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tweet_id = ?", tweetID).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		return tx.Delete(&tweet).Error
	})
}

// requireTweet returns ErrTweetNotFound if the tweet does not exist
func (r *tweetRepository) requireTweet(ctx context.Context, tweetID string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tweet{}).
		Where("id = ?", tweetID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrTweetNotFound
	}

	return nil
}

// withStats decorates tweets with reply/like counters and the viewer's
// liked flag using batched queries.
func (r *tweetRepository) withStats(ctx context.Context, tweets []models.Tweet, viewerID string) ([]TweetWithStats, error) {
	out := make([]TweetWithStats, len(tweets))
	if len(tweets) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(tweets))
	for i, tweet := range tweets {
		out[i].Tweet = tweet
		ids = append(ids, tweet.ID)
	}

	type countRow struct {
		TweetID string
		N       int64
	}

	var replyCounts []countRow
	err := r.db.WithContext(ctx).Model(&models.Reply{}).
		Select("tweet_id, COUNT(*) AS n").
		Where("tweet_id IN ?", ids).
		Group("tweet_id").
		Find(&replyCounts).Error
	if err != nil {
		return nil, err
	}

	var likeCounts []countRow
	err = r.db.WithContext(ctx).Model(&models.Like{}).
		Select("tweet_id, COUNT(*) AS n").
		Where("tweet_id IN ?", ids).
		Group("tweet_id").
		Find(&likeCounts).Error
	if err != nil {
		return nil, err
	}

	replies := make(map[string]int64, len(replyCounts))
	for _, row := range replyCounts {
		replies[row.TweetID] = row.N
	}
	likes := make(map[string]int64, len(likeCounts))
	for _, row := range likeCounts {
		likes[row.TweetID] = row.N
	}

	liked := make(map[string]bool)
	if viewerID != "" {
		var likedIDs []string
		err := r.db.WithContext(ctx).Model(&models.Like{}).
			Where("user_id = ? AND tweet_id IN ?", viewerID, ids).
			Pluck("tweet_id", &likedIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for i := range out {
		id := out[i].Tweet.ID
		out[i].ReplyCount = replies[id]
		out[i].LikeCount = likes[id]
		out[i].IsLiked = liked[id]
	}

	return out, nil
}
