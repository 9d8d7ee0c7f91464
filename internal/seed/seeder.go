package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/models"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds the development database with realistic data: the root
// admin, a population of users, tweets with replies, likes and a follow
// graph.
func (s *Seeder) SeedDev() error {
	logger.Log.Info("creating root admin...")
	if err := s.seedRoot(); err != nil {
		return fmt.Errorf("failed to seed root admin: %w", err)
	}

	logger.Log.Info("creating users...")
	users, err := s.seedUsers(20)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("creating tweets...")
	tweets, err := s.seedTweets(users, 100)
	if err != nil {
		return fmt.Errorf("failed to seed tweets: %w", err)
	}

	logger.Log.Info("creating replies...")
	if err := s.seedReplies(users, tweets, 300); err != nil {
		return fmt.Errorf("failed to seed replies: %w", err)
	}

	logger.Log.Info("creating likes...")
	if err := s.seedLikes(users, tweets); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("creating followships...")
	if err := s.seedFollowships(users); err != nil {
		return fmt.Errorf("failed to seed followships: %w", err)
	}

	logger.Log.Info("seeding complete",
		zap.Int("users", len(users)+1),
		zap.Int("tweets", len(tweets)),
	)

	return nil
}

// SeedTest seeds a minimal fixture set for manual testing
func (s *Seeder) SeedTest() error {
	if err := s.seedRoot(); err != nil {
		return err
	}

	users, err := s.seedUsers(3)
	if err != nil {
		return err
	}

	_, err = s.seedTweets(users, 10)
	return err
}

// Clean removes all rows from every table. Development only.
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{
		&models.Like{},
		&models.Reply{},
		&models.Followship{},
		&models.Tweet{},
		&models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedRoot creates the root admin account if it does not exist
func (s *Seeder) seedRoot() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", models.RootEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	root := models.User{
		Account:  "root",
		Name:     "root",
		Email:    models.RootEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	return s.db.Create(&root).Error
}

// seedUsers creates n fake users, all with the password "12345678"
func (s *Seeder) seedUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Account:      fmt.Sprintf("user%d", i+1),
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("user%d@example.com", i+1),
			Password:     string(hashed),
			Avatar:       fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i+1),
			Introduction: gofakeit.Sentence(10),
			Role:         models.RoleUser,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// seedTweets creates n tweets spread over the users with staggered
// timestamps so listings have a stable order.
func (s *Seeder) seedTweets(users []models.User, n int) ([]models.Tweet, error) {
	tweets := make([]models.Tweet, 0, n)
	now := time.Now()

	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		tweet := models.Tweet{
			UserID:      author.ID,
			Description: truncateRunes(gofakeit.Sentence(12), 140),
			CreatedAt:   now.Add(-time.Duration(n-i) * time.Minute),
		}
		if err := s.db.Create(&tweet).Error; err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}

	return tweets, nil
}

// seedReplies creates n replies on random tweets
func (s *Seeder) seedReplies(users []models.User, tweets []models.Tweet, n int) error {
	for i := 0; i < n; i++ {
		reply := models.Reply{
			UserID:  users[rand.Intn(len(users))].ID,
			TweetID: tweets[rand.Intn(len(tweets))].ID,
			Comment: truncateRunes(gofakeit.Sentence(8), 140),
		}
		if err := s.db.Create(&reply).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedLikes gives each user a random sample of liked tweets
func (s *Seeder) seedLikes(users []models.User, tweets []models.Tweet) error {
	for _, user := range users {
		for _, idx := range rand.Perm(len(tweets))[:rand.Intn(10)] {
			like := models.Like{
				UserID:  user.ID,
				TweetID: tweets[idx].ID,
			}
			if err := s.db.Create(&like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// seedFollowships gives each user a few random followings
func (s *Seeder) seedFollowships(users []models.User) error {
	for _, follower := range users {
		for _, idx := range rand.Perm(len(users))[:rand.Intn(5)] {
			if users[idx].ID == follower.ID {
				continue
			}
			edge := models.Followship{
				FollowerID:  follower.ID,
				FollowingID: users[idx].ID,
			}
			if err := s.db.Create(&edge).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
