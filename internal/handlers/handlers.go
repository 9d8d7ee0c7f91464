package handlers

import (
	"github.com/yschu/twitter/backend/internal/auth"
	"github.com/yschu/twitter/backend/internal/repository"
	"github.com/yschu/twitter/backend/internal/storage"
)

// Handlers contains all HTTP handlers and their dependencies
type Handlers struct {
	auth     *auth.Service
	users    repository.UserRepository
	tweets   repository.TweetRepository
	uploader storage.ImageUploader
}

// New creates a new Handlers instance
func New(authService *auth.Service, users repository.UserRepository, tweets repository.TweetRepository, uploader storage.ImageUploader) *Handlers {
	return &Handlers{
		auth:     authService,
		users:    users,
		tweets:   tweets,
		uploader: uploader,
	}
}
