package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yschu/twitter/backend/internal/auth"
	"github.com/yschu/twitter/backend/internal/cache"
	"github.com/yschu/twitter/backend/internal/database"
	"github.com/yschu/twitter/backend/internal/handlers"
	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/middleware"
	"github.com/yschu/twitter/backend/internal/repository"
	"github.com/yschu/twitter/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("server starting")

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is optional; rate limiting degrades to per-instance buckets
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisClient, err := cache.NewRedisClient(redisHost, os.Getenv("REDIS_PORT"), os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}
	authService := auth.NewService(jwtSecret)

	uploader := newUploader()

	users := repository.NewUserRepository(database.DB)
	tweets := repository.NewTweetRepository(database.DB)
	h := handlers.New(authService, users, tweets, uploader)

	router := setupRouter(h, authService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
}

// newUploader builds the image uploader. Without an S3 bucket configured
// the server runs with the in-memory mock so local development works
// offline.
func newUploader() storage.ImageUploader {
	bucket := os.Getenv("AWS_BUCKET")
	if bucket == "" {
		logger.Log.Warn("AWS_BUCKET not set, image uploads use the in-memory store")
		return storage.NewMockUploader()
	}

	uploader, err := storage.NewS3Uploader(os.Getenv("AWS_REGION"), bucket, os.Getenv("CDN_BASE_URL"))
	if err != nil {
		logger.Log.Fatal("failed to initialize S3 uploader", zap.Error(err))
	}

	if err := uploader.CheckBucketAccess(context.Background()); err != nil {
		logger.Log.Warn("S3 bucket access check failed, image uploads may fail", zap.Error(err))
	}

	return uploader
}

// setupRouter wires middleware and all API routes
func setupRouter(h *handlers.Handlers, authService *auth.Service) *gin.Engine {
	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		if err := database.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authLimit := middleware.RedisRateLimitMiddleware(middleware.AuthRateLimitConfig())
	uploadLimit := middleware.RedisRateLimitMiddleware(middleware.UploadRateLimitConfig())

	api := r.Group("/api")
	{
		api.POST("/users", authLimit, h.Register)
		api.POST("/users/login", authLimit, h.Login)
		api.POST("/admin/users/login", authLimit, h.AdminLogin)

		users := api.Group("/users")
		users.Use(authService.Authenticated(), auth.RequireUser())
		{
			users.GET("/top", h.GetTopUsers)
			users.GET("/:id", h.GetUser)
			users.PUT("/:id", uploadLimit, h.PutUser)
			users.PUT("/:id/setting", h.PutUserSetting)
			users.GET("/:id/followers", h.GetFollowers)
			users.GET("/:id/followings", h.GetFollowings)
			users.GET("/:id/tweets", h.GetUserTweets)
			users.GET("/:id/likes", h.GetUserLikes)
			users.GET("/:id/replied_tweets", h.GetUserRepliedTweets)
		}

		tweets := api.Group("/tweets")
		tweets.Use(authService.Authenticated(), auth.RequireUser())
		{
			tweets.POST("", h.PostTweet)
			tweets.GET("", h.GetTweets)
			tweets.GET("/:id", h.GetTweet)
			tweets.GET("/:id/replies", h.GetReplies)
			tweets.POST("/:id/replies", h.PostReply)
			tweets.POST("/:id/like", h.PostLike)
			tweets.POST("/:id/unlike", h.PostUnlike)
		}

		followships := api.Group("/followships")
		followships.Use(authService.Authenticated(), auth.RequireUser())
		{
			followships.POST("", h.PostFollowship)
			followships.DELETE("/:followingId", h.DeleteFollowship)
		}

		admin := api.Group("/admin")
		admin.Use(authService.Authenticated(), auth.RequireAdmin())
		{
			admin.GET("/users", h.AdminGetUsers)
			admin.PATCH("/users/:id", h.AdminPatchUser)
			admin.GET("/tweets", h.AdminGetTweets)
			admin.DELETE("/tweets/:id", h.AdminDeleteTweet)
		}
	}

	return r
}
