package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialnet/socialnet/internal/auth"
	"github.com/socialnet/socialnet/internal/cache"
	"github.com/socialnet/socialnet/internal/db"
	"github.com/socialnet/socialnet/internal/media"
	"github.com/socialnet/socialnet/pkg/config"
	"github.com/socialnet/socialnet/pkg/logging"
	"github.com/socialnet/socialnet/pkg/telemetry"
)

// Router sets up API routes
type Router struct {
	users    *UsersAPI
	posts    *PostsAPI
	comments *CommentsAPI
	hashtags *HashtagsAPI
	tokens   *db.TokenRepository
	database *db.DB
	cache    *cache.Cache
	authCfg  *config.AuthConfig
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, storage *media.Storage, authCfg *config.AuthConfig) *Router {
	repo := db.NewRepository(database.DB)

	return &Router{
		users:    NewUsersAPI(repo, storage, redisCache, authCfg),
		posts:    NewPostsAPI(repo, storage, redisCache),
		comments: NewCommentsAPI(repo, redisCache),
		hashtags: NewHashtagsAPI(repo),
		tokens:   db.NewTokenRepository(repo),
		database: database,
		cache:    redisCache,
		authCfg:  authCfg,
		logger:   logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(requestLogger(r.logger), tracing())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Open endpoints
	engine.POST("/users/register", r.users.Register)
	engine.POST("/users/login", r.users.Login)

	// Everything below requires a valid bearer token
	authed := engine.Group("/", auth.Middleware(r.tokens, r.authCfg.TokenTTLDays))

	users := authed.Group("/users")
	users.GET("", r.users.List)
	users.GET("/:id", r.users.Get)
	users.PATCH("/:id", r.users.Update)
	users.DELETE("/:id", r.users.Delete)
	users.POST("/:id/follow-unfollow", r.users.FollowUnfollow)
	users.GET("/:id/followers", r.users.Followers)
	users.GET("/:id/followings", r.users.Followings)
	users.GET("/:id/liked-posts", r.users.LikedPosts)
	users.GET("/:id/published-posts", r.users.PublishedPosts)
	users.POST("/:id/upload-image", r.users.UploadImage)

	posts := authed.Group("/posts")
	posts.GET("", r.posts.List)
	posts.POST("", r.posts.Create)
	posts.GET("/:id", r.posts.Get)
	posts.PATCH("/:id", r.posts.Update)
	posts.DELETE("/:id", r.posts.Delete)
	posts.POST("/:id/like-unlike", r.posts.LikeUnlike)
	posts.POST("/:id/upload-image", r.posts.UploadImage)
	posts.GET("/:id/comments", r.posts.ListComments)
	posts.POST("/:id/comments", r.posts.CreateComment)

	comments := authed.Group("/comments")
	comments.GET("", r.comments.List)
	comments.GET("/:id", r.comments.Get)
	comments.PATCH("/:id", r.comments.Update)
	comments.DELETE("/:id", r.comments.Delete)

	hashtags := authed.Group("/hashtags")
	hashtags.GET("", r.hashtags.List)
	hashtags.POST("", r.hashtags.Create)
	hashtags.PATCH("/:id", r.hashtags.Update)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "socialnet-api",
	})
}

// requestLogger logs each request with its status and latency
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// tracing opens a span per request
func tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
