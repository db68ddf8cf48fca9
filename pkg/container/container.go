package container

import (
	"context"
	"fmt"
	"time"

	"bookreview-backend/internal/config"
	infraCache "bookreview-backend/internal/infrastructure/cache"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/internal/infrastructure/provider"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/jwt"
	"bookreview-backend/pkg/logger"

	"bookreview-backend/internal/domains/book"
	bookHandler "bookreview-backend/internal/domains/book/handler"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	bookService "bookreview-backend/internal/domains/book/service"

	"bookreview-backend/internal/domains/review"
	reviewHandler "bookreview-backend/internal/domains/review/handler"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	reviewService "bookreview-backend/internal/domains/review/service"

	"bookreview-backend/internal/domains/social"
	socialHandler "bookreview-backend/internal/domains/social/handler"
	socialRepo "bookreview-backend/internal/domains/social/repository"
	socialService "bookreview-backend/internal/domains/social/service"

	"bookreview-backend/internal/domains/user"
	userHandler "bookreview-backend/internal/domains/user/handler"
	userRepo "bookreview-backend/internal/domains/user/repository"
	userService "bookreview-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the whole process.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	GoogleBooks *provider.GoogleBooks
	OpenLibrary *provider.OpenLibrary

	BookRepo   book.Repository
	ReviewRepo review.Repository
	SocialRepo social.Repository
	UserRepo   user.Repository

	BookService   book.Service
	ReviewService review.Service
	SocialService social.Service
	UserService   user.Service

	BookHandler   *bookHandler.BookHandler
	ReviewHandler *reviewHandler.ReviewHandler
	SocialHandler *socialHandler.SocialHandler
	AuthHandler   *userHandler.AuthHandler
	UserHandler   *userHandler.UserHandler
	AdminHandler  *userHandler.AdminHandler
}

// NewContainer builds the full dependency graph. Initialization order is
// config, infrastructure, repositories, services, handlers; each layer
// only sees the layers before it.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)

	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c.Cache = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Ping(ctx); err != nil {
		// Cache is best-effort; the service degrades to direct provider
		// calls when Redis is down.
		logger.Warn("redis unavailable, continuing without cache", err)
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	c.GoogleBooks = provider.NewGoogleBooks(cfg.Provider.GoogleBooksURL)
	c.OpenLibrary = provider.NewOpenLibrary(cfg.Provider.OpenLibraryURL)

	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
	c.ReviewRepo = reviewRepo.NewPostgresRepository(c.DB.Pool)
	c.SocialRepo = socialRepo.NewPostgresRepository(c.DB.Pool)
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)

	c.BookService = bookService.NewService(c.BookRepo, c.GoogleBooks, c.OpenLibrary, c.Cache)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookRepo, c.GoogleBooks)
	c.SocialService = socialService.NewSocialService(c.SocialRepo)
	c.UserService = userService.NewUserService(c.UserRepo, c.BookRepo, c.GoogleBooks, c.SocialRepo, c.JWTManager)

	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.SocialHandler = socialHandler.NewSocialHandler(c.SocialService)
	c.AuthHandler = userHandler.NewAuthHandler(c.UserService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.AdminHandler = userHandler.NewAdminHandler(c.UserService)

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	return c, nil
}

// Cleanup releases infrastructure connections. Safe to call once during
// shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}

	if closer, ok := c.Cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close cache", err)
		}
	}
}
