package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/domains/user"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupReviewRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.AuthHandler.Register)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/refresh", c.AuthHandler.Refresh)
	}
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("/search", c.BookHandler.Search)
		books.GET("", c.BookHandler.List)
		books.GET("/author/:name", c.BookHandler.AuthorDetails)
		books.GET("/:externalId", middleware.OptionalAuth(c.JWTManager), c.BookHandler.Get)
		books.GET("/:externalId/reviews", middleware.OptionalAuth(c.JWTManager), c.ReviewHandler.ListByBook)
		books.POST("/open-library/:key", middleware.AuthMiddleware(c.JWTManager), c.BookHandler.Import)
	}
}

func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/reviews")
	{
		reviews.GET("", middleware.OptionalAuth(c.JWTManager), c.ReviewHandler.List)
		reviews.GET("/:id", middleware.OptionalAuth(c.JWTManager), c.ReviewHandler.Get)

		authed := reviews.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("", c.ReviewHandler.Create)
			authed.PUT("/:id", c.ReviewHandler.Update)
			authed.DELETE("/:id", c.ReviewHandler.Delete)
			authed.POST("/:id/like", c.ReviewHandler.Like)
			authed.DELETE("/:id/like", c.ReviewHandler.Unlike)
			authed.POST("/:id/toggle-like", c.ReviewHandler.ToggleLike)
		}
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	{
		me := users.Group("/me")
		me.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			me.GET("", c.UserHandler.Me)
			me.PUT("", c.UserHandler.UpdateMe)
			me.DELETE("", c.UserHandler.DeleteMe)
			me.GET("/reading-list", c.UserHandler.ReadingList)
			me.POST("/reading-list/:externalId", c.UserHandler.AddToReadingList)
			me.DELETE("/reading-list/:externalId", c.UserHandler.RemoveFromReadingList)
		}

		users.GET("/:id", middleware.OptionalAuth(c.JWTManager), c.UserHandler.Profile)
		users.GET("/:id/reviews", middleware.OptionalAuth(c.JWTManager), c.ReviewHandler.ListByUser)
		users.GET("/:id/reading-list", c.UserHandler.UserReadingList)
		users.GET("/:id/followers", c.SocialHandler.Followers)
		users.GET("/:id/following", c.SocialHandler.Following)
		users.POST("/:id/follow", middleware.AuthMiddleware(c.JWTManager), c.SocialHandler.Follow)
		users.DELETE("/:id/follow", middleware.AuthMiddleware(c.JWTManager), c.SocialHandler.Unfollow)
	}
}

func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		moderation := admin.Group("")
		moderation.Use(middleware.RequireRoles(user.RoleAdmin, user.RoleModerator))
		{
			moderation.GET("/users", c.AdminHandler.ListUsers)
			moderation.GET("/users/:id", c.AdminHandler.GetUser)
			moderation.POST("/users/:id/ban", c.AdminHandler.Ban)
			moderation.POST("/users/:id/unban", c.AdminHandler.Unban)
		}

		adminOnly := admin.Group("")
		adminOnly.Use(middleware.RequireRoles(user.RoleAdmin))
		{
			adminOnly.POST("/users/:id/promote", c.AdminHandler.Promote)
			adminOnly.POST("/users/:id/demote", c.AdminHandler.Demote)
			adminOnly.PUT("/users/:id", c.AdminHandler.UpdateUser)
			adminOnly.DELETE("/users/:id", c.AdminHandler.Delete)
		}
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "ok"
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			dbStatus = "unavailable"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			cacheStatus = "unavailable"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
