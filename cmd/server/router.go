package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/books"
	"github.com/matheusmosca/bookstore-api/internal/config"
	"github.com/matheusmosca/bookstore-api/internal/forum"
	"github.com/matheusmosca/bookstore-api/internal/orders"
	"github.com/matheusmosca/bookstore-api/internal/stats"
	"github.com/matheusmosca/bookstore-api/internal/users"
)

type routerDeps struct {
	userTokens   *auth.TokenIssuer
	adminTokens  *auth.TokenIssuer
	bookHandler  *books.BookHandler
	userHandler  *users.UserHandler
	orderHandler *orders.OrderHandler
	forumHandler *forum.ForumHandler
	statsHandler *stats.Handler
}

// newRouter monta as rotas HTTP da API
func newRouter(cfg config.Config, deps routerDeps) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	requireAuth := auth.RequireAuth(deps.userTokens, deps.adminTokens)
	optionalAuth := auth.OptionalAuth(deps.userTokens, deps.adminTokens)
	requireAdmin := auth.RequireAdmin(deps.adminTokens)

	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", deps.userHandler.Register)
		authRoutes.POST("/login", deps.userHandler.Login)
		authRoutes.POST("/admin", deps.userHandler.AdminLogin)
		authRoutes.POST("/check-email", deps.userHandler.CheckEmail)
		authRoutes.GET("/profile/:email", requireAuth, deps.userHandler.GetProfile)
		authRoutes.PUT("/profile/:email", requireAuth, deps.userHandler.UpdateProfile)
		authRoutes.GET("/all-users", requireAdmin, deps.userHandler.ListAll)
		authRoutes.PUT("/update-role/:userId", requireAdmin, deps.userHandler.UpdateRole)
	}

	bookRoutes := r.Group("/api/books")
	{
		bookRoutes.GET("", deps.bookHandler.List)
		bookRoutes.GET("/:id", deps.bookHandler.Get)
		bookRoutes.POST("", requireAdmin, deps.bookHandler.Create)
		bookRoutes.PUT("/:id", requireAdmin, deps.bookHandler.Update)
		bookRoutes.DELETE("/:id", requireAdmin, deps.bookHandler.Delete)
	}

	orderRoutes := r.Group("/api/orders")
	{
		orderRoutes.POST("", optionalAuth, deps.orderHandler.Create)
		orderRoutes.GET("/email/:email", requireAuth, deps.orderHandler.GetByEmail)
		orderRoutes.GET("/mine", requireAuth, deps.orderHandler.GetMine)
		orderRoutes.GET("/all", requireAdmin, deps.orderHandler.GetAll)
		orderRoutes.GET("/:id", requireAuth, deps.orderHandler.GetByID)
		orderRoutes.PUT("/:id/status", requireAdmin, deps.orderHandler.UpdateStatus)
		orderRoutes.POST("/:id/cancel", requireAuth, deps.orderHandler.Cancel)
	}

	forumRoutes := r.Group("/api/forum")
	{
		forumRoutes.GET("", deps.forumHandler.List)
		forumRoutes.GET("/:id", deps.forumHandler.Get)
		forumRoutes.POST("", requireAuth, deps.forumHandler.Create)
		forumRoutes.PUT("/:id", requireAuth, deps.forumHandler.Update)
		forumRoutes.DELETE("/:id", requireAuth, deps.forumHandler.Delete)
		forumRoutes.POST("/:id/comments", requireAuth, deps.forumHandler.AddComment)
		forumRoutes.POST("/:id/like", requireAuth, deps.forumHandler.ToggleLike)
	}

	r.GET("/api/admin", requireAdmin, deps.statsHandler.Dashboard)

	return r
}
