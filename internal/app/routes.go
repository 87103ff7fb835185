package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/modules/auth/auth"
	"github.com/inkpress/core/internal/modules/auth/user"
	"github.com/inkpress/core/internal/modules/content/category"
	"github.com/inkpress/core/internal/modules/content/comment"
	"github.com/inkpress/core/internal/modules/content/post"
	"github.com/inkpress/core/internal/modules/content/subscribe"
	"github.com/inkpress/core/internal/modules/content/tag"
	"github.com/inkpress/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	authMW := middleware.Auth(a.registry, a.ledger)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"msg": "Method not allowed"})
	})

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to our Site")
	})

	api := r.Group("/api")

	// Per-IP request throttling (requires Redis).
	api.Use(middleware.RateLimit(a.rc.Raw()))

	// Auth & users
	authSvc := auth.NewService(a.db, a.registry, a.ledger, a.cfg.TokenTTL, a.logger)
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)
	user.NewHandler(user.NewService(a.db)).RegisterRoutes(api, authMW)

	// Content
	notifier := subscribe.NewNotifier(a.db, a.sender, a.queue, a.cfg.SiteURL, a.logger)
	post.NewHandler(post.NewService(a.db), notifier).RegisterRoutes(api, authMW)
	category.NewHandler(category.NewService(a.db)).RegisterRoutes(api, authMW)
	tag.NewHandler(a.db).RegisterRoutes(api)
	comment.NewHandler(comment.NewService(a.db)).RegisterRoutes(api, authMW)
	subscribe.NewHandler(a.db).RegisterRoutes(api, authMW)
}
