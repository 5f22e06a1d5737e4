package httptransport

import (
	"log/slog"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/handler"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Artist  *handler.AuthHandler
	User    *handler.AuthHandler
	Listing *handler.ListingHandler
	Relay   *handler.RelayHandler
}

type RouterConfig struct {
	CORSOrigins []string
	// AuthLimiter throttles register and login per client IP. Nil disables throttling.
	AuthLimiter *middleware.ClientRateLimiter
}

func NewRouter(logger *slog.Logger, h Handlers, authn middleware.Authenticator, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(authn, logger)
	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.AuthLimiter != nil {
		throttle = middleware.RateLimit(cfg.AuthLimiter)
	}

	// Public artist routes
	artist := r.Group("/artist")
	artist.POST("/register", throttle, h.Artist.Register)
	artist.POST("/login", throttle, h.Artist.Login)
	artist.GET("/loggedIn", h.Artist.LoggedIn)
	artist.GET("/show", h.Listing.List)
	artist.GET("/show/:id", h.Listing.Show)
	artist.POST("/upload", h.Relay.Upload)
	artist.GET("/map/:id", h.Relay.Map)

	// Protected artist routes
	artistOnly := artist.Group("", authMW, middleware.RequireRole(domain.RoleArtist))
	artistOnly.GET("/logout", h.Artist.Logout)
	artistOnly.GET("/getArtist", h.Artist.Profile)
	artistOnly.POST("/create", h.Listing.Create)
	artistOnly.PUT("/update/:id", h.Listing.Update)
	artistOnly.DELETE("/delete/:id", h.Listing.Delete)
	artistOnly.GET("/artOwner/:id", h.Listing.ArtOwner)

	user := r.Group("/user")
	user.POST("/register", throttle, h.User.Register)
	user.POST("/login", throttle, h.User.Login)

	userOnly := user.Group("", authMW, middleware.RequireRole(domain.RoleUser))
	userOnly.GET("/logout", h.User.Logout)
	userOnly.GET("/getUser", h.User.Profile)
	userOnly.POST("/save/:id", h.Listing.Save)
	userOnly.DELETE("/save/:id", h.Listing.Unsave)

	return r
}
