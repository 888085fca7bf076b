package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blsantos/InfiniteVideoWall/internal/api/handlers"
	"github.com/blsantos/InfiniteVideoWall/internal/api/middleware"
	"github.com/blsantos/InfiniteVideoWall/internal/auth"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/services"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// RouterDeps everything the router needs wired in.
type RouterDeps struct {
	JWTService        *auth.JWTService
	Users             repositories.UserRepository
	AuthService       *services.AuthService
	VideoService      *services.VideoService
	ModerationService *services.ModerationService
	ChapterService    *services.ChapterService
	StatsService      *services.StatsService
	SyncService       *services.SyncService
	ChannelManager    *services.ChannelManager
	TokenStore        *services.TokenStore
	HostClient        *youtube.Client
	Log               logger.Logger
}

// NewRouter creates and configures the API routes.
func NewRouter(deps RouterDeps) http.Handler {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	videosHandler := handlers.NewVideosHandler(deps.VideoService, deps.ModerationService)
	chaptersHandler := handlers.NewChaptersHandler(deps.ChapterService)
	statsHandler := handlers.NewStatsHandler(deps.StatsService)
	youtubeHandler := handlers.NewYouTubeHandler(deps.HostClient, deps.TokenStore, deps.ChannelManager, deps.SyncService, deps.ModerationService, deps.Log)

	// QR code scans land here.
	router.GET("/capitulo/:id", chaptersHandler.Redirect)

	// Public routes: the wall, submission, chapters and statistics.
	public := router.Group("/api")
	{
		public.POST("/auth/login", authHandler.Login)

		public.GET("/videos", videosHandler.FindAll)
		public.GET("/videos/:id", videosHandler.FindOne)
		public.POST("/videos", videosHandler.Submit)

		public.GET("/chapters", chaptersHandler.FindAll)
		public.GET("/chapters/:id", chaptersHandler.FindOne)

		public.GET("/statistics/overview", statsHandler.Overview)
		public.GET("/statistics/location", statsHandler.ByLocation)
		public.GET("/statistics/racism-type", statsHandler.ByRacismType)
		public.GET("/statistics/age", statsHandler.ByAge)
		public.GET("/statistics/gender", statsHandler.ByGender)

		// The OAuth provider redirects the browser here; the session
		// token is not available on that request.
		public.GET("/youtube/callback", youtubeHandler.Callback)
	}

	// Authenticated routes.
	authed := router.Group("/api")
	authed.Use(middleware.Auth(deps.JWTService))
	{
		authed.GET("/auth/user", authHandler.CurrentUser)
	}

	// Admin routes. The admin flag is re-read from the database.
	admin := router.Group("/api")
	admin.Use(middleware.Auth(deps.JWTService))
	admin.Use(middleware.AdminOnly(deps.Users))
	{
		admin.GET("/admin/videos", videosHandler.FindAllAdmin)
		admin.PATCH("/admin/videos/:id/status", videosHandler.UpdateStatus)
		admin.DELETE("/videos/:id", videosHandler.Delete)

		admin.POST("/chapters", chaptersHandler.Create)
		admin.POST("/chapters/:id/qr-code", chaptersHandler.QRCode)
		admin.POST("/chapters/:id/playlist", chaptersHandler.CreatePlaylist)

		admin.POST("/youtube/auth", youtubeHandler.StartAuth)
		admin.GET("/youtube/auth/status", youtubeHandler.AuthStatus)
		admin.POST("/youtube/sync", youtubeHandler.Sync)
		admin.POST("/youtube/cleanup-invalid", youtubeHandler.CleanupInvalid)
		admin.POST("/youtube/change-channel", youtubeHandler.ChangeChannel)
		admin.GET("/youtube/channel-info", youtubeHandler.ChannelInfo)
		admin.GET("/youtube/playlists", youtubeHandler.Playlists)
	}

	return router
}
