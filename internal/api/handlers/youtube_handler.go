package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/services"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// YouTubeHandler handles host integration endpoints: OAuth, channel
// sync, channel switching and cleanup.
type YouTubeHandler struct {
	client            *youtube.Client
	tokens            *services.TokenStore
	channelManager    *services.ChannelManager
	syncService       *services.SyncService
	moderationService *services.ModerationService
	log               logger.Logger
}

// NewYouTubeHandler creates a YouTube handler.
func NewYouTubeHandler(client *youtube.Client, tokens *services.TokenStore, channelManager *services.ChannelManager, syncService *services.SyncService, moderationService *services.ModerationService, log logger.Logger) *YouTubeHandler {
	return &YouTubeHandler{
		client:            client,
		tokens:            tokens,
		channelManager:    channelManager,
		syncService:       syncService,
		moderationService: moderationService,
		log:               log,
	}
}

// StartAuth returns the OAuth consent URL the admin frontend opens.
func (h *YouTubeHandler) StartAuth(c *gin.Context) {
	state := uuid.New().String()
	c.JSON(http.StatusOK, gin.H{"authUrl": h.client.AuthURL(state)})
}

// Callback handles the OAuth redirect. The user lands back on the
// upload page with a success or error flag; tokens never reach the
// browser.
func (h *YouTubeHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.log.WithField("error", c.Query("error")).Warn("OAuth callback without code")
		c.Redirect(http.StatusFound, "/upload?youtube=error")
		return
	}

	tokens, err := h.client.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.log.WithError(err).Error("OAuth code exchange failed")
		c.Redirect(http.StatusFound, "/upload?youtube=error")
		return
	}

	h.tokens.Set(tokens)
	c.Redirect(http.StatusFound, "/upload?youtube=success")
}

// AuthStatus reports whether usable host tokens are stored.
func (h *YouTubeHandler) AuthStatus(c *gin.Context) {
	_, ok := h.tokens.Get()
	c.JSON(http.StatusOK, gin.H{
		"authorized": ok && !h.tokens.Expired(),
	})
}

// Sync reconciles the local database against the active channel.
func (h *YouTubeHandler) Sync(c *gin.Context) {
	channel := h.channelManager.Current()

	result, err := h.syncService.SyncChannel(c.Request.Context(), channel.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Sync completed",
		"channel": channel,
		"result":  result,
	})
}

// CleanupInvalid deletes records whose host linkage is malformed.
func (h *YouTubeHandler) CleanupInvalid(c *gin.Context) {
	deleted, err := h.moderationService.CleanupInvalid()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Cleanup completed",
		"deletedCount": deleted,
	})
}

// ChangeChannelRequest body of a channel switch.
type ChangeChannelRequest struct {
	Channel string `json:"channel" binding:"required"`
}

// ChangeChannel switches the active channel and syncs against it.
func (h *YouTubeHandler) ChangeChannel(c *gin.Context) {
	var req ChangeChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Channel reference is required",
			"code":    "invalid_input",
		})
		return
	}

	result, err := h.channelManager.Switch(c.Request.Context(), req.Channel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ChannelInfo returns the active channel's details from the host.
func (h *YouTubeHandler) ChannelInfo(c *gin.Context) {
	channel := h.channelManager.Current()

	info, err := h.client.GetChannel(c.Request.Context(), channel.ID)
	if err != nil {
		respondError(c, services.NewExternalHostError("channel_info_failed",
			"fetching channel info", youtube.NeedsReauth(err), err))
		return
	}
	c.JSON(http.StatusOK, info)
}

// Playlists lists the authorized account's playlists.
func (h *YouTubeHandler) Playlists(c *gin.Context) {
	tokens, ok := h.tokens.Get()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message":   "YouTube authorization required",
			"code":      "youtube_auth_required",
			"needsAuth": true,
		})
		return
	}

	playlists, err := h.client.ListPlaylists(c.Request.Context(), tokens)
	if err != nil {
		respondError(c, services.NewExternalHostError("playlist_list_failed",
			"listing playlists", youtube.NeedsReauth(err), err))
		return
	}
	c.JSON(http.StatusOK, playlists)
}
