package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/services"
)

// VideosHandler handles testimony API requests.
type VideosHandler struct {
	videoService      *services.VideoService
	moderationService *services.ModerationService
}

// NewVideosHandler creates a videos handler.
func NewVideosHandler(videoService *services.VideoService, moderationService *services.ModerationService) *VideosHandler {
	return &VideosHandler{
		videoService:      videoService,
		moderationService: moderationService,
	}
}

// parseFilters reads listing filters from query parameters.
func parseFilters(c *gin.Context) entities.VideoFilters {
	filters := entities.VideoFilters{
		Status:     c.Query("status"),
		RacismType: c.Query("racismType"),
		Location:   c.Query("location"),
		Search:     c.Query("search"),
		Category:   c.Query("category"),
	}
	if chapterID, err := strconv.Atoi(c.Query("chapterId")); err == nil {
		filters.ChapterID = chapterID
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filters.Offset = offset
	}
	return filters
}

// FindAll lists testimonies for the public wall.
func (h *VideosHandler) FindAll(c *gin.Context) {
	filters := parseFilters(c)
	// Without an explicit status filter the wall shows approved testimonies.
	if filters.Status == "" {
		filters.Status = string(entities.VideoStatusApproved)
	}

	videos, err := h.videoService.FindAll(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]entities.VideoResponse, 0, len(videos))
	for _, v := range videos {
		responses = append(responses, v.ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// FindAllAdmin lists testimonies in any moderation state.
func (h *VideosHandler) FindAllAdmin(c *gin.Context) {
	videos, err := h.videoService.FindAll(parseFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]entities.VideoResponse, 0, len(videos))
	for _, v := range videos {
		responses = append(responses, v.ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// FindOne fetches a single testimony.
func (h *VideosHandler) FindOne(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid video ID", "code": "invalid_id"})
		return
	}

	video, err := h.videoService.FindOne(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video.ToResponse())
}

// Submit accepts a public testimony submission. The request is either
// plain JSON metadata or a multipart form with an optional "video" file.
func (h *VideosHandler) Submit(c *gin.Context) {
	var meta entities.SubmissionMeta
	if err := c.ShouldBind(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("Invalid submission: %s", err.Error()),
			"code":    "invalid_input",
		})
		return
	}

	payload := entities.SubmissionPayload{Meta: meta}
	if file, err := c.FormFile("video"); err == nil {
		payload.File = file
	}

	video, err := h.videoService.Submit(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video.ToResponse())
}

// UpdateStatus applies a moderation decision.
func (h *VideosHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid video ID", "code": "invalid_id"})
		return
	}

	var dto entities.UpdateVideoStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("Invalid moderation request: %s", err.Error()),
			"code":    "invalid_input",
		})
		return
	}

	video, err := h.moderationService.UpdateStatus(id, dto, c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video.ToResponse())
}

// Delete removes a testimony record.
func (h *VideosHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid video ID", "code": "invalid_id"})
		return
	}

	if err := h.moderationService.DeleteVideo(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}
