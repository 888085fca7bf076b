package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/services"
)

// ChaptersHandler handles chapter API requests.
type ChaptersHandler struct {
	chapterService *services.ChapterService
}

// NewChaptersHandler creates a chapters handler.
func NewChaptersHandler(chapterService *services.ChapterService) *ChaptersHandler {
	return &ChaptersHandler{chapterService: chapterService}
}

// FindAll lists all chapters.
func (h *ChaptersHandler) FindAll(c *gin.Context) {
	chapters, err := h.chapterService.FindAll()
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]entities.ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		responses = append(responses, chapter.ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// FindOne fetches a single chapter.
func (h *ChaptersHandler) FindOne(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid chapter ID", "code": "invalid_id"})
		return
	}

	chapter, err := h.chapterService.FindOne(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter.ToResponse())
}

// Create adds a new chapter and generates its QR code.
func (h *ChaptersHandler) Create(c *gin.Context) {
	var dto entities.CreateChapterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("Invalid chapter: %s", err.Error()),
			"code":    "invalid_input",
		})
		return
	}

	chapter, err := h.chapterService.Create(dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter.ToResponse())
}

// QRCode regenerates and returns the chapter's QR code.
func (h *ChaptersHandler) QRCode(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid chapter ID", "code": "invalid_id"})
		return
	}

	chapter, err := h.chapterService.GenerateQRCode(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"qrCode": chapter.QRCode.String,
		"url":    h.chapterService.ChapterURL(id),
	})
}

// CreatePlaylist creates and links a host playlist for the chapter.
func (h *ChaptersHandler) CreatePlaylist(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid chapter ID", "code": "invalid_id"})
		return
	}

	chapter, err := h.chapterService.CreatePlaylist(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter.ToResponse())
}

// Redirect sends a QR code scan to the chapter's public page.
func (h *ChaptersHandler) Redirect(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Chapter not found", "code": "not_found"})
		return
	}

	if _, err := h.chapterService.FindOne(id); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/#/chapter/%d", id))
}
