package entities

import (
	"database/sql"
	"time"
)

// Chapter is a themed, QR-addressable bucket of testimonies.
type Chapter struct {
	ID                 int            `json:"id" db:"id"`
	Title              string         `json:"title" db:"title"`
	Description        sql.NullString `json:"description" db:"description"`
	Category           sql.NullString `json:"category" db:"category"`
	QRCode             sql.NullString `json:"qrCode" db:"qr_code"`
	YoutubePlaylistID  sql.NullString `json:"youtubePlaylistId" db:"youtube_playlist_id"`
	YoutubePlaylistURL sql.NullString `json:"youtubePlaylistUrl" db:"youtube_playlist_url"`
	CreatedAt          time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" db:"updated_at"`
}

// CreateChapterDTO admin chapter creation body.
type CreateChapterDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ChapterResponse is the public JSON shape of a chapter.
type ChapterResponse struct {
	ID                 int       `json:"id"`
	Title              string    `json:"title"`
	Description        *string   `json:"description"`
	Category           *string   `json:"category"`
	QRCode             *string   `json:"qrCode"`
	YoutubePlaylistID  *string   `json:"youtubePlaylistId"`
	YoutubePlaylistURL *string   `json:"youtubePlaylistUrl"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ToResponse converts a row into its JSON shape.
func (c Chapter) ToResponse() ChapterResponse {
	return ChapterResponse{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        nullStr(c.Description),
		Category:           nullStr(c.Category),
		QRCode:             nullStr(c.QRCode),
		YoutubePlaylistID:  nullStr(c.YoutubePlaylistID),
		YoutubePlaylistURL: nullStr(c.YoutubePlaylistURL),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
