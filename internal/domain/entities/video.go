package entities

import (
	"database/sql"
	"mime/multipart"
	"time"
)

// VideoStatus moderation state of a testimony.
type VideoStatus string

const (
	VideoStatusPending  VideoStatus = "pending"
	VideoStatusApproved VideoStatus = "approved"
	VideoStatusRejected VideoStatus = "rejected"
)

// ValidVideoStatus reports whether s is one of the known moderation states.
func ValidVideoStatus(s string) bool {
	switch VideoStatus(s) {
	case VideoStatusPending, VideoStatusApproved, VideoStatusRejected:
		return true
	}
	return false
}

// Unspecified is the placeholder stored in demographic columns of videos
// imported from the host channel. Statistics queries group by these
// columns, so NULL is never stored.
const Unspecified = "Não informado"

// Video is a testimony record. A non-null youtube_id means the video is
// live on the public channel.
type Video struct {
	ID         int            `json:"id" db:"id"`
	YoutubeID  sql.NullString `json:"youtubeId" db:"youtube_id"`
	YoutubeURL sql.NullString `json:"youtubeUrl" db:"youtube_url"`
	Title      sql.NullString `json:"title" db:"title"`
	Duration   sql.NullInt64  `json:"duration" db:"duration"`
	ChapterID  sql.NullInt64  `json:"chapterId" db:"chapter_id"`

	AgeRange        string         `json:"ageRange" db:"age_range"`
	Gender          string         `json:"gender" db:"gender"`
	City            string         `json:"city" db:"city"`
	State           string         `json:"state" db:"state"`
	Country         string         `json:"country" db:"country"`
	SkinTone        string         `json:"skinTone" db:"skin_tone"`
	RacismType      string         `json:"racismType" db:"racism_type"`
	RacismTypeOther sql.NullString `json:"racismTypeOther" db:"racism_type_other"`

	AuthorName         sql.NullString `json:"authorName" db:"author_name"`
	AllowPublicDisplay bool           `json:"allowPublicDisplay" db:"allow_public_display"`
	AllowFutureContact bool           `json:"allowFutureContact" db:"allow_future_contact"`

	Status          VideoStatus    `json:"status" db:"status"`
	RejectionReason sql.NullString `json:"rejectionReason" db:"rejection_reason"`
	ModeratedBy     sql.NullString `json:"moderatedBy" db:"moderated_by"`
	ModeratedAt     sql.NullTime   `json:"moderatedAt" db:"moderated_at"`

	FilePath sql.NullString `json:"filePath" db:"file_path"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SubmissionMeta is the demographic payload of a public submission.
type SubmissionMeta struct {
	Title              string `form:"title" json:"title"`
	ChapterID          int    `form:"chapterId" json:"chapterId"`
	AgeRange           string `form:"ageRange" json:"ageRange" binding:"required"`
	Gender             string `form:"gender" json:"gender" binding:"required"`
	City               string `form:"city" json:"city" binding:"required"`
	State              string `form:"state" json:"state" binding:"required"`
	Country            string `form:"country" json:"country"`
	SkinTone           string `form:"skinTone" json:"skinTone" binding:"required"`
	RacismType         string `form:"racismType" json:"racismType" binding:"required"`
	RacismTypeOther    string `form:"racismTypeOther" json:"racismTypeOther"`
	AuthorName         string `form:"authorName" json:"authorName"`
	AllowPublicDisplay bool   `form:"allowPublicDisplay" json:"allowPublicDisplay"`
	AllowFutureContact bool   `form:"allowFutureContact" json:"allowFutureContact"`
}

// SubmissionPayload is the tagged submission variant, built once at the
// API boundary. File is nil for metadata-only submissions; downstream
// code dispatches on HasUpload instead of re-checking for file presence.
type SubmissionPayload struct {
	Meta SubmissionMeta
	File *multipart.FileHeader
}

// HasUpload reports whether the submission carries a raw video file.
func (p SubmissionPayload) HasUpload() bool {
	return p.File != nil
}

// VideoFilters narrows a video listing.
type VideoFilters struct {
	ChapterID  int
	Status     string
	RacismType string
	Location   string
	Search     string
	Category   string
	Limit      int
	Offset     int
}

// UpdateVideoStatusDTO admin moderation request body.
type UpdateVideoStatusDTO struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejectionReason"`
}

// VideoResponse is the public JSON shape of a testimony.
type VideoResponse struct {
	ID                 int        `json:"id"`
	YoutubeID          *string    `json:"youtubeId"`
	YoutubeURL         *string    `json:"youtubeUrl"`
	Title              *string    `json:"title"`
	Duration           *int64     `json:"duration"`
	ChapterID          *int64     `json:"chapterId"`
	AgeRange           string     `json:"ageRange"`
	Gender             string     `json:"gender"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	Country            string     `json:"country"`
	SkinTone           string     `json:"skinTone"`
	RacismType         string     `json:"racismType"`
	RacismTypeOther    *string    `json:"racismTypeOther,omitempty"`
	AuthorName         *string    `json:"authorName,omitempty"`
	AllowPublicDisplay bool       `json:"allowPublicDisplay"`
	AllowFutureContact bool       `json:"allowFutureContact"`
	Status             string     `json:"status"`
	RejectionReason    *string    `json:"rejectionReason,omitempty"`
	ModeratedBy        *string    `json:"moderatedBy,omitempty"`
	ModeratedAt        *time.Time `json:"moderatedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ToResponse converts a row into its JSON shape.
func (v Video) ToResponse() VideoResponse {
	return VideoResponse{
		ID:                 v.ID,
		YoutubeID:          nullStr(v.YoutubeID),
		YoutubeURL:         nullStr(v.YoutubeURL),
		Title:              nullStr(v.Title),
		Duration:           nullInt(v.Duration),
		ChapterID:          nullInt(v.ChapterID),
		AgeRange:           v.AgeRange,
		Gender:             v.Gender,
		City:               v.City,
		State:              v.State,
		Country:            v.Country,
		SkinTone:           v.SkinTone,
		RacismType:         v.RacismType,
		RacismTypeOther:    nullStr(v.RacismTypeOther),
		AuthorName:         nullStr(v.AuthorName),
		AllowPublicDisplay: v.AllowPublicDisplay,
		AllowFutureContact: v.AllowFutureContact,
		Status:             string(v.Status),
		RejectionReason:    nullStr(v.RejectionReason),
		ModeratedBy:        nullStr(v.ModeratedBy),
		ModeratedAt:        nullTime(v.ModeratedAt),
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullInt(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	return &i.Int64
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
