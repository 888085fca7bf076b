package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/messaging"
	"github.com/blsantos/InfiniteVideoWall/internal/storage"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// Video formats the host accepts.
var allowedVideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
}

// HostUploader is the adapter surface the submission pipeline needs.
type HostUploader interface {
	UploadVideo(ctx context.Context, localPath string, meta youtube.UploadMetadata, tokens *youtube.Tokens) (*youtube.UploadResult, error)
}

// VideoService handles public testimony submission and listing.
type VideoService struct {
	videos    repositories.VideoRepository
	media     *storage.MediaStore
	host      HostUploader
	tokens    *TokenStore
	publisher messaging.Publisher
	log       logger.Logger

	maxUploadBytes int64
}

// NewVideoService creates a video service.
func NewVideoService(videos repositories.VideoRepository, media *storage.MediaStore, host HostUploader, tokens *TokenStore, publisher messaging.Publisher, log logger.Logger, maxUploadMB int64) *VideoService {
	return &VideoService{
		videos:         videos,
		media:          media,
		host:           host,
		tokens:         tokens,
		publisher:      publisher,
		log:            log,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}
}

// FindAll lists testimonies with filters.
func (s *VideoService) FindAll(filters entities.VideoFilters) ([]entities.Video, error) {
	videos, err := s.videos.FindAll(filters)
	if err != nil {
		return nil, NewDatabaseError("listing videos", err)
	}
	return videos, nil
}

// FindOne fetches a single testimony.
func (s *VideoService) FindOne(id int) (entities.Video, error) {
	video, err := s.videos.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return entities.Video{}, NewNotFoundError("video_not_found", "video not found")
		}
		return entities.Video{}, NewDatabaseError("fetching video", err)
	}
	return video, nil
}

// Submit processes a public submission. The payload variant was decided
// once at the API boundary: metadata-only submissions go straight to the
// database, submissions with an upload are staged, pushed to the host,
// and only then persisted. Every new testimony starts pending. On any
// failure after the file was staged, the staged file is removed.
func (s *VideoService) Submit(ctx context.Context, payload entities.SubmissionPayload) (entities.Video, error) {
	meta := payload.Meta
	if meta.Country == "" {
		meta.Country = "Brasil"
	}

	video := entities.Video{
		Title:              nullIfEmpty(meta.Title),
		AgeRange:           meta.AgeRange,
		Gender:             meta.Gender,
		City:               meta.City,
		State:              meta.State,
		Country:            meta.Country,
		SkinTone:           meta.SkinTone,
		RacismType:         meta.RacismType,
		RacismTypeOther:    nullIfEmpty(meta.RacismTypeOther),
		AuthorName:         nullIfEmpty(meta.AuthorName),
		AllowPublicDisplay: meta.AllowPublicDisplay,
		AllowFutureContact: meta.AllowFutureContact,
		Status:             entities.VideoStatusPending,
	}
	if meta.ChapterID > 0 {
		video.ChapterID = sql.NullInt64{Int64: int64(meta.ChapterID), Valid: true}
	}

	if payload.HasUpload() {
		if err := s.pushUpload(ctx, payload, &video); err != nil {
			return entities.Video{}, err
		}
	}

	created, err := s.videos.Create(video)
	if err != nil {
		return entities.Video{}, NewDatabaseError("creating video", err)
	}

	if err := s.publisher.SendEvent(messaging.EventTypeVideoSubmitted, messaging.VideoSubmittedPayload{
		ID:         created.ID,
		YoutubeID:  created.YoutubeID.String,
		RacismType: created.RacismType,
		State:      created.State,
		HasUpload:  payload.HasUpload(),
	}); err != nil {
		s.log.WithError(err).Warn("publishing submission event failed")
	}

	return created, nil
}

// pushUpload stages the raw file, optionally archives it, and uploads it
// to the host, filling the video's host linkage on success.
func (s *VideoService) pushUpload(ctx context.Context, payload entities.SubmissionPayload, video *entities.Video) error {
	file := payload.File

	if file.Size > s.maxUploadBytes {
		return NewValidationError("file_too_large", "video file exceeds the upload size limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedVideoExtensions[ext] {
		return NewValidationError("unsupported_format", "unsupported video format")
	}

	tokens, ok := s.tokens.Get()
	if !ok {
		return &ServiceError{
			Type:      ErrTypeValidation,
			Code:      "youtube_auth_required",
			Message:   "YouTube authorization required before uploading",
			NeedsAuth: true,
		}
	}

	stagedPath, err := s.media.Stage(file)
	if err != nil {
		return &ServiceError{Type: ErrTypeStorage, Code: "staging_failed", Message: "staging upload", Err: err}
	}
	// A failed submission never leaves the staged file behind.
	cleanup := func() {
		if err := s.media.Discard(stagedPath); err != nil {
			s.log.WithError(err).WithField("path", stagedPath).Warn("removing staged file failed")
		}
	}

	if s.media.ArchiveEnabled() {
		objectKey, err := s.media.Archive(ctx, stagedPath, file.Header.Get("Content-Type"))
		if err != nil {
			// The archive is best-effort; the upload still proceeds.
			s.log.WithError(err).Warn("archiving raw upload failed")
		} else {
			video.FilePath = sql.NullString{String: objectKey, Valid: true}
		}
	}

	meta := payload.Meta
	title := meta.Title
	if title == "" {
		title = "Relato de " + meta.City + ", " + meta.State
	}

	result, err := s.host.UploadVideo(ctx, stagedPath, youtube.UploadMetadata{
		Title:         title,
		Description:   "Relato compartilhado em reparacoeshistoricas.org",
		Tags:          []string{"racismo", "relato", "experiencia", "brasil", meta.RacismType},
		PrivacyStatus: "unlisted",
	}, tokens)
	if err != nil {
		cleanup()
		return NewExternalHostError("youtube_upload_failed", "uploading video to YouTube",
			youtube.NeedsReauth(err), err)
	}

	video.YoutubeID = sql.NullString{String: result.ExternalID, Valid: true}
	video.YoutubeURL = sql.NullString{String: result.URL, Valid: true}

	cleanup()
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
