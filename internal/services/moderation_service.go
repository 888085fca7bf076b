package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/messaging"
)

// ModerationService drives the pending/approved/rejected state machine
// and the invalid-record cleanup.
type ModerationService struct {
	videos    repositories.VideoRepository
	publisher messaging.Publisher
	log       logger.Logger
}

// NewModerationService creates a moderation service.
func NewModerationService(videos repositories.VideoRepository, publisher messaging.Publisher, log logger.Logger) *ModerationService {
	return &ModerationService{
		videos:    videos,
		publisher: publisher,
		log:       log,
	}
}

// UpdateStatus applies a moderation transition. Rejection requires a
// non-blank reason; approval clears any prior reason. Every transition
// stamps the acting moderator and the moderation time. Re-transitions
// between approved and rejected are permitted; concurrent transitions
// on the same video are last-write-wins.
func (s *ModerationService) UpdateStatus(videoID int, dto entities.UpdateVideoStatusDTO, moderatorID string) (entities.Video, error) {
	if !entities.ValidVideoStatus(dto.Status) {
		return entities.Video{}, NewValidationError("invalid_status", "status must be pending, approved or rejected")
	}
	status := entities.VideoStatus(dto.Status)

	reason := sql.NullString{}
	if status == entities.VideoStatusRejected {
		trimmed := strings.TrimSpace(dto.RejectionReason)
		if trimmed == "" {
			return entities.Video{}, NewValidationError("missing_rejection_reason", "a rejection requires a non-empty reason")
		}
		reason = sql.NullString{String: trimmed, Valid: true}
	}
	// Approval and a reset to pending both clear rejection_reason, so a
	// re-approved testimony never keeps a stale reason. A reset to
	// pending also clears the moderator columns.
	moderator := sql.NullString{String: moderatorID, Valid: status != entities.VideoStatusPending}

	video, err := s.videos.UpdateStatus(videoID, status, reason, moderator)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return entities.Video{}, NewNotFoundError("video_not_found", "video not found")
		}
		return entities.Video{}, NewDatabaseError("updating video status", err)
	}

	if err := s.publisher.SendEvent(messaging.EventTypeVideoModerated, messaging.VideoModeratedPayload{
		ID:          video.ID,
		Status:      string(video.Status),
		ModeratedBy: moderatorID,
	}); err != nil {
		s.log.WithError(err).Warn("publishing moderation event failed")
	}

	return video, nil
}

// malformedSignature marks youtube ids/urls produced by a buggy prior
// integration that stringified response objects instead of ids.
const malformedSignature = "[object Object]"

// invalidHostLinkage reports whether a row carries the malformed
// serialization signature: external id absent or object-shaped, or
// external URL absent or containing "[object Object]".
func invalidHostLinkage(v entities.Video) bool {
	if !v.YoutubeID.Valid || v.YoutubeID.String == "" {
		return true
	}
	if strings.Contains(v.YoutubeID.String, "kind") || strings.Contains(v.YoutubeID.String, malformedSignature) {
		return true
	}
	if !v.YoutubeURL.Valid || v.YoutubeURL.String == "" {
		return true
	}
	return strings.Contains(v.YoutubeURL.String, malformedSignature)
}

// CleanupInvalid scans every video and bulk-deletes the rows whose host
// linkage matches the malformed-serialization signature. This is a
// destructive, unreviewed delete with no dry-run and no undo; it also
// removes metadata-only submissions that never had host linkage, which
// is the reference behavior. Returns the number of rows deleted.
func (s *ModerationService) CleanupInvalid() (int, error) {
	videos, err := s.videos.FindAll(entities.VideoFilters{})
	if err != nil {
		return 0, NewDatabaseError("listing videos for cleanup", err)
	}

	var invalid []int
	for _, v := range videos {
		if invalidHostLinkage(v) {
			invalid = append(invalid, v.ID)
		}
	}

	if len(invalid) == 0 {
		return 0, nil
	}

	deleted, err := s.videos.DeleteByIDs(invalid)
	if err != nil {
		return 0, NewDatabaseError("deleting invalid videos", err)
	}

	s.log.WithField("deleted", deleted).Warn("invalid-record cleanup removed rows")

	if err := s.publisher.SendEvent(messaging.EventTypeVideosCleaned, messaging.VideosCleanedPayload{
		DeletedCount: deleted,
	}); err != nil {
		s.log.WithError(err).Warn("publishing cleanup event failed")
	}

	return deleted, nil
}

// DeleteVideo removes a single testimony.
func (s *ModerationService) DeleteVideo(id int) error {
	ok, err := s.videos.Delete(id)
	if err != nil {
		return NewDatabaseError("deleting video", err)
	}
	if !ok {
		return NewNotFoundError("video_not_found", "video not found")
	}
	return nil
}
