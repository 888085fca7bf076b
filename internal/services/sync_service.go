package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/messaging"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// HostLister is the adapter surface the sync job needs.
type HostLister interface {
	ListChannelVideos(ctx context.Context, channelID string, maxResults int) ([]entities.RemoteVideo, error)
}

// SyncService imports host-side channel videos into the local database,
// deduplicated by external id.
type SyncService struct {
	host      HostLister
	videos    repositories.VideoRepository
	publisher messaging.Publisher
	log       logger.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(host HostLister, videos repositories.VideoRepository, publisher messaging.Publisher, log logger.Logger) *SyncService {
	return &SyncService{
		host:      host,
		videos:    videos,
		publisher: publisher,
		log:       log,
	}
}

// SyncChannel reconciles the host channel against the local database.
// Records already present locally are skipped, never updated, so
// admin-edited demographic data survives a re-sync. Each insert is
// independent: a failure partway leaves earlier inserts committed.
func (s *SyncService) SyncChannel(ctx context.Context, channelID string) (entities.SyncResult, error) {
	remote, err := s.host.ListChannelVideos(ctx, channelID, 50)
	if err != nil {
		return entities.SyncResult{}, NewExternalHostError("channel_list_failed",
			"listing channel videos", youtube.NeedsReauth(err), err)
	}

	result := entities.SyncResult{Total: len(remote)}
	seen := make(map[string]bool, len(remote))

	for _, rv := range remote {
		externalID := strings.TrimSpace(rv.ExternalID)
		if externalID == "" {
			s.log.WithField("title", rv.Title).Warn("skipping host record without a usable video id")
			continue
		}
		// The host occasionally returns the same video twice in one
		// response; only the first occurrence is inserted.
		if seen[externalID] {
			result.Skipped++
			continue
		}
		seen[externalID] = true

		title := rv.Title
		if title == "" {
			title = "Título não disponível"
		}

		inserted, err := s.videos.CreateSynced(entities.Video{
			YoutubeID:  sql.NullString{String: externalID, Valid: true},
			YoutubeURL: sql.NullString{String: "https://www.youtube.com/watch?v=" + externalID, Valid: true},
			Title:      sql.NullString{String: title, Valid: true},
			// Channel videos are already public, so they arrive approved.
			Status: entities.VideoStatusApproved,
			// Placeholders, not NULLs: statistics queries group by these.
			AgeRange:   entities.Unspecified,
			Gender:     entities.Unspecified,
			City:       entities.Unspecified,
			State:      entities.Unspecified,
			Country:    "Brasil",
			SkinTone:   entities.Unspecified,
			RacismType: "Outro",
		})
		if err != nil {
			s.log.WithError(err).WithField("youtubeId", externalID).Error("inserting synced video failed")
			return result, NewDatabaseError("inserting synced video", err)
		}

		if inserted {
			result.Synced++
		} else {
			result.Skipped++
		}
	}

	if err := s.publisher.SendEvent(messaging.EventTypeChannelSynced, messaging.ChannelSyncedPayload{
		ChannelID: channelID,
		Total:     result.Total,
		Synced:    result.Synced,
		Skipped:   result.Skipped,
	}); err != nil {
		s.log.WithError(err).Warn("publishing sync event failed")
	}

	return result, nil
}
