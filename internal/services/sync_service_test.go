package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/messaging"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// fakeLister returns a scripted channel listing.
type fakeLister struct {
	videos []entities.RemoteVideo
	err    error
	calls  int
}

func (l *fakeLister) ListChannelVideos(ctx context.Context, channelID string, maxResults int) ([]entities.RemoteVideo, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.videos, nil
}

func remote(id, title string) entities.RemoteVideo {
	return entities.RemoteVideo{ExternalID: id, Title: title, PublishedAt: time.Now()}
}

func TestSyncChannelImportsNewVideos(t *testing.T) {
	repo := newFakeVideoRepo()
	publisher := &recordingPublisher{}
	lister := &fakeLister{videos: []entities.RemoteVideo{
		remote("vid00000001", "Relato 1"),
		remote("vid00000002", "Relato 2"),
	}}
	service := NewSyncService(lister, repo, publisher, logger.NewNop())

	result, err := service.SyncChannel(context.Background(), "UCchannel")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Synced)
	assert.Zero(t, result.Skipped)

	videos, err := repo.FindAll(entities.VideoFilters{})
	require.NoError(t, err)
	require.Len(t, videos, 2)

	// Imported videos arrive approved, with grouping-safe placeholders.
	for _, v := range videos {
		assert.Equal(t, entities.VideoStatusApproved, v.Status)
		assert.Equal(t, entities.Unspecified, v.AgeRange)
		assert.Equal(t, entities.Unspecified, v.City)
		assert.Equal(t, "Brasil", v.Country)
		assert.Equal(t, "Outro", v.RacismType)
		assert.Equal(t, "https://www.youtube.com/watch?v="+v.YoutubeID.String, v.YoutubeURL.String)
	}

	assert.Contains(t, publisher.eventTypes(), messaging.EventTypeChannelSynced)
}

func TestSyncChannelIdempotent(t *testing.T) {
	repo := newFakeVideoRepo()
	lister := &fakeLister{videos: []entities.RemoteVideo{
		remote("vid00000001", "Relato 1"),
		remote("vid00000002", "Relato 2"),
	}}
	service := NewSyncService(lister, repo, &recordingPublisher{}, logger.NewNop())

	first, err := service.SyncChannel(context.Background(), "UCchannel")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Synced)

	second, err := service.SyncChannel(context.Background(), "UCchannel")
	require.NoError(t, err)
	assert.Zero(t, second.Synced)
	assert.Equal(t, 2, second.Skipped)

	videos, err := repo.FindAll(entities.VideoFilters{})
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestSyncChannelNeverUpdatesExisting(t *testing.T) {
	repo := newFakeVideoRepo()

	// An admin already curated this record.
	curated, err := repo.Create(entities.Video{
		YoutubeID:  nullIfEmpty("vid00000001"),
		YoutubeURL: nullIfEmpty("https://www.youtube.com/watch?v=vid00000001"),
		Title:      nullIfEmpty("Título editado pelo admin"),
		AgeRange:   "35-44",
		Gender:     "Masculino",
		City:       "Recife",
		State:      "PE",
		Country:    "Brasil",
		SkinTone:   "Parda",
		RacismType: "Racismo estrutural",
		Status:     entities.VideoStatusApproved,
	})
	require.NoError(t, err)

	lister := &fakeLister{videos: []entities.RemoteVideo{remote("vid00000001", "Título do host")}}
	service := NewSyncService(lister, repo, &recordingPublisher{}, logger.NewNop())

	result, err := service.SyncChannel(context.Background(), "UCchannel")
	require.NoError(t, err)
	assert.Zero(t, result.Synced)
	assert.Equal(t, 1, result.Skipped)

	after, err := repo.FindByID(curated.ID)
	require.NoError(t, err)
	assert.Equal(t, "Título editado pelo admin", after.Title.String)
	assert.Equal(t, "Recife", after.City)
	assert.Equal(t, "35-44", after.AgeRange)
}

func TestSyncChannelInBatchDuplicate(t *testing.T) {
	repo := newFakeVideoRepo()
	lister := &fakeLister{videos: []entities.RemoteVideo{
		remote("vid00000001", "Relato"),
		remote("vid00000001", "Relato repetido"),
	}}
	service := NewSyncService(lister, repo, &recordingPublisher{}, logger.NewNop())

	result, err := service.SyncChannel(context.Background(), "UCchannel")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Skipped)

	videos, err := repo.FindAll(entities.VideoFilters{})
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestSyncChannelSkipsRecordsWithoutID(t *testing.T) {
	repo := newFakeVideoRepo()
	lister := &fakeLister{videos: []entities.RemoteVideo{
		remote("", "Sem id"),
		remote("vid00000001", ""),
	}}
	service := NewSyncService(lister, repo, &recordingPublisher{}, logger.NewNop())

	result, err := service.SyncChannel(context.Background(), "UCchannel")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Synced)

	videos, err := repo.FindAll(entities.VideoFilters{})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Título não disponível", videos[0].Title.String)
}

func TestSyncChannelListFailure(t *testing.T) {
	repo := newFakeVideoRepo()
	lister := &fakeLister{err: youtube.ErrTokenExpired}
	service := NewSyncService(lister, repo, &recordingPublisher{}, logger.NewNop())

	_, err := service.SyncChannel(context.Background(), "UCchannel")
	require.Error(t, err)

	serviceErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, ErrTypeExternalHost, serviceErr.Type)
	assert.True(t, serviceErr.NeedsAuth)

	// A failed listing must not look like an empty channel: nothing is
	// inserted and nothing is reported synced.
	videos, err := repo.FindAll(entities.VideoFilters{})
	require.NoError(t, err)
	assert.Empty(t, videos)
}
