package services

import (
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/messaging"
)

func newModerationFixture() (*ModerationService, *fakeVideoRepo, *recordingPublisher) {
	repo := newFakeVideoRepo()
	publisher := &recordingPublisher{}
	service := NewModerationService(repo, publisher, logger.NewNop())
	return service, repo, publisher
}

func seedPending(t *testing.T, repo *fakeVideoRepo) entities.Video {
	t.Helper()
	video, err := repo.Create(entities.Video{
		AgeRange:   "25-34",
		Gender:     "Feminino",
		City:       "Salvador",
		State:      "BA",
		Country:    "Brasil",
		SkinTone:   "Preta",
		RacismType: "Racismo institucional",
		Status:     entities.VideoStatusPending,
	})
	require.NoError(t, err)
	return video
}

func TestUpdateStatusApprove(t *testing.T) {
	service, repo, publisher := newModerationFixture()
	video := seedPending(t, repo)

	updated, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{Status: "approved"}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, entities.VideoStatusApproved, updated.Status)
	assert.Equal(t, "admin-1", updated.ModeratedBy.String)
	assert.True(t, updated.ModeratedAt.Valid)
	assert.False(t, updated.RejectionReason.Valid)
	assert.Contains(t, publisher.eventTypes(), messaging.EventTypeVideoModerated)
}

func TestUpdateStatusRejectRequiresReason(t *testing.T) {
	service, repo, _ := newModerationFixture()
	video := seedPending(t, repo)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{
			Status:          "rejected",
			RejectionReason: reason,
		}, "admin-1")
		require.Error(t, err)

		serviceErr, ok := err.(*ServiceError)
		require.True(t, ok)
		assert.Equal(t, ErrTypeValidation, serviceErr.Type)
		assert.Equal(t, "missing_rejection_reason", serviceErr.Code)
	}

	// The failed attempts must not have touched the record.
	current, err := repo.FindByID(video.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.VideoStatusPending, current.Status)
}

func TestUpdateStatusRejectStoresTrimmedReason(t *testing.T) {
	service, repo, _ := newModerationFixture()
	video := seedPending(t, repo)

	updated, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{
		Status:          "rejected",
		RejectionReason: "  conteúdo fora do escopo  ",
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, entities.VideoStatusRejected, updated.Status)
	assert.Equal(t, "conteúdo fora do escopo", updated.RejectionReason.String)
}

func TestUpdateStatusApproveClearsPriorReason(t *testing.T) {
	service, repo, _ := newModerationFixture()
	video := seedPending(t, repo)

	_, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{
		Status:          "rejected",
		RejectionReason: "motivo qualquer",
	}, "admin-1")
	require.NoError(t, err)

	updated, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{Status: "approved"}, "admin-2")
	require.NoError(t, err)

	assert.Equal(t, entities.VideoStatusApproved, updated.Status)
	assert.False(t, updated.RejectionReason.Valid)
	assert.Equal(t, "admin-2", updated.ModeratedBy.String)
}

func TestUpdateStatusResetToPendingClearsModerator(t *testing.T) {
	service, repo, _ := newModerationFixture()
	video := seedPending(t, repo)

	_, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{Status: "approved"}, "admin-1")
	require.NoError(t, err)

	updated, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{Status: "pending"}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, entities.VideoStatusPending, updated.Status)
	assert.False(t, updated.ModeratedBy.Valid)
	assert.False(t, updated.ModeratedAt.Valid)
	assert.False(t, updated.RejectionReason.Valid)
}

func TestUpdateStatusConcurrentLastWriteWins(t *testing.T) {
	service, repo, _ := newModerationFixture()
	video := seedPending(t, repo)

	// Racing transitions both succeed; whichever lands last sticks.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		status := "approved"
		reason := ""
		if i == 1 {
			status = "rejected"
			reason = "duplicado"
		}
		wg.Add(1)
		go func(status, reason string) {
			defer wg.Done()
			_, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{
				Status:          status,
				RejectionReason: reason,
			}, "admin-1")
			assert.NoError(t, err)
		}(status, reason)
	}
	wg.Wait()

	current, err := repo.FindByID(video.ID)
	require.NoError(t, err)
	assert.Contains(t, []entities.VideoStatus{
		entities.VideoStatusApproved,
		entities.VideoStatusRejected,
	}, current.Status)
}

func TestUpdateStatusInvalidStatus(t *testing.T) {
	service, repo, _ := newModerationFixture()
	video := seedPending(t, repo)

	_, err := service.UpdateStatus(video.ID, entities.UpdateVideoStatusDTO{Status: "published"}, "admin-1")
	require.Error(t, err)

	serviceErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, "invalid_status", serviceErr.Code)
}

func TestUpdateStatusUnknownVideo(t *testing.T) {
	service, _, _ := newModerationFixture()

	_, err := service.UpdateStatus(999, entities.UpdateVideoStatusDTO{Status: "approved"}, "admin-1")
	require.Error(t, err)

	serviceErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, ErrTypeNotFound, serviceErr.Type)
}

func hostLinked(id, url string) entities.Video {
	return entities.Video{
		YoutubeID:  sql.NullString{String: id, Valid: id != ""},
		YoutubeURL: sql.NullString{String: url, Valid: url != ""},
		AgeRange:   entities.Unspecified,
		Gender:     entities.Unspecified,
		City:       entities.Unspecified,
		State:      entities.Unspecified,
		Country:    "Brasil",
		SkinTone:   entities.Unspecified,
		RacismType: "Outro",
		Status:     entities.VideoStatusApproved,
	}
}

func TestCleanupInvalidDeletesExactSet(t *testing.T) {
	service, repo, publisher := newModerationFixture()

	valid, err := repo.Create(hostLinked("dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	require.NoError(t, err)

	invalidCases := []entities.Video{
		hostLinked("", "https://www.youtube.com/watch?v=abc"),
		hostLinked(`{"kind":"youtube#video","videoId":"abc"}`, "https://www.youtube.com/watch?v=abc"),
		hostLinked("abc123def45", ""),
		hostLinked("abc123def46", "https://www.youtube.com/watch?v=[object Object]"),
	}
	var invalidIDs []int
	for _, v := range invalidCases {
		created, err := repo.Create(v)
		require.NoError(t, err)
		invalidIDs = append(invalidIDs, created.ID)
	}

	// Metadata-only submissions have no host linkage and are removed too.
	localOnly := seedPending(t, repo)

	deleted, err := service.CleanupInvalid()
	require.NoError(t, err)
	assert.Equal(t, len(invalidCases)+1, deleted)

	_, err = repo.FindByID(valid.ID)
	assert.NoError(t, err)

	for _, id := range append(invalidIDs, localOnly.ID) {
		_, err = repo.FindByID(id)
		assert.Error(t, err)
	}

	assert.Contains(t, publisher.eventTypes(), messaging.EventTypeVideosCleaned)
}

func TestCleanupInvalidNothingToDelete(t *testing.T) {
	service, repo, publisher := newModerationFixture()

	_, err := repo.Create(hostLinked("abc123def47", "https://www.youtube.com/watch?v=abc123def47"))
	require.NoError(t, err)

	deleted, err := service.CleanupInvalid()
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, publisher.eventTypes())
}

func TestDeleteVideo(t *testing.T) {
	service, repo, _ := newModerationFixture()
	video := seedPending(t, repo)

	require.NoError(t, service.DeleteVideo(video.ID))

	err := service.DeleteVideo(video.ID)
	require.Error(t, err)
	serviceErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, ErrTypeNotFound, serviceErr.Type)
}
