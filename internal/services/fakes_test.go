package services

import (
	"database/sql"
	"sync"
	"time"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
)

// fakeVideoRepo is an in-memory VideoRepository for service tests.
type fakeVideoRepo struct {
	mu     sync.Mutex
	nextID int
	videos map[int]entities.Video

	createSyncedCalls int
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{nextID: 1, videos: make(map[int]entities.Video)}
}

func (r *fakeVideoRepo) Create(video entities.Video) (entities.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video.ID = r.nextID
	r.nextID++
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	r.videos[video.ID] = video
	return video, nil
}

func (r *fakeVideoRepo) CreateSynced(video entities.Video) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createSyncedCalls++
	for _, existing := range r.videos {
		if existing.YoutubeID.Valid && existing.YoutubeID.String == video.YoutubeID.String {
			return false, nil
		}
	}
	video.ID = r.nextID
	r.nextID++
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	r.videos[video.ID] = video
	return true, nil
}

func (r *fakeVideoRepo) FindByID(id int) (entities.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return entities.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (r *fakeVideoRepo) FindAll(filters entities.VideoFilters) ([]entities.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Video
	for id := 1; id < r.nextID; id++ {
		video, ok := r.videos[id]
		if !ok {
			continue
		}
		if filters.Status != "" && string(video.Status) != filters.Status {
			continue
		}
		out = append(out, video)
	}
	return out, nil
}

func (r *fakeVideoRepo) UpdateStatus(id int, status entities.VideoStatus, rejectionReason, moderator sql.NullString) (entities.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return entities.Video{}, repositories.ErrNotFound
	}
	video.Status = status
	video.RejectionReason = rejectionReason
	video.ModeratedBy = moderator
	video.ModeratedAt = sql.NullTime{Time: time.Now(), Valid: moderator.Valid}
	video.UpdatedAt = time.Now()
	r.videos[id] = video
	return video, nil
}

func (r *fakeVideoRepo) Delete(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return false, nil
	}
	delete(r.videos, id)
	return true, nil
}

func (r *fakeVideoRepo) DeleteByIDs(ids []int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := r.videos[id]; ok {
			delete(r.videos, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ repositories.VideoRepository = (*fakeVideoRepo)(nil)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) SendEvent(eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}
