package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// fakeChapterRepo in-memory ChapterRepository.
type fakeChapterRepo struct {
	nextID   int
	chapters map[int]entities.Chapter
}

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{nextID: 1, chapters: make(map[int]entities.Chapter)}
}

func (r *fakeChapterRepo) Create(chapter entities.Chapter) (entities.Chapter, error) {
	chapter.ID = r.nextID
	r.nextID++
	chapter.CreatedAt = time.Now()
	chapter.UpdatedAt = chapter.CreatedAt
	r.chapters[chapter.ID] = chapter
	return chapter, nil
}

func (r *fakeChapterRepo) FindByID(id int) (entities.Chapter, error) {
	chapter, ok := r.chapters[id]
	if !ok {
		return entities.Chapter{}, repositories.ErrNotFound
	}
	return chapter, nil
}

func (r *fakeChapterRepo) FindAll() ([]entities.Chapter, error) {
	var out []entities.Chapter
	for id := 1; id < r.nextID; id++ {
		if chapter, ok := r.chapters[id]; ok {
			out = append(out, chapter)
		}
	}
	return out, nil
}

func (r *fakeChapterRepo) UpdateQRCode(id int, qrCode string) (entities.Chapter, error) {
	chapter, ok := r.chapters[id]
	if !ok {
		return entities.Chapter{}, repositories.ErrNotFound
	}
	chapter.QRCode = sql.NullString{String: qrCode, Valid: true}
	r.chapters[id] = chapter
	return chapter, nil
}

func (r *fakeChapterRepo) UpdatePlaylist(id int, playlistID, playlistURL string) (entities.Chapter, error) {
	chapter, ok := r.chapters[id]
	if !ok {
		return entities.Chapter{}, repositories.ErrNotFound
	}
	chapter.YoutubePlaylistID = sql.NullString{String: playlistID, Valid: true}
	chapter.YoutubePlaylistURL = sql.NullString{String: playlistURL, Valid: true}
	r.chapters[id] = chapter
	return chapter, nil
}

var _ repositories.ChapterRepository = (*fakeChapterRepo)(nil)

// fakePlaylistCreator scripts playlist creation.
type fakePlaylistCreator struct {
	playlist *youtube.Playlist
	err      error
	calls    int
}

func (c *fakePlaylistCreator) CreatePlaylist(ctx context.Context, title, description, privacyStatus string, tokens *youtube.Tokens) (*youtube.Playlist, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.playlist, nil
}

func newChapterFixture(withTokens bool) (*ChapterService, *fakeChapterRepo, *fakePlaylistCreator) {
	repo := newFakeChapterRepo()
	creator := &fakePlaylistCreator{playlist: &youtube.Playlist{ID: "PLabc123", Title: "Capítulo"}}
	tokens := NewTokenStore()
	if withTokens {
		tokens.Set(&youtube.Tokens{AccessToken: "at", Expiry: time.Now().Add(time.Hour)})
	}
	service := NewChapterService(repo, creator, tokens, logger.NewNop(), "https://reparacoeshistoricas.org")
	return service, repo, creator
}

func TestCreateChapterGeneratesQRCode(t *testing.T) {
	service, _, _ := newChapterFixture(false)

	chapter, err := service.Create(entities.CreateChapterDTO{
		Title:       "Infância",
		Description: "Relatos da infância",
	})
	require.NoError(t, err)

	require.True(t, chapter.QRCode.Valid)
	assert.True(t, strings.HasPrefix(chapter.QRCode.String, "data:image/png;base64,"))
	assert.Equal(t, "https://reparacoeshistoricas.org/capitulo/1", service.ChapterURL(chapter.ID))
}

func TestGenerateQRCodeUnknownChapter(t *testing.T) {
	service, _, _ := newChapterFixture(false)

	_, err := service.GenerateQRCode(99)
	require.Error(t, err)

	serviceErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, ErrTypeNotFound, serviceErr.Type)
}

func TestCreatePlaylistLinksChapter(t *testing.T) {
	service, _, creator := newChapterFixture(true)

	chapter, err := service.Create(entities.CreateChapterDTO{Title: "Trabalho"})
	require.NoError(t, err)

	linked, err := service.CreatePlaylist(context.Background(), chapter.ID)
	require.NoError(t, err)

	assert.Equal(t, "PLabc123", linked.YoutubePlaylistID.String)
	assert.Equal(t, "https://www.youtube.com/playlist?list=PLabc123", linked.YoutubePlaylistURL.String)
	assert.Equal(t, 1, creator.calls)

	// A second call is a no-op once the playlist is linked.
	again, err := service.CreatePlaylist(context.Background(), chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, "PLabc123", again.YoutubePlaylistID.String)
	assert.Equal(t, 1, creator.calls)
}

func TestCreatePlaylistWithoutTokens(t *testing.T) {
	service, _, creator := newChapterFixture(false)

	chapter, err := service.Create(entities.CreateChapterDTO{Title: "Escola"})
	require.NoError(t, err)

	_, err = service.CreatePlaylist(context.Background(), chapter.ID)
	require.Error(t, err)

	serviceErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.True(t, serviceErr.NeedsAuth)
	assert.Zero(t, creator.calls)
}
