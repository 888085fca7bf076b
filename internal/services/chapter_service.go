package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// PlaylistCreator is the adapter surface chapter playlist linking needs.
type PlaylistCreator interface {
	CreatePlaylist(ctx context.Context, title, description, privacyStatus string, tokens *youtube.Tokens) (*youtube.Playlist, error)
}

// ChapterService manages chapters, their QR codes and host playlists.
type ChapterService struct {
	chapters repositories.ChapterRepository
	host     PlaylistCreator
	tokens   *TokenStore
	log      logger.Logger

	// publicBaseURL is the externally reachable origin the QR codes
	// point at, e.g. https://reparacoeshistoricas.org.
	publicBaseURL string
}

// NewChapterService creates a chapter service.
func NewChapterService(chapters repositories.ChapterRepository, host PlaylistCreator, tokens *TokenStore, log logger.Logger, publicBaseURL string) *ChapterService {
	return &ChapterService{
		chapters:      chapters,
		host:          host,
		tokens:        tokens,
		log:           log,
		publicBaseURL: publicBaseURL,
	}
}

// FindAll lists all chapters.
func (s *ChapterService) FindAll() ([]entities.Chapter, error) {
	chapters, err := s.chapters.FindAll()
	if err != nil {
		return nil, NewDatabaseError("listing chapters", err)
	}
	return chapters, nil
}

// FindOne fetches a single chapter.
func (s *ChapterService) FindOne(id int) (entities.Chapter, error) {
	chapter, err := s.chapters.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return entities.Chapter{}, NewNotFoundError("chapter_not_found", "chapter not found")
		}
		return entities.Chapter{}, NewDatabaseError("fetching chapter", err)
	}
	return chapter, nil
}

// Create persists a new chapter and generates its QR code. A QR failure
// leaves the chapter without one; it can be regenerated later.
func (s *ChapterService) Create(dto entities.CreateChapterDTO) (entities.Chapter, error) {
	chapter := entities.Chapter{
		Title:       dto.Title,
		Description: nullIfEmpty(dto.Description),
		Category:    nullIfEmpty(dto.Category),
	}

	created, err := s.chapters.Create(chapter)
	if err != nil {
		return entities.Chapter{}, NewDatabaseError("creating chapter", err)
	}

	withQR, err := s.GenerateQRCode(created.ID)
	if err != nil {
		s.log.WithError(err).WithField("chapter_id", created.ID).Warn("generating chapter QR code failed")
		return created, nil
	}
	return withQR, nil
}

// GenerateQRCode renders the chapter's public URL as a PNG data URL and
// stores it on the chapter row.
func (s *ChapterService) GenerateQRCode(id int) (entities.Chapter, error) {
	if _, err := s.FindOne(id); err != nil {
		return entities.Chapter{}, err
	}

	target := fmt.Sprintf("%s/capitulo/%d", s.publicBaseURL, id)
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		return entities.Chapter{}, &ServiceError{Type: ErrTypeStorage, Code: "qr_generation_failed", Message: "generating QR code", Err: err}
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	updated, err := s.chapters.UpdateQRCode(id, dataURL)
	if err != nil {
		return entities.Chapter{}, NewDatabaseError("storing QR code", err)
	}
	return updated, nil
}

// ChapterURL returns the public URL a chapter's QR code points at.
func (s *ChapterService) ChapterURL(id int) string {
	return fmt.Sprintf("%s/capitulo/%d", s.publicBaseURL, id)
}

// CreatePlaylist creates a host playlist for the chapter and links it.
func (s *ChapterService) CreatePlaylist(ctx context.Context, id int) (entities.Chapter, error) {
	chapter, err := s.FindOne(id)
	if err != nil {
		return entities.Chapter{}, err
	}
	if chapter.YoutubePlaylistID.Valid {
		return chapter, nil
	}

	tokens, ok := s.tokens.Get()
	if !ok {
		return entities.Chapter{}, &ServiceError{
			Type:      ErrTypeValidation,
			Code:      "youtube_auth_required",
			Message:   "YouTube authorization required before creating playlists",
			NeedsAuth: true,
		}
	}

	description := chapter.Description.String
	if description == "" {
		description = "Relatos do capítulo " + chapter.Title
	}
	playlist, err := s.host.CreatePlaylist(ctx, chapter.Title, description, "unlisted", tokens)
	if err != nil {
		return entities.Chapter{}, NewExternalHostError("playlist_creation_failed", "creating playlist",
			youtube.NeedsReauth(err), err)
	}

	playlistURL := "https://www.youtube.com/playlist?list=" + playlist.ID
	updated, err := s.chapters.UpdatePlaylist(id, playlist.ID, playlistURL)
	if err != nil {
		return entities.Chapter{}, NewDatabaseError("linking playlist", err)
	}
	return updated, nil
}
