package repositories

import "github.com/blsantos/InfiniteVideoWall/internal/domain/entities"

// ChapterRepository persistence operations for chapters.
type ChapterRepository interface {
	Create(chapter entities.Chapter) (entities.Chapter, error)
	FindByID(id int) (entities.Chapter, error)
	FindAll() ([]entities.Chapter, error)
	UpdateQRCode(id int, qrCode string) (entities.Chapter, error)
	UpdatePlaylist(id int, playlistID, playlistURL string) (entities.Chapter, error)
}
