package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
)

// PostgresChapterRepository Postgres implementation of ChapterRepository.
type PostgresChapterRepository struct {
	DB *sqlx.DB
}

var _ repositories.ChapterRepository = (*PostgresChapterRepository)(nil)

// NewPostgresChapterRepository creates a Postgres chapter repository.
func NewPostgresChapterRepository(db *sqlx.DB) *PostgresChapterRepository {
	return &PostgresChapterRepository{DB: db}
}

// Create inserts a new chapter.
func (r *PostgresChapterRepository) Create(chapter entities.Chapter) (entities.Chapter, error) {
	now := time.Now()
	chapter.CreatedAt = now
	chapter.UpdatedAt = now

	query := `
		INSERT INTO chapters (
			title, description, category, qr_code,
			youtube_playlist_id, youtube_playlist_url, created_at, updated_at
		) VALUES (
			:title, :description, :category, :qr_code,
			:youtube_playlist_id, :youtube_playlist_url, :created_at, :updated_at
		) RETURNING *
	`

	rows, err := r.DB.NamedQuery(query, chapter)
	if err != nil {
		return entities.Chapter{}, err
	}
	defer rows.Close()

	if rows.Next() {
		var result entities.Chapter
		if err := rows.StructScan(&result); err != nil {
			return entities.Chapter{}, err
		}
		return result, nil
	}

	return entities.Chapter{}, errors.New("insert returned no row")
}

// FindByID fetches a single chapter.
func (r *PostgresChapterRepository) FindByID(id int) (entities.Chapter, error) {
	var chapter entities.Chapter
	if err := r.DB.Get(&chapter, "SELECT * FROM chapters WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Chapter{}, repositories.ErrNotFound
		}
		return entities.Chapter{}, err
	}
	return chapter, nil
}

// FindAll lists chapters in id order.
func (r *PostgresChapterRepository) FindAll() ([]entities.Chapter, error) {
	var chapters []entities.Chapter
	if err := r.DB.Select(&chapters, "SELECT * FROM chapters ORDER BY id ASC"); err != nil {
		return nil, err
	}
	return chapters, nil
}

// UpdateQRCode attaches a generated QR payload to a chapter.
func (r *PostgresChapterRepository) UpdateQRCode(id int, qrCode string) (entities.Chapter, error) {
	query := `
		UPDATE chapters SET qr_code = $1, updated_at = $2
		WHERE id = $3
		RETURNING *
	`
	var chapter entities.Chapter
	if err := r.DB.Get(&chapter, query, qrCode, time.Now(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Chapter{}, repositories.ErrNotFound
		}
		return entities.Chapter{}, err
	}
	return chapter, nil
}

// UpdatePlaylist records the host playlist linked to a chapter.
func (r *PostgresChapterRepository) UpdatePlaylist(id int, playlistID, playlistURL string) (entities.Chapter, error) {
	query := `
		UPDATE chapters SET youtube_playlist_id = $1, youtube_playlist_url = $2, updated_at = $3
		WHERE id = $4
		RETURNING *
	`
	var chapter entities.Chapter
	if err := r.DB.Get(&chapter, query, playlistID, playlistURL, time.Now(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Chapter{}, repositories.ErrNotFound
		}
		return entities.Chapter{}, err
	}
	return chapter, nil
}
