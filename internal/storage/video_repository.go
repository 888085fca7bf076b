package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
)

// PostgresVideoRepository Postgres implementation of VideoRepository.
type PostgresVideoRepository struct {
	DB *sqlx.DB
}

var _ repositories.VideoRepository = (*PostgresVideoRepository)(nil)

// NewPostgresVideoRepository creates a Postgres video repository.
func NewPostgresVideoRepository(db *sqlx.DB) *PostgresVideoRepository {
	return &PostgresVideoRepository{DB: db}
}

const videoColumns = `
	id, youtube_id, youtube_url, title, duration, chapter_id,
	age_range, gender, city, state, country, skin_tone, racism_type, racism_type_other,
	author_name, allow_public_display, allow_future_contact,
	status, rejection_reason, moderated_by, moderated_at,
	file_path, created_at, updated_at
`

// Create inserts a new testimony row.
func (r *PostgresVideoRepository) Create(video entities.Video) (entities.Video, error) {
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now

	query := `
		INSERT INTO videos (
			youtube_id, youtube_url, title, duration, chapter_id,
			age_range, gender, city, state, country, skin_tone, racism_type, racism_type_other,
			author_name, allow_public_display, allow_future_contact,
			status, rejection_reason, file_path, created_at, updated_at
		) VALUES (
			:youtube_id, :youtube_url, :title, :duration, :chapter_id,
			:age_range, :gender, :city, :state, :country, :skin_tone, :racism_type, :racism_type_other,
			:author_name, :allow_public_display, :allow_future_contact,
			:status, :rejection_reason, :file_path, :created_at, :updated_at
		) RETURNING *
	`

	rows, err := r.DB.NamedQuery(query, video)
	if err != nil {
		return entities.Video{}, err
	}
	defer rows.Close()

	if rows.Next() {
		var result entities.Video
		if err := rows.StructScan(&result); err != nil {
			return entities.Video{}, err
		}
		return result, nil
	}

	return entities.Video{}, errors.New("insert returned no row")
}

// CreateSynced inserts a host-imported video. The unique constraint on
// youtube_id plus ON CONFLICT DO NOTHING closes the race window two
// concurrent sync runs would otherwise have.
func (r *PostgresVideoRepository) CreateSynced(video entities.Video) (bool, error) {
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now

	query := `
		INSERT INTO videos (
			youtube_id, youtube_url, title, duration, chapter_id,
			age_range, gender, city, state, country, skin_tone, racism_type, racism_type_other,
			author_name, allow_public_display, allow_future_contact,
			status, rejection_reason, file_path, created_at, updated_at
		) VALUES (
			:youtube_id, :youtube_url, :title, :duration, :chapter_id,
			:age_range, :gender, :city, :state, :country, :skin_tone, :racism_type, :racism_type_other,
			:author_name, :allow_public_display, :allow_future_contact,
			:status, :rejection_reason, :file_path, :created_at, :updated_at
		) ON CONFLICT (youtube_id) DO NOTHING
	`

	result, err := r.DB.NamedExec(query, video)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// FindByID fetches a single testimony.
func (r *PostgresVideoRepository) FindByID(id int) (entities.Video, error) {
	var video entities.Video
	query := "SELECT" + videoColumns + "FROM videos WHERE id = $1"
	if err := r.DB.Get(&video, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Video{}, repositories.ErrNotFound
		}
		return entities.Video{}, err
	}
	return video, nil
}

// FindAll lists testimonies with optional filters, newest first.
func (r *PostgresVideoRepository) FindAll(filters entities.VideoFilters) ([]entities.Video, error) {
	query := "SELECT v.* FROM videos v"
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Category != "" {
		query += " INNER JOIN chapters c ON v.chapter_id = c.id"
		conditions = append(conditions, "c.category = "+arg(filters.Category))
	}
	if filters.ChapterID > 0 {
		conditions = append(conditions, "v.chapter_id = "+arg(filters.ChapterID))
	}
	if filters.Status != "" {
		conditions = append(conditions, "v.status = "+arg(filters.Status))
	}
	if filters.RacismType != "" {
		conditions = append(conditions, "v.racism_type = "+arg(filters.RacismType))
	}
	if filters.Location != "" {
		p := arg("%" + filters.Location + "%")
		conditions = append(conditions, "(v.city ILIKE "+p+" OR v.state ILIKE "+p+")")
	}
	if filters.Search != "" {
		p := arg("%" + filters.Search + "%")
		conditions = append(conditions,
			"(v.title ILIKE "+p+" OR v.city ILIKE "+p+" OR v.racism_type ILIKE "+p+
				" OR v.author_name ILIKE "+p+" OR v.youtube_id ILIKE "+p+")")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY v.created_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT " + arg(filters.Limit)
	}
	if filters.Offset > 0 {
		query += " OFFSET " + arg(filters.Offset)
	}

	var videos []entities.Video
	if err := r.DB.Select(&videos, query, args...); err != nil {
		return nil, err
	}
	return videos, nil
}

// UpdateStatus applies a moderation transition and stamps the moderator
// columns. Invalid NullStrings clear their columns; moderated_at is set
// only when a moderator is recorded.
func (r *PostgresVideoRepository) UpdateStatus(id int, status entities.VideoStatus, rejectionReason, moderator sql.NullString) (entities.Video, error) {
	now := time.Now()
	moderatedAt := sql.NullTime{Time: now, Valid: moderator.Valid}

	query := `
		UPDATE videos SET
			status = $1,
			rejection_reason = $2,
			moderated_by = $3,
			moderated_at = $4,
			updated_at = $5
		WHERE id = $6
		RETURNING *
	`

	var video entities.Video
	err := r.DB.Get(&video, query, status, rejectionReason, moderator, moderatedAt, now, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Video{}, repositories.ErrNotFound
		}
		return entities.Video{}, err
	}
	return video, nil
}

// Delete removes a single testimony.
func (r *PostgresVideoRepository) Delete(id int) (bool, error) {
	result, err := r.DB.Exec("DELETE FROM videos WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteByIDs removes a batch of testimonies, returning the count removed.
func (r *PostgresVideoRepository) DeleteByIDs(ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.DB.Exec("DELETE FROM videos WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
