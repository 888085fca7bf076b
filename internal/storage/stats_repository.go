package storage

import (
	"github.com/jmoiron/sqlx"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
)

// PostgresStatsRepository aggregate statistics queries. Grouped queries
// count approved testimonies only; the overview counts every state.
type PostgresStatsRepository struct {
	DB *sqlx.DB
}

var _ repositories.StatsRepository = (*PostgresStatsRepository)(nil)

// NewPostgresStatsRepository creates a Postgres stats repository.
func NewPostgresStatsRepository(db *sqlx.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{DB: db}
}

// Overview returns counts by moderation state in a single query.
func (r *PostgresStatsRepository) Overview() (entities.VideoStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_videos,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_videos,
			COUNT(CASE WHEN status = 'approved' THEN 1 END) AS approved_videos,
			COUNT(CASE WHEN status = 'rejected' THEN 1 END) AS rejected_videos
		FROM videos
	`
	var stats entities.VideoStats
	if err := r.DB.Get(&stats, query); err != nil {
		return entities.VideoStats{}, err
	}
	return stats, nil
}

func (r *PostgresStatsRepository) grouped(expr string) ([]entities.GroupCount, error) {
	query := `
		SELECT ` + expr + ` AS label, COUNT(*) AS count
		FROM videos
		WHERE status = 'approved'
		GROUP BY ` + expr + `
		ORDER BY count DESC
	`
	var results []entities.GroupCount
	if err := r.DB.Select(&results, query); err != nil {
		return nil, err
	}
	return results, nil
}

// ByLocation counts approved testimonies per "city, state".
func (r *PostgresStatsRepository) ByLocation() ([]entities.GroupCount, error) {
	return r.grouped("CONCAT(city, ', ', state)")
}

// ByRacismType counts approved testimonies per racism category.
func (r *PostgresStatsRepository) ByRacismType() ([]entities.GroupCount, error) {
	return r.grouped("racism_type")
}

// ByAge counts approved testimonies per age bucket.
func (r *PostgresStatsRepository) ByAge() ([]entities.GroupCount, error) {
	return r.grouped("age_range")
}

// ByGender counts approved testimonies per gender.
func (r *PostgresStatsRepository) ByGender() ([]entities.GroupCount, error) {
	return r.grouped("gender")
}
