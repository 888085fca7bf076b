package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/blsantos/InfiniteVideoWall/internal/config"
)

// Repositories bundles the concrete Postgres repositories.
type Repositories struct {
	db       *sqlx.DB
	Videos   *PostgresVideoRepository
	Chapters *PostgresChapterRepository
	Users    *PostgresUserRepository
	Stats    *PostgresStatsRepository
}

// NewDBConnection opens a Postgres connection pool.
func NewDBConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	// Password is kept out of anything we log.
	logSafeDSN := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.DBName, cfg.SSLMode)

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", logSafeDSN, err)
	}
	return db, nil
}

// NewRepositories creates the repository collection.
func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		db:       db,
		Videos:   NewPostgresVideoRepository(db),
		Chapters: NewPostgresChapterRepository(db),
		Users:    NewPostgresUserRepository(db),
		Stats:    NewPostgresStatsRepository(db),
	}
}

// GetDB returns the underlying connection pool.
func (r *Repositories) GetDB() *sqlx.DB {
	return r.db
}

// Close closes the connection pool.
func (r *Repositories) Close() error {
	return r.db.Close()
}
