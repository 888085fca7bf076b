package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
)

// PostgresUserRepository Postgres implementation of UserRepository.
type PostgresUserRepository struct {
	DB *sqlx.DB
}

var _ repositories.UserRepository = (*PostgresUserRepository)(nil)

// NewPostgresUserRepository creates a Postgres user repository.
func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// FindByID fetches a user by identity-provider subject.
func (r *PostgresUserRepository) FindByID(id string) (entities.User, error) {
	var user entities.User
	if err := r.DB.Get(&user, "SELECT * FROM users WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.User{}, repositories.ErrNotFound
		}
		return entities.User{}, err
	}
	return user, nil
}

// FindByEmail fetches a user by email.
func (r *PostgresUserRepository) FindByEmail(email string) (entities.User, error) {
	var user entities.User
	if err := r.DB.Get(&user, "SELECT * FROM users WHERE email = $1", email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.User{}, repositories.ErrNotFound
		}
		return entities.User{}, err
	}
	return user, nil
}

// Upsert inserts or refreshes an identity record.
func (r *PostgresUserRepository) Upsert(user entities.User) (entities.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (
			id, email, first_name, last_name, profile_image_url, password_hash, is_admin,
			created_at, updated_at
		) VALUES (
			:id, :email, :first_name, :last_name, :profile_image_url, :password_hash, :is_admin,
			:created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = EXCLUDED.updated_at
		RETURNING *
	`

	rows, err := r.DB.NamedQuery(query, user)
	if err != nil {
		return entities.User{}, err
	}
	defer rows.Close()

	if rows.Next() {
		var result entities.User
		if err := rows.StructScan(&result); err != nil {
			return entities.User{}, err
		}
		return result, nil
	}

	return entities.User{}, errors.New("upsert returned no row")
}
