package entities

import (
	"database/sql"
	"time"
)

// User is an identity record. Only two things hang off it: session
// identity and the admin gate on mutation endpoints.
type User struct {
	ID              string         `json:"id" db:"id"`
	Email           sql.NullString `json:"email" db:"email"`
	FirstName       sql.NullString `json:"firstName" db:"first_name"`
	LastName        sql.NullString `json:"lastName" db:"last_name"`
	ProfileImageURL sql.NullString `json:"profileImageUrl" db:"profile_image_url"`
	PasswordHash    sql.NullString `json:"-" db:"password_hash"`
	IsAdmin         bool           `json:"isAdmin" db:"is_admin"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}
