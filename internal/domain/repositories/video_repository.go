package repositories

import (
	"database/sql"
	"errors"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
)

// VideoRepository persistence operations for testimonies.
type VideoRepository interface {
	Create(video entities.Video) (entities.Video, error)
	// CreateSynced inserts a host-imported video, ignoring the insert when
	// a row with the same youtube_id already exists. The bool result is
	// true when a row was actually inserted.
	CreateSynced(video entities.Video) (bool, error)
	FindByID(id int) (entities.Video, error)
	FindAll(filters entities.VideoFilters) ([]entities.Video, error)
	// UpdateStatus applies a moderation transition. rejectionReason and
	// moderator are stored as given; an invalid NullString clears the
	// column, and moderated_at follows moderator validity.
	UpdateStatus(id int, status entities.VideoStatus, rejectionReason, moderator sql.NullString) (entities.Video, error)
	Delete(id int) (bool, error)
	DeleteByIDs(ids []int) (int, error)
}

// ErrNotFound is returned by repositories when a row does not exist.
// Defined here so services do not import the storage package.
var ErrNotFound = errors.New("record not found")
