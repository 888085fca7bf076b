package repositories

import "github.com/blsantos/InfiniteVideoWall/internal/domain/entities"

// UserRepository persistence operations for identities.
type UserRepository interface {
	FindByID(id string) (entities.User, error)
	FindByEmail(email string) (entities.User, error)
	Upsert(user entities.User) (entities.User, error)
}

// StatsRepository aggregate queries over approved testimonies.
type StatsRepository interface {
	Overview() (entities.VideoStats, error)
	ByLocation() ([]entities.GroupCount, error)
	ByRacismType() ([]entities.GroupCount, error)
	ByAge() ([]entities.GroupCount, error)
	ByGender() ([]entities.GroupCount, error)
}
