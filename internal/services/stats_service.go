package services

import (
	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
)

// StatsService exposes aggregate counts over approved testimonies.
type StatsService struct {
	stats repositories.StatsRepository
}

func NewStatsService(stats repositories.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

func (s *StatsService) Overview() (entities.VideoStats, error) {
	stats, err := s.stats.Overview()
	if err != nil {
		return entities.VideoStats{}, NewDatabaseError("computing overview stats", err)
	}
	return stats, nil
}

func (s *StatsService) ByLocation() ([]entities.GroupCount, error) {
	counts, err := s.stats.ByLocation()
	if err != nil {
		return nil, NewDatabaseError("computing location stats", err)
	}
	return counts, nil
}

func (s *StatsService) ByRacismType() ([]entities.GroupCount, error) {
	counts, err := s.stats.ByRacismType()
	if err != nil {
		return nil, NewDatabaseError("computing racism type stats", err)
	}
	return counts, nil
}

func (s *StatsService) ByAge() ([]entities.GroupCount, error) {
	counts, err := s.stats.ByAge()
	if err != nil {
		return nil, NewDatabaseError("computing age stats", err)
	}
	return counts, nil
}

func (s *StatsService) ByGender() ([]entities.GroupCount, error) {
	counts, err := s.stats.ByGender()
	if err != nil {
		return nil, NewDatabaseError("computing gender stats", err)
	}
	return counts, nil
}
