package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/residencia-tech/relatorio-api/internal/dto"
	"github.com/residencia-tech/relatorio-api/internal/repository"
)

// LookupService supplies the filter form dropdown options. Options change
// rarely, so they are cached in Redis; report rows themselves are always
// fetched fresh.
type LookupService interface {
	Options(ctx context.Context) (dto.FilterOptions, error)
}

type lookupService struct {
	repo     repository.LookupRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewLookupService constructs the lookup service. The cache client may be nil,
// in which case every call hits the database.
func NewLookupService(repo repository.LookupRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LookupService {
	return &lookupService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "lookup_service").Logger(),
	}
}

func (s *lookupService) Options(ctx context.Context) (dto.FilterOptions, error) {
	const cacheKey = "report:filter_options"

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var options dto.FilterOptions
			if unmarshalErr := json.Unmarshal([]byte(cached), &options); unmarshalErr == nil {
				return options, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read lookup cache")
		}
	}

	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return dto.FilterOptions{}, fmt.Errorf("list groups: %w", err)
	}

	instructors, err := s.repo.ListInstructors(ctx)
	if err != nil {
		return dto.FilterOptions{}, fmt.Errorf("list instructors: %w", err)
	}

	activities, err := s.repo.ListActivities(ctx)
	if err != nil {
		return dto.FilterOptions{}, fmt.Errorf("list activities: %w", err)
	}

	options := dto.FilterOptions{
		Groups:      groups,
		Instructors: instructors,
		Activities:  activities,
	}

	if s.cache != nil {
		payload, err := json.Marshal(options)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store lookup cache")
			}
		}
	}

	return options, nil
}
