package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/cache"
	"github.com/yoockh/gigmatch/internal/models"
	pgrepo "github.com/yoockh/gigmatch/internal/repositories/postgres"
	"github.com/yoockh/gigmatch/internal/utils"
)

// MatchService serves match listings. Writes belong to matching.Engine.
type MatchService interface {
	ForSeeker(ctx context.Context, seekerID string) ([]models.Match, error)
	ForJob(ctx context.Context, businessID, jobID string) ([]models.Match, error)
}

type matchService struct {
	matches  pgrepo.MatchRepository
	profiles pgrepo.ProfileRepository
	jobs     JobService
	cache    cache.Cache
	ttl      time.Duration
	log      *logrus.Logger
}

func NewMatchService(matches pgrepo.MatchRepository, profiles pgrepo.ProfileRepository, jobs JobService, c cache.Cache, ttl time.Duration, log *logrus.Logger) MatchService {
	if ttl <= 0 {
		ttl = cache.DefaultMatchTTL
	}
	return &matchService{matches: matches, profiles: profiles, jobs: jobs, cache: c, ttl: ttl, log: log}
}

func (s *matchService) ForSeeker(ctx context.Context, seekerID string) ([]models.Match, error) {
	const op = "MatchService.ForSeeker"

	key := cache.SeekerMatchesKey(seekerID)
	if out, ok := s.cached(ctx, key); ok {
		return out, nil
	}

	out, err := s.matches.ListForSeeker(ctx, seekerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list matches", err)
	}
	if out == nil {
		out = []models.Match{}
	}
	s.store(ctx, key, out)
	return out, nil
}

func (s *matchService) ForJob(ctx context.Context, businessID, jobID string) ([]models.Match, error) {
	const op = "MatchService.ForJob"

	if _, err := s.jobs.Owned(ctx, businessID, jobID); err != nil {
		return nil, err
	}

	key := cache.JobMatchesKey(jobID)
	if out, ok := s.cached(ctx, key); ok {
		return out, nil
	}

	out, err := s.matches.ListForJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list matches", err)
	}
	if out == nil {
		out = []models.Match{}
	}

	ids := make([]string, 0, len(out))
	for _, m := range out {
		ids = append(ids, m.SeekerID)
	}
	profiles, err := s.profiles.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load seeker profiles", err)
	}
	byUser := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		byUser[profiles[i].UserID] = &profiles[i]
	}
	for i := range out {
		out[i].SeekerProfile = byUser[out[i].SeekerID]
	}

	s.store(ctx, key, out)
	return out, nil
}

func (s *matchService) cached(ctx context.Context, key string) ([]models.Match, bool) {
	if s.cache == nil {
		return nil, false
	}
	var out []models.Match
	hit, err := s.cache.GetJSON(ctx, key, &out)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("match cache read failed")
		return nil, false
	}
	return out, hit
}

func (s *matchService) store(ctx context.Context, key string, v []models.Match) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("match cache write failed")
	}
}
