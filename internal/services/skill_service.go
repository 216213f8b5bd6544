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

const skillsTTL = 10 * time.Minute

type SkillService interface {
	List(ctx context.Context, isCommon *bool) ([]models.Skill, error)
	// Resolve get-or-creates skills by name.
	Resolve(ctx context.Context, names []string) ([]models.Skill, error)
}

type skillService struct {
	skills pgrepo.SkillRepository
	cache  cache.Cache
	log    *logrus.Logger
}

func NewSkillService(skills pgrepo.SkillRepository, c cache.Cache, log *logrus.Logger) SkillService {
	return &skillService{skills: skills, cache: c, log: log}
}

func skillsFilterKey(isCommon *bool) string {
	switch {
	case isCommon == nil:
		return cache.SkillsKey("all")
	case *isCommon:
		return cache.SkillsKey("common")
	default:
		return cache.SkillsKey("uncommon")
	}
}

func (s *skillService) List(ctx context.Context, isCommon *bool) ([]models.Skill, error) {
	const op = "SkillService.List"

	key := skillsFilterKey(isCommon)
	var out []models.Skill
	if s.cache != nil {
		if hit, err := s.cache.GetJSON(ctx, key, &out); err == nil && hit {
			return out, nil
		} else if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("skill cache read failed")
		}
	}

	out, err := s.skills.List(ctx, isCommon)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	if out == nil {
		out = []models.Skill{}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, out, skillsTTL); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("skill cache write failed")
		}
	}
	return out, nil
}

func (s *skillService) Resolve(ctx context.Context, names []string) ([]models.Skill, error) {
	const op = "SkillService.Resolve"

	out, err := s.skills.GetOrCreate(ctx, names)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve skills", err)
	}

	// a resolve may have created skills
	if s.cache != nil && len(out) > 0 {
		t, f := true, false
		if err := s.cache.Del(ctx, skillsFilterKey(nil), skillsFilterKey(&t), skillsFilterKey(&f)); err != nil {
			s.log.WithError(err).Warn("skill cache invalidation failed")
		}
	}
	return out, nil
}
