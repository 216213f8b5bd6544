package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/cache"
	"github.com/yoockh/gigmatch/internal/events"
	"github.com/yoockh/gigmatch/internal/models"
	pgrepo "github.com/yoockh/gigmatch/internal/repositories/postgres"
	"github.com/yoockh/gigmatch/internal/utils"
	"gorm.io/datatypes"
)

type JobInput struct {
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	Address        *string              `json:"address"`
	Location       *string              `json:"location"`
	Latitude       *float64             `json:"latitude"`
	Longitude      *float64             `json:"longitude"`
	RequiredSkills *[]string            `json:"required_skills"`
	Requirements   *models.Availability `json:"requirements"`
	PayPerDay      *int                 `json:"pay_per_day"`
	IsActive       *bool                `json:"is_active"`
}

type JobService interface {
	Create(ctx context.Context, businessID string, in JobInput) (*models.JobPost, error)
	Update(ctx context.Context, businessID, jobID string, in JobInput) (*models.JobPost, error)
	Delete(ctx context.Context, businessID, jobID string) error
	Get(ctx context.Context, jobID string) (*models.JobPost, error)
	// List returns a business's own jobs, or every active job for seekers.
	List(ctx context.Context, userID string, role models.UserRole) ([]models.JobPost, error)
	Deactivate(ctx context.Context, jobID string) error
	// Owned loads a job and checks that businessID owns it.
	Owned(ctx context.Context, businessID, jobID string) (*models.JobPost, error)
}

type jobService struct {
	jobs    pgrepo.JobRepository
	matches pgrepo.MatchRepository
	skills  SkillService
	bus     events.Publisher
	cache   cache.Cache
	log     *logrus.Logger
}

func NewJobService(jobs pgrepo.JobRepository, matches pgrepo.MatchRepository, skills SkillService, bus events.Publisher, c cache.Cache, log *logrus.Logger) JobService {
	return &jobService{jobs: jobs, matches: matches, skills: skills, bus: bus, cache: c, log: log}
}

func validateJobInput(in JobInput, creating bool) string {
	if creating && (in.Title == nil || strings.TrimSpace(*in.Title) == "") {
		return "title is required"
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return "title must not be empty"
	}
	if in.PayPerDay != nil && *in.PayPerDay < 0 {
		return "pay_per_day must not be negative"
	}
	return ""
}

func (s *jobService) Create(ctx context.Context, businessID string, in JobInput) (*models.JobPost, error) {
	const op = "JobService.Create"

	if msg := validateJobInput(in, true); msg != "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, msg, nil)
	}

	j := &models.JobPost{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	applyJobInput(j, in)
	// new jobs always start active
	j.IsActive = true

	var skills []models.Skill
	if in.RequiredSkills != nil {
		var err error
		if skills, err = s.skills.Resolve(ctx, *in.RequiredSkills); err != nil {
			return nil, err
		}
	}

	if err := s.jobs.Create(ctx, j, skills); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}

	evs := []events.Event{{Kind: events.JobSaved, JobID: j.ID}}
	if in.RequiredSkills != nil {
		evs = append(evs, events.Event{Kind: events.JobSkillsChanged, JobID: j.ID})
	}
	if err := events.PublishAll(ctx, s.bus, evs...); err != nil {
		return nil, utils.RefreshFailed(op, err)
	}
	return j, nil
}

func (s *jobService) Update(ctx context.Context, businessID, jobID string, in JobInput) (*models.JobPost, error) {
	const op = "JobService.Update"

	if msg := validateJobInput(in, false); msg != "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, msg, nil)
	}

	j, err := s.Owned(ctx, businessID, jobID)
	if err != nil {
		return nil, err
	}
	applyJobInput(j, in)

	var skills *[]models.Skill
	if in.RequiredSkills != nil {
		resolved, err := s.skills.Resolve(ctx, *in.RequiredSkills)
		if err != nil {
			return nil, err
		}
		skills = &resolved
	}

	if err := s.jobs.Update(ctx, j, skills); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}

	evs := []events.Event{{Kind: events.JobSaved, JobID: j.ID}}
	if skills != nil {
		evs = append(evs, events.Event{Kind: events.JobSkillsChanged, JobID: j.ID})
	}
	if err := events.PublishAll(ctx, s.bus, evs...); err != nil {
		return nil, utils.RefreshFailed(op, err)
	}
	return j, nil
}

func (s *jobService) Delete(ctx context.Context, businessID, jobID string) error {
	const op = "JobService.Delete"

	if _, err := s.Owned(ctx, businessID, jobID); err != nil {
		return err
	}

	// collect affected seekers before the cascade removes their matches
	keys := []string{cache.JobMatchesKey(jobID)}
	if ms, err := s.matches.ListForJob(ctx, jobID); err == nil {
		for _, m := range ms {
			keys = append(keys, cache.SeekerMatchesKey(m.SeekerID))
		}
	}

	if err := s.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete job", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, keys...); err != nil {
			s.log.WithError(err).WithField("job_id", jobID).Warn("match cache invalidation failed")
		}
	}
	return nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.JobPost, error) {
	const op = "JobService.Get"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job id is required", nil)
	}
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return j, nil
}

func (s *jobService) Owned(ctx context.Context, businessID, jobID string) (*models.JobPost, error) {
	const op = "JobService.Owned"

	j, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.BusinessID != businessID {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another business", nil)
	}
	return j, nil
}

func (s *jobService) List(ctx context.Context, userID string, role models.UserRole) ([]models.JobPost, error) {
	const op = "JobService.List"

	var (
		out []models.JobPost
		err error
	)
	if role == models.RoleBusiness {
		out, err = s.jobs.ListByBusiness(ctx, userID)
	} else {
		out, err = s.jobs.ListActive(ctx)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	if out == nil {
		out = []models.JobPost{}
	}
	return out, nil
}

func (s *jobService) Deactivate(ctx context.Context, jobID string) error {
	const op = "JobService.Deactivate"

	if err := s.jobs.SetActive(ctx, jobID, false); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to deactivate job", err)
	}
	if err := s.bus.Publish(ctx, events.Event{Kind: events.JobSaved, JobID: jobID}); err != nil {
		return utils.RefreshFailed(op, err)
	}
	return nil
}

func applyJobInput(j *models.JobPost, in JobInput) {
	if in.Title != nil {
		j.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		j.Description = *in.Description
	}
	if in.Address != nil {
		j.Address = strings.TrimSpace(*in.Address)
	}
	if in.Location != nil {
		j.Location = strings.TrimSpace(*in.Location)
	}
	if in.Latitude != nil {
		j.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		j.Longitude = in.Longitude
	}
	if in.Requirements != nil {
		j.Requirements = datatypes.NewJSONType(*in.Requirements)
	}
	if in.PayPerDay != nil {
		j.PayPerDay = in.PayPerDay
	}
	if in.IsActive != nil {
		j.IsActive = *in.IsActive
	}
}
