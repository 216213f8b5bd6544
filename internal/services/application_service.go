package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/cache"
	"github.com/yoockh/gigmatch/internal/models"
	pgrepo "github.com/yoockh/gigmatch/internal/repositories/postgres"
	"github.com/yoockh/gigmatch/internal/utils"
)

type ApplicationService interface {
	Apply(ctx context.Context, seekerID, jobID string) (*models.Application, error)
	List(ctx context.Context, userID string, role models.UserRole) ([]models.Application, error)
	// SetStatus lets the job's owner move an application. Accepting closes
	// the job, rejects the other applicants and messages the seeker.
	SetStatus(ctx context.Context, businessID, applicationID string, status models.ApplicationStatus) (*models.Application, error)
}

type applicationService struct {
	apps     pgrepo.ApplicationRepository
	profiles pgrepo.ProfileRepository
	jobs     JobService
	chat     ChatService
	cache    cache.Cache
	log      *logrus.Logger
}

func NewApplicationService(apps pgrepo.ApplicationRepository, profiles pgrepo.ProfileRepository, jobs JobService, chat ChatService, c cache.Cache, log *logrus.Logger) ApplicationService {
	return &applicationService{apps: apps, profiles: profiles, jobs: jobs, chat: chat, cache: c, log: log}
}

func (s *applicationService) Apply(ctx context.Context, seekerID, jobID string) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job is no longer active", nil)
	}

	a := &models.Application{
		ID:        uuid.NewString(),
		JobID:     job.ID,
		SeekerID:  seekerID,
		Status:    models.StatusApplied,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.apps.Create(ctx, a); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "already applied to this job", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	a.Job = job

	// applied jobs drop out of the seeker's match listing
	s.invalidate(ctx, cache.SeekerMatchesKey(seekerID))
	return a, nil
}

func (s *applicationService) List(ctx context.Context, userID string, role models.UserRole) ([]models.Application, error) {
	const op = "ApplicationService.List"

	var (
		out []models.Application
		err error
	)
	if role == models.RoleBusiness {
		out, err = s.apps.ListByBusiness(ctx, userID)
	} else {
		out, err = s.apps.ListBySeeker(ctx, userID)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if out == nil {
		out = []models.Application{}
	}
	return out, nil
}

func (s *applicationService) SetStatus(ctx context.Context, businessID, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	const op = "ApplicationService.SetStatus"

	if !status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be APPLIED, ACCEPTED or REJECTED", nil)
	}

	a, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}
	job, err := s.jobs.Owned(ctx, businessID, a.JobID)
	if err != nil {
		return nil, err
	}

	if err := s.apps.UpdateStatus(ctx, a.ID, status); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update application", err)
	}
	a.Status = status
	a.Job = job

	if status != models.StatusAccepted {
		return a, nil
	}

	if err := s.jobs.Deactivate(ctx, job.ID); err != nil {
		if !utils.IsCode(err, utils.CodeRefreshFailed) {
			return nil, err
		}
		// the job is closed; the sweep will drop its stale matches
		s.log.WithError(err).WithField("job_id", job.ID).Warn("match refresh after deactivation failed")
	}
	job.IsActive = false

	n, err := s.apps.RejectOthers(ctx, job.ID, a.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reject other applications", err)
	}

	fields := logrus.Fields{
		"job_id":         job.ID,
		"application_id": a.ID,
		"rejected":       n,
	}
	// the hire is committed; the chat notice is best effort
	if err := s.notifyAccepted(ctx, job, a.SeekerID); err != nil {
		s.log.WithError(err).WithFields(fields).Warn("acceptance message not sent")
	}
	s.log.WithFields(fields).Info("application accepted")
	return a, nil
}

func (s *applicationService) notifyAccepted(ctx context.Context, job *models.JobPost, seekerID string) error {
	const op = "ApplicationService.notifyAccepted"

	owner, err := s.profiles.GetOrCreate(ctx, job.BusinessID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load business profile", err)
	}
	conv, err := s.chat.Ensure(ctx, job.BusinessID, seekerID)
	if err != nil {
		return err
	}
	_, err = s.chat.Send(ctx, job.BusinessID, conv.ConversationID, acceptedMessage(job.Title, owner.PhoneNumber))
	return err
}

func acceptedMessage(title, phone string) string {
	return fmt.Sprintf("Congratulations! Your application for '%s' has been accepted. You can contact the business owner at %s.", title, phone)
}

func (s *applicationService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("match cache invalidation failed")
	}
}
