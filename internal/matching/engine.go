package matching

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/cache"
	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
)

// JobSource loads job posts with their required skills.
type JobSource interface {
	GetByID(ctx context.Context, id string) (*models.JobPost, error)
	ListActive(ctx context.Context) ([]models.JobPost, error)
}

// ProfileSource loads profiles with their skills.
type ProfileSource interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ListSeekerProfiles(ctx context.Context) ([]models.Profile, error)
}

// MatchStore writes match rows. Upsert must be keyed on (job_id, seeker_id)
// and keep the identity of an existing row.
type MatchStore interface {
	Upsert(ctx context.Context, m *models.Match) error
	Delete(ctx context.Context, jobID, seekerID string) (bool, error)
	DeleteBySeeker(ctx context.Context, seekerID string) (jobIDs []string, err error)
}

// Invalidator drops cached match listings. cache.Cache satisfies it.
type Invalidator interface {
	Del(ctx context.Context, keys ...string) error
}

// Result summarizes one recomputation.
type Result struct {
	Scored   int `json:"scored"`
	Upserted int `json:"upserted"`
	Deleted  int `json:"deleted"`
}

func (r *Result) add(o Result) {
	r.Scored += o.Scored
	r.Upserted += o.Upserted
	r.Deleted += o.Deleted
}

// Engine keeps the match table consistent with current jobs and profiles.
// Every call re-derives scores from scratch, so repeating it is harmless.
type Engine struct {
	jobs     JobSource
	profiles ProfileSource
	matches  MatchStore
	cache    Invalidator
	log      *logrus.Logger
	now      func() time.Time
}

func NewEngine(jobs JobSource, profiles ProfileSource, matches MatchStore, inv Invalidator, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		jobs:     jobs,
		profiles: profiles,
		matches:  matches,
		cache:    inv,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecomputeForJob scores every seeker profile against the job. Profiles are
// scored even when unavailable; availability only gates the write.
func (e *Engine) RecomputeForJob(ctx context.Context, jobID string) (Result, error) {
	const op = "Engine.RecomputeForJob"

	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return Result{}, loadErr(op, "job", err)
	}

	profiles, err := e.profiles.ListSeekerProfiles(ctx)
	if err != nil {
		return Result{}, utils.E(utils.CodeInternal, op, "failed to list seeker profiles", err)
	}

	var res Result
	keys := newKeySet()
	for i := range profiles {
		p := &profiles[i]
		score := Score(job, p)
		res.Scored++
		if err := e.apply(ctx, job.ID, p.UserID, score, p.IsAvailable, &res, keys); err != nil {
			return res, utils.E(utils.CodeInternal, op, "failed to reconcile match", err)
		}
	}
	e.invalidate(ctx, keys)

	e.log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"scored":   res.Scored,
		"upserted": res.Upserted,
		"deleted":  res.Deleted,
	}).Debug("recomputed matches for job")
	return res, nil
}

// RecomputeForProfile scores every active job against the seeker's profile.
// An unavailable seeker loses all matches without any scoring.
func (e *Engine) RecomputeForProfile(ctx context.Context, userID string) (Result, error) {
	const op = "Engine.RecomputeForProfile"

	profile, err := e.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return Result{}, loadErr(op, "profile", err)
	}

	var res Result
	keys := newKeySet()
	keys.add(cache.SeekerMatchesKey(profile.UserID))

	if !profile.IsAvailable {
		jobIDs, err := e.matches.DeleteBySeeker(ctx, profile.UserID)
		if err != nil {
			return res, utils.E(utils.CodeInternal, op, "failed to delete seeker matches", err)
		}
		res.Deleted = len(jobIDs)
		for _, id := range jobIDs {
			keys.add(cache.JobMatchesKey(id))
		}
		e.invalidate(ctx, keys)
		e.log.WithFields(logrus.Fields{
			"seeker_id": profile.UserID,
			"deleted":   res.Deleted,
		}).Debug("seeker unavailable, matches cleared")
		return res, nil
	}

	jobs, err := e.jobs.ListActive(ctx)
	if err != nil {
		return res, utils.E(utils.CodeInternal, op, "failed to list active jobs", err)
	}

	for i := range jobs {
		j := &jobs[i]
		score := Score(j, profile)
		res.Scored++
		if err := e.apply(ctx, j.ID, profile.UserID, score, true, &res, keys); err != nil {
			return res, utils.E(utils.CodeInternal, op, "failed to reconcile match", err)
		}
	}
	e.invalidate(ctx, keys)

	e.log.WithFields(logrus.Fields{
		"seeker_id": profile.UserID,
		"scored":    res.Scored,
		"upserted":  res.Upserted,
		"deleted":   res.Deleted,
	}).Debug("recomputed matches for profile")
	return res, nil
}

// RecomputeAll re-runs the job path for every active job.
func (e *Engine) RecomputeAll(ctx context.Context) (Result, error) {
	const op = "Engine.RecomputeAll"

	jobs, err := e.jobs.ListActive(ctx)
	if err != nil {
		return Result{}, utils.E(utils.CodeInternal, op, "failed to list active jobs", err)
	}

	var total Result
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return total, utils.E(utils.CodeTimeout, op, "sweep interrupted", err)
		}
		res, err := e.RecomputeForJob(ctx, j.ID)
		if err != nil {
			// a job deleted mid-sweep is not a failure
			if utils.IsCode(err, utils.CodeNotFound) {
				continue
			}
			return total, err
		}
		total.add(res)
	}
	return total, nil
}

// apply writes the match when score > 0 and keep holds, otherwise removes it.
func (e *Engine) apply(ctx context.Context, jobID, seekerID string, score float64, keep bool, res *Result, keys keySet) error {
	if score > 0 && keep {
		m := &models.Match{
			ID:        uuid.NewString(),
			JobID:     jobID,
			SeekerID:  seekerID,
			Score:     score,
			CreatedAt: e.now(),
		}
		if err := e.matches.Upsert(ctx, m); err != nil {
			return err
		}
		res.Upserted++
	} else {
		removed, err := e.matches.Delete(ctx, jobID, seekerID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
		res.Deleted++
	}
	keys.add(cache.JobMatchesKey(jobID))
	keys.add(cache.SeekerMatchesKey(seekerID))
	return nil
}

func (e *Engine) invalidate(ctx context.Context, keys keySet) {
	if e.cache == nil || len(keys) == 0 {
		return
	}
	if err := e.cache.Del(ctx, keys.list()...); err != nil {
		e.log.WithError(err).Warn("match cache invalidation failed")
	}
}

func loadErr(op, what string, err error) error {
	if errors.Is(err, utils.ErrNotFound) || utils.IsCode(err, utils.CodeNotFound) {
		return utils.E(utils.CodeNotFound, op, what+" not found", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to load "+what, err)
}

type keySet map[string]struct{}

func newKeySet() keySet { return keySet{} }

func (k keySet) add(key string) { k[key] = struct{}{} }

func (k keySet) list() []string {
	out := make([]string, 0, len(k))
	for key := range k {
		out = append(out, key)
	}
	return out
}
