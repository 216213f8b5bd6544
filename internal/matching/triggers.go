package matching

import (
	"context"

	"github.com/yoockh/gigmatch/internal/events"
)

// Recomputer is the part of Engine the triggers need.
type Recomputer interface {
	RecomputeForJob(ctx context.Context, jobID string) (Result, error)
	RecomputeForProfile(ctx context.Context, userID string) (Result, error)
}

// RegisterTriggers subscribes the recomputation entry points to the bus.
// A saved profile without a primary location is skipped; skill changes on a
// profile always recompute.
func RegisterTriggers(bus *events.Bus, r Recomputer, profiles ProfileSource) {
	forJob := func(ctx context.Context, ev events.Event) error {
		_, err := r.RecomputeForJob(ctx, ev.JobID)
		return err
	}
	forProfile := func(ctx context.Context, ev events.Event) error {
		_, err := r.RecomputeForProfile(ctx, ev.UserID)
		return err
	}

	bus.Subscribe(events.JobSaved, forJob)
	bus.Subscribe(events.JobSkillsChanged, forJob)
	bus.Subscribe(events.ProfileSkillsChanged, forProfile)
	bus.Subscribe(events.ProfileSaved, func(ctx context.Context, ev events.Event) error {
		p, err := profiles.GetByUserID(ctx, ev.UserID)
		if err != nil {
			return loadErr("ProfileSaved", "profile", err)
		}
		if !p.Usable() {
			return nil
		}
		return forProfile(ctx, ev)
	})
}
