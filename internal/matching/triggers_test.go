package matching

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yoockh/gigmatch/internal/events"
	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
)

type recorder struct {
	calls []string
	err   error
}

func (r *recorder) RecomputeForJob(_ context.Context, jobID string) (Result, error) {
	r.calls = append(r.calls, "job:"+jobID)
	return Result{}, r.err
}

func (r *recorder) RecomputeForProfile(_ context.Context, userID string) (Result, error) {
	r.calls = append(r.calls, "profile:"+userID)
	return Result{}, r.err
}

func TestTriggers(t *testing.T) {
	profiles := newFakeProfiles(
		seeker("located", func(p *models.Profile) { p.Location = "Austin" }),
		seeker("nowhere", func(p *models.Profile) { p.Location = "   " }),
	)

	tests := []struct {
		name string
		ev   events.Event
		want []string
	}{
		{"job saved", events.Event{Kind: events.JobSaved, JobID: "j1"}, []string{"job:j1"}},
		{"job skills changed", events.Event{Kind: events.JobSkillsChanged, JobID: "j1"}, []string{"job:j1"}},
		{"profile saved with location", events.Event{Kind: events.ProfileSaved, UserID: "located"}, []string{"profile:located"}},
		{"profile saved without location", events.Event{Kind: events.ProfileSaved, UserID: "nowhere"}, nil},
		{"profile skills changed skips location gate", events.Event{Kind: events.ProfileSkillsChanged, UserID: "nowhere"}, []string{"profile:nowhere"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := events.NewBus()
			rec := &recorder{}
			RegisterTriggers(bus, rec, profiles)

			if err := bus.Publish(context.Background(), tt.ev); err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if !reflect.DeepEqual(rec.calls, tt.want) {
				t.Fatalf("calls = %v, want %v", rec.calls, tt.want)
			}
		})
	}
}

func TestTriggersPropagateErrors(t *testing.T) {
	bus := events.NewBus()
	rec := &recorder{err: utils.E(utils.CodeNotFound, "Engine.RecomputeForJob", "job not found", nil)}
	RegisterTriggers(bus, rec, newFakeProfiles())

	err := bus.Publish(context.Background(), events.Event{Kind: events.JobSaved, JobID: "gone"})
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}

	err = bus.Publish(context.Background(), events.Event{Kind: events.ProfileSaved, UserID: "missing"})
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND for unknown profile", err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("calls = %v, want only the job recompute", rec.calls)
	}
}

func TestTriggersProfileLoadFailure(t *testing.T) {
	bus := events.NewBus()
	profiles := newFakeProfiles()
	profiles.err = errors.New("timeout")
	RegisterTriggers(bus, &recorder{}, profiles)

	err := bus.Publish(context.Background(), events.Event{Kind: events.ProfileSaved, UserID: "x"})
	if !utils.IsCode(err, utils.CodeInternal) {
		t.Fatalf("err = %v, want INTERNAL", err)
	}
}
