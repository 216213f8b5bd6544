// Package events is a small in-process event bus. Publish runs every
// subscriber inline, in registration order, so a handler always observes the
// state the publisher has already committed.
package events

import (
	"context"
	"errors"
	"sync"
)

type Kind string

const (
	JobSaved             Kind = "job.saved"
	JobSkillsChanged     Kind = "job.skills_changed"
	ProfileSaved         Kind = "profile.saved"
	ProfileSkillsChanged Kind = "profile.skills_changed"
)

type Event struct {
	Kind   Kind
	JobID  string
	UserID string
}

type Handler func(ctx context.Context, ev Event) error

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Bus struct {
	mu   sync.RWMutex
	subs map[Kind][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: map[Kind][]Handler{}}
}

func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], h)
}

// Publish delivers ev to every subscriber of its kind. All subscribers run
// even if one fails; the errors are joined.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subs[ev.Kind]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishAll publishes events in order and joins their errors.
func PublishAll(ctx context.Context, p Publisher, evs ...Event) error {
	var errs []error
	for _, ev := range evs {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
