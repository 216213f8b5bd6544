package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// PubSub fans JSON payloads out to every subscriber of a channel.
type PubSub interface {
	Publish(ctx context.Context, channel string, val any) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error)
}
