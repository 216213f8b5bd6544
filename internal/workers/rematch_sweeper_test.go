package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yoockh/gigmatch/internal/logger"
	"github.com/yoockh/gigmatch/internal/matching"
)

type fakeEngine struct {
	calls    int
	res      matching.Result
	err      error
	deadline bool
}

func (f *fakeEngine) RecomputeAll(ctx context.Context) (matching.Result, error) {
	f.calls++
	_, f.deadline = ctx.Deadline()
	return f.res, f.err
}

func TestRunOnce(t *testing.T) {
	eng := &fakeEngine{res: matching.Result{Scored: 4, Upserted: 3, Deleted: 1}}
	s := &RematchSweeper{Engine: eng, Timeout: time.Minute, Logger: logger.Discard()}

	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res != eng.res || eng.calls != 1 || !eng.deadline {
		t.Fatalf("res=%+v calls=%d deadline=%v", res, eng.calls, eng.deadline)
	}
}

func TestRunOncePropagatesError(t *testing.T) {
	boom := errors.New("boom")
	s := &RematchSweeper{Engine: &fakeEngine{err: boom}, Logger: logger.Discard()}

	if _, err := s.RunOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestStartValidates(t *testing.T) {
	ctx := context.Background()
	if err := (&RematchSweeper{Schedule: "@every 1h"}).Start(ctx); err == nil {
		t.Fatal("missing engine accepted")
	}
	if err := (&RematchSweeper{Engine: &fakeEngine{}}).Start(ctx); err == nil {
		t.Fatal("empty schedule accepted")
	}
	if err := (&RematchSweeper{Engine: &fakeEngine{}, Schedule: "nonsense", Logger: logger.Discard()}).Start(ctx); err == nil {
		t.Fatal("bad schedule accepted")
	}
}

func TestStartAndStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &RematchSweeper{Engine: &fakeEngine{}, Schedule: "@every 1h", Logger: logger.Discard()}
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	s.Stop()
}
