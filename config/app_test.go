package config

import (
	"testing"
	"time"
)

func TestLoadAppDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_TTL", "")
	t.Setenv("MATCH_CACHE_TTL", "")

	a, err := LoadApp()
	if err != nil {
		t.Fatal(err)
	}
	if a.JWTTTL != 24*time.Hour || a.MatchCacheTTL != time.Minute {
		t.Fatalf("durations = %v / %v", a.JWTTTL, a.MatchCacheTTL)
	}
}

func TestLoadAppSchedule(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	t.Setenv("REMATCH_SCHEDULE", "off")
	a, err := LoadApp()
	if err != nil || a.RematchSchedule != "" {
		t.Fatalf("off: %+v %v", a, err)
	}

	t.Setenv("REMATCH_SCHEDULE", "0 3 * * *")
	if a, err = LoadApp(); err != nil || a.RematchSchedule != "0 3 * * *" {
		t.Fatalf("cron spec: %+v %v", a, err)
	}

	t.Setenv("REMATCH_SCHEDULE", "every tuesday")
	if _, err := LoadApp(); err == nil {
		t.Fatal("invalid schedule accepted")
	}
}

func TestLoadAppErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadApp(); err == nil {
		t.Fatal("missing secret accepted")
	}

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_TTL", "forever")
	if _, err := LoadApp(); err == nil {
		t.Fatal("bad duration accepted")
	}

	t.Setenv("JWT_TTL", "-1h")
	if _, err := LoadApp(); err == nil {
		t.Fatal("negative duration accepted")
	}
}

func TestLoadPostgresPool(t *testing.T) {
	for _, k := range []string{"POSTGRES_MAX_OPEN_CONNS", "POSTGRES_MAX_IDLE_CONNS", "POSTGRES_CONN_MAX_LIFETIME", "POSTGRES_SLOW_QUERY"} {
		t.Setenv(k, "")
	}

	p, err := LoadPostgresPool()
	if err != nil {
		t.Fatal(err)
	}
	if p.MaxOpen != 50 || p.MaxIdle != 10 || p.SlowThreshold != 200*time.Millisecond {
		t.Fatalf("defaults = %+v", p)
	}

	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "4")
	if p, err = LoadPostgresPool(); err != nil || p.MaxIdle != 4 {
		t.Fatalf("idle not capped at open: %+v %v", p, err)
	}

	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "lots")
	if _, err := LoadPostgresPool(); err == nil {
		t.Fatal("non-numeric pool size accepted")
	}
}
