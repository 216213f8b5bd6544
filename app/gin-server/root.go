package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yoockh/gigmatch/config"
	"github.com/yoockh/gigmatch/internal/cache"
	"github.com/yoockh/gigmatch/internal/events"
	"github.com/yoockh/gigmatch/internal/logger"
	"github.com/yoockh/gigmatch/internal/matching"
	pgrepo "github.com/yoockh/gigmatch/internal/repositories/postgres"
)

const app = "gigmatch"

var rootCmd = &cobra.Command{
	Use:          app,
	Short:        "gigmatch matches job seekers with short-term jobs",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, rematchCmd, versionCmd)
}

// core is the part of the dependency graph shared by every command that
// touches matches.
type core struct {
	cfg      *config.App
	log      *logrus.Logger
	cache    *cache.RedisCache
	bus      *events.Bus
	engine   *matching.Engine
	users    pgrepo.UserRepository
	skills   pgrepo.SkillRepository
	profiles pgrepo.ProfileRepository
	jobs     pgrepo.JobRepository
	matches  pgrepo.MatchRepository
	apps     pgrepo.ApplicationRepository
}

func loadCore() (*core, error) {
	cfg, err := config.LoadApp()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel)

	if err := config.InitPostgres(log); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	log.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	log.Info("Redis connected")

	db := config.PostgresDB
	c := &core{
		cfg:      cfg,
		log:      log,
		cache:    cache.NewRedisCache(config.RedisClient),
		bus:      events.NewBus(),
		users:    pgrepo.NewUserRepo(db),
		skills:   pgrepo.NewSkillRepo(db),
		profiles: pgrepo.NewProfileRepo(db),
		jobs:     pgrepo.NewJobRepo(db),
		matches:  pgrepo.NewMatchRepo(db),
		apps:     pgrepo.NewApplicationRepo(db),
	}
	c.engine = matching.NewEngine(c.jobs, c.profiles, c.matches, c.cache, log)
	matching.RegisterTriggers(c.bus, c.engine, c.profiles)
	return c, nil
}

func (c *core) close() {
	config.Close(context.Background())
}
