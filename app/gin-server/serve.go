package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yoockh/gigmatch/config"
	"github.com/yoockh/gigmatch/internal/api/handlers"
	"github.com/yoockh/gigmatch/internal/api/middleware"
	"github.com/yoockh/gigmatch/internal/api/routes"
	mongorepo "github.com/yoockh/gigmatch/internal/repositories/mongo"
	"github.com/yoockh/gigmatch/internal/services"
	"github.com/yoockh/gigmatch/internal/workers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCore()
		if err != nil {
			return err
		}
		defer c.close()

		if err := config.InitMongo(); err != nil {
			return err
		}
		c.log.Info("MongoDB connected")

		mdb, err := config.MongoDatabase(c.cfg.MongoDB)
		if err != nil {
			return err
		}
		if err := config.EnsureMongoIndexes(mdb); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		skillSvc := services.NewSkillService(c.skills, c.cache, c.log)
		jobSvc := services.NewJobService(c.jobs, c.matches, skillSvc, c.bus, c.cache, c.log)
		chatSvc := services.NewChatService(mongorepo.NewConversationRepo(mdb), mongorepo.NewMessageRepo(mdb), c.users, c.cache, c.log)
		matchSvc := services.NewMatchService(c.matches, c.profiles, jobSvc, c.cache, c.cfg.MatchCacheTTL, c.log)

		deps := routes.Deps{
			JWTSecret:   c.cfg.JWTSecret,
			Auth:        handlers.NewAuthHandler(services.NewAuthService(c.users, c.profiles, c.cfg.JWTSecret, c.cfg.JWTTTL)),
			Skill:       handlers.NewSkillHandler(skillSvc),
			Profile:     handlers.NewProfileHandler(services.NewProfileService(c.profiles, skillSvc, c.bus)),
			Job:         handlers.NewJobHandler(jobSvc, matchSvc),
			Match:       handlers.NewMatchHandler(matchSvc),
			Application: handlers.NewApplicationHandler(services.NewApplicationService(c.apps, c.profiles, jobSvc, chatSvc, c.cache, c.log)),
			Chat:        handlers.NewChatHandler(chatSvc),
			WS:          handlers.NewWSHandler(chatSvc, c.cache, c.log),
		}

		if c.cfg.RematchSchedule != "" {
			sweeper := &workers.RematchSweeper{
				Engine:   c.engine,
				Schedule: c.cfg.RematchSchedule,
				Logger:   c.log,
			}
			if err := sweeper.Start(ctx); err != nil {
				return err
			}
			defer sweeper.Stop()
		}

		r := gin.New()
		r.Use(gin.Recovery(), middleware.RequestLogger(c.log))
		routes.RegisterRoutes(r, deps)

		srv := &http.Server{
			Addr:              ":" + c.cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			c.log.WithField("addr", srv.Addr).Info("http server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		c.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
