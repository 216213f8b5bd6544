package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/gigmatch/internal/api/handlers"
	"github.com/yoockh/gigmatch/internal/api/middleware"
)

type Deps struct {
	JWTSecret string

	Auth        *handlers.AuthHandler
	Skill       *handlers.SkillHandler
	Profile     *handlers.ProfileHandler
	Job         *handlers.JobHandler
	Match       *handlers.MatchHandler
	Application *handlers.ApplicationHandler
	Chat        *handlers.ChatHandler
	WS          *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)
	r.GET("/skills", d.Skill.List)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWTSecret))

	auth.GET("/auth/me", d.Auth.Me)

	auth.GET("/profile", d.Profile.Me)
	auth.PATCH("/profile", d.Profile.Update)

	auth.GET("/jobs", d.Job.List)
	auth.GET("/jobs/:id", d.Job.Get)

	business := auth.Group("/")
	business.Use(middleware.RequireBusiness())
	business.POST("/jobs", d.Job.Create)
	business.PUT("/jobs/:id", d.Job.Update)
	business.DELETE("/jobs/:id", d.Job.Delete)
	business.GET("/jobs/:id/matches", d.Job.Matches)
	business.PATCH("/applications/:id", d.Application.SetStatus)

	seeker := auth.Group("/")
	seeker.Use(middleware.RequireSeeker())
	seeker.GET("/matches", d.Match.Mine)
	seeker.POST("/applications", d.Application.Apply)

	auth.GET("/applications", d.Application.List)

	auth.GET("/conversations", d.Chat.ListConversations)
	auth.POST("/conversations", d.Chat.StartConversation)
	auth.GET("/messages", d.Chat.ListMessages)
	auth.POST("/messages", d.Chat.SendMessage)
	auth.GET("/messages/unread_count", d.Chat.UnreadCount)

	// WebSocket
	auth.GET("/ws/conversations/:id", d.WS.ConversationWS)
}
