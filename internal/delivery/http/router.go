package http

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/collabswipe-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Feed     *handler.FeedHandler
	Swipe    *handler.SwipeHandler
	Match    *handler.MatchHandler
	Chat     *handler.ChatHandler
	Project  *handler.ProjectHandler
	Task     *handler.TaskHandler
	Favorite *handler.FavoriteHandler
	Realtime *handler.RealtimeHandler
}

type Router struct {
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	allowedOrigins []string
	log            *zap.Logger
}

func NewRouter(handlers Handlers, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string, log *zap.Logger) *Router {
	return &Router{
		handlers:       handlers,
		authMiddleware: authMiddleware,
		allowedOrigins: allowedOrigins,
		log:            log,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.log), middleware.CORS(r.allowedOrigins))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	h := r.handlers

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.Auth.SignUp)
			auth.POST("/signin", h.Auth.SignIn)
			auth.POST("/signout", r.authMiddleware.RequireAuth(), h.Auth.SignOut)
			auth.GET("/me", r.authMiddleware.RequireAuth(), h.Auth.Me)
		}

		// The socket authenticates itself: browsers cannot send headers on
		// the handshake.
		v1.GET("/realtime", h.Realtime.Connect)

		// Profile routes work before onboarding is complete
		profile := v1.Group("/profile")
		profile.Use(r.authMiddleware.RequireAuth())
		{
			profile.GET("/me", h.Profile.GetMyProfile)
			profile.PUT("/me", h.Profile.UpdateMyProfile)
			profile.POST("/me/avatar", h.Profile.UploadAvatar)
			profile.POST("/complete-onboarding", h.Profile.CompleteOnboarding)
			profile.POST("/generate-bio", h.Profile.GenerateBio)
			profile.GET("/:user_id", h.Profile.GetProfileByUserID)
		}

		// Everything else needs a finished profile
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireOnboarded())
		{
			feed := protected.Group("/feed")
			{
				feed.GET("/candidates", h.Feed.GetCandidates)
				feed.GET("/projects", h.Feed.DiscoverProjects)
			}

			swipe := protected.Group("/swipe")
			{
				swipe.POST("", h.Swipe.CreateSwipe)
				swipe.GET("/likes-received", h.Swipe.GetLikesReceived)
				swipe.GET("/state/:user_id", h.Swipe.GetPairState)
			}

			matches := protected.Group("/matches")
			{
				matches.GET("", h.Match.ListMatches)
				matches.GET("/:id/icebreakers", h.Match.Icebreakers)
			}

			conversations := protected.Group("/conversations")
			{
				conversations.GET("", h.Chat.ListConversations)
				conversations.GET("/:id/messages", h.Chat.ListMessages)
				conversations.POST("/:id/messages", h.Chat.SendMessage)
				conversations.POST("/:id/read", h.Chat.MarkRead)
			}

			projects := protected.Group("/projects")
			{
				projects.POST("", h.Project.Create)
				projects.GET("", h.Project.ListMine)
				projects.GET("/:id", h.Project.Get)
				projects.PUT("/:id", h.Project.Update)
				projects.DELETE("/:id", h.Project.Delete)
				projects.POST("/:id/members", h.Project.AddMember)
				projects.DELETE("/:id/members/:user_id", h.Project.RemoveMember)
				projects.POST("/:id/cover", h.Project.UploadCover)
				projects.GET("/:id/board", h.Project.GetBoard)
				projects.POST("/:id/tasks", h.Project.CreateTask)
			}

			tasks := protected.Group("/tasks")
			{
				tasks.PUT("/:id", h.Task.UpdateTask)
				tasks.DELETE("/:id", h.Task.DeleteTask)
				tasks.POST("/:id/move", h.Task.MoveTask)
				tasks.GET("/:id/comments", h.Task.ListComments)
				tasks.POST("/:id/comments", h.Task.AddComment)
			}

			protected.DELETE("/comments/:id", h.Task.DeleteComment)

			favorites := protected.Group("/favorites")
			{
				favorites.GET("", h.Favorite.List)
				favorites.PUT("/:project_id", h.Favorite.Add)
				favorites.DELETE("/:project_id", h.Favorite.Remove)
			}
		}
	}

	return router
}
