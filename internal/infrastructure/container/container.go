package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/collabswipe-backend/internal/config"
	"github.com/gdugdh24/collabswipe-backend/internal/delivery/http"
	"github.com/gdugdh24/collabswipe-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/collabswipe-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/database"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/scheduler"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/server"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/collabswipe-backend/internal/repository/postgres"
	redisrepo "github.com/gdugdh24/collabswipe-backend/internal/repository/redis"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/auth"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/chat"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/favorite"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/feed"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/match"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/profile"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/project"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/swipe"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/task"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	DB        *sqlx.DB
	Redis     *redis.Client
	Server    *server.Server
	Hub       *realtime.Hub
	Scheduler *scheduler.Scheduler
	Matches   *match.MatchUseCase
	Gemini    *gemini.GeminiClient

	log *zap.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, log: log}

	// Initialize database
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	// Initialize Redis
	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.Redis = redisClient

	// Object storage is optional; uploads answer 503 without it
	var files storage.ObjectStore
	bucket, err := storage.NewBucket(&cfg.Storage)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if bucket != nil {
		if err := bucket.EnsureBucket(ctx); err != nil {
			log.Warn("storage bucket is not ready", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		files = bucket
	} else {
		log.Warn("storage endpoint not configured, uploads disabled")
	}

	// Gemini is optional; fallback texts are used without it
	var writer gemini.Writer
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Warn("failed to initialize gemini client", zap.Error(err))
		} else {
			c.Gemini = geminiClient
			writer = geminiClient
		}
	}

	c.Hub = realtime.NewHub(realtime.NewRedisBroker(redisClient), cfg.Realtime.SubscriberBuffer, log.Named("realtime"))

	c.Scheduler, err = scheduler.New(log)
	if err != nil {
		c.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	sessionRepo := redisrepo.NewSessionRepository(redisClient)
	swipeRepo := postgres.NewSwipeRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	commentRepo := postgres.NewTaskCommentRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(userRepo, profileRepo, sessionRepo, c.Hub, log.Named("auth"), auth.Config{
		JWTSecret:  cfg.JWT.AccessSecret,
		AccessTTL:  cfg.JWT.AccessTTL(),
		SessionTTL: cfg.JWT.SessionTTL(),
	})
	profileUseCase := profile.NewProfileUseCase(profileRepo, files, writer, log.Named("profile"))
	feedUseCase := feed.NewFeedUseCase(profileRepo, projectRepo)
	swipeUseCase := swipe.NewSwipeUseCase(swipeRepo, matchRepo, profileRepo, c.Hub, log.Named("swipe"))
	c.Matches = match.NewMatchUseCase(matchRepo, conversationRepo, profileRepo, writer, log.Named("match"))
	chatUseCase := chat.NewChatUseCase(conversationRepo, messageRepo, matchRepo, profileRepo, c.Hub, log.Named("chat"))
	projectUseCase := project.NewProjectUseCase(projectRepo, profileRepo, files, log.Named("project"))
	taskUseCase := task.NewTaskUseCase(taskRepo, commentRepo, projectRepo, c.Hub, log.Named("task"))
	favoriteUseCase := favorite.NewFavoriteUseCase(favoriteRepo, projectRepo)

	// Initialize handlers
	handlers := http.Handlers{
		Auth:     handler.NewAuthHandler(authUseCase),
		Profile:  handler.NewProfileHandler(profileUseCase),
		Feed:     handler.NewFeedHandler(feedUseCase),
		Swipe:    handler.NewSwipeHandler(swipeUseCase),
		Match:    handler.NewMatchHandler(c.Matches),
		Chat:     handler.NewChatHandler(chatUseCase),
		Project:  handler.NewProjectHandler(projectUseCase, taskUseCase),
		Task:     handler.NewTaskHandler(taskUseCase),
		Favorite: handler.NewFavoriteHandler(favoriteUseCase),
		Realtime: handler.NewRealtimeHandler(c.Hub, authUseCase, chatUseCase, taskUseCase, projectUseCase,
			cfg.CORS.AllowedOrigins, log.Named("ws")),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase, log.Named("auth"))

	// Initialize router
	router := http.NewRouter(handlers, authMiddleware, cfg.CORS.AllowedOrigins, log.Named("http"))

	// Initialize server
	c.Server = server.NewServer(&cfg.Server, router.Setup(), log)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.log.Warn("error closing redis", zap.Error(err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
