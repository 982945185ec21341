package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/config"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/handlers"
	"github.com/mohammed-tarek-rezk/Taskify/internal/middleware"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers into a gin engine.
// generator may be nil, in which case task generation answers 503.
func NewRouter(cfg *config.Config, db *gorm.DB, generator services.TaskGenerator) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	relationRepo := repository.NewRelationRepository(db)

	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	uploadService := services.NewUploadService(cfg.UploadDir)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo, tokens))
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo, teamRepo, projectRepo, taskRepo), uploadService)
	teamHandler := handlers.NewTeamHandler(services.NewTeamService(teamRepo, projectRepo, userRepo, relationRepo))
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(projectRepo, teamRepo, userRepo, relationRepo))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, relationRepo, generator))
	uploadHandler := handlers.NewUploadHandler(uploadService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{constants.TotalCountHeaderName},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.MaxMultipartMemory = constants.MaxUploadFileSize

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Taskify API is running",
		})
	})
	r.Static(constants.UploadURLPrefix, uploadService.Dir())

	requireAuth := middleware.RequireAuth(tokens)
	withID := middleware.RequireIDParams("id")
	withMember := middleware.RequireIDParams("id", "memberId")

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", userHandler.ChangePassword)
			users.POST("/profile/image", userHandler.UploadProfileImage)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", withID, userHandler.GetUser)
		}

		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", withID, teamHandler.GetTeam)
			teams.PUT("/:id", withID, teamHandler.UpdateTeam)
			teams.DELETE("/:id", withID, teamHandler.DeleteTeam)
			teams.POST("/:id/members", withID, teamHandler.AddMember)
			teams.DELETE("/:id/members/:memberId", withMember, teamHandler.RemoveMember)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", withID, projectHandler.GetProject)
			projects.PUT("/:id", withID, projectHandler.UpdateProject)
			projects.DELETE("/:id", withID, projectHandler.DeleteProject)
			projects.POST("/:id/members", withID, projectHandler.AddMember)
			projects.DELETE("/:id/members/:memberId", withMember, projectHandler.RemoveMember)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", withID, taskHandler.GetTask)
			tasks.PUT("/:id", withID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", withID, taskHandler.DeleteTask)
			tasks.POST("/:id/comments", withID, taskHandler.AddComment)
			tasks.PUT("/:id/comments/:commentId", withID, taskHandler.UpdateComment)
			tasks.DELETE("/:id/comments/:commentId", withID, taskHandler.DeleteComment)
			tasks.DELETE("/:id/comments/:commentId/attachments/:index", withID, taskHandler.DeleteCommentAttachment)
			tasks.POST("/:id/attachments", withID, taskHandler.AddAttachments)
			tasks.DELETE("/:id/attachments/:index", withID, taskHandler.DeleteAttachment)
		}

		api.POST("/upload", requireAuth, uploadHandler.Upload)
	}

	return r, nil
}

// newSessionStore uses redis when REDIS_HOST is configured and signed cookies otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(10, "tcp", redisAddr, "", "", []byte(cfg.SessionSecret))
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		store = rs
		logrus.WithField("addr", redisAddr).Info("using redis session store")
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
