package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"promptifyr/config"
	"promptifyr/database"
	_ "promptifyr/docs" // Swagger docs - auto-generated
	"promptifyr/internal/controller"
	adminctrl "promptifyr/internal/controller/admin"
	"promptifyr/internal/logger"
	"promptifyr/internal/middleware"
	"promptifyr/internal/model"
	"promptifyr/internal/repository"
	"promptifyr/internal/service"
)

// @title Promptifyr API
// @version 1.0
// @description Prompt engineering practice platform: write prompts against challenges, get AI-scored feedback, earn points and badges.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewChallengeRepository,
			repository.NewPromptVersionRepository,
		),

		fx.Provide(
			service.NewGeminiLLMService,
			service.NewScoreCalculator,
			service.NewProgressionService,
			service.NewSubmissionService,
			service.NewChallengeService,
			service.NewAuthService,
			service.NewUserService,
		),

		fx.Provide(
			controller.NewAuthController,
			controller.NewChallengeController,
			controller.NewPromptController,
			controller.NewUserController,
			adminctrl.NewAdminChallengeController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(database.SeedChallenges),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authSvc service.AuthService,
	userRepo repository.UserRepository,
	authCtrl *controller.AuthController,
	challengeCtrl *controller.ChallengeController,
	promptCtrl *controller.PromptController,
	userCtrl *controller.UserController,
	adminChallengeCtrl *adminctrl.AdminChallengeController,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", authCtrl.Register)
		api.POST("/auth/login", authCtrl.Login)

		api.GET("/challenges", challengeCtrl.ListChallenges)
		api.GET("/challenges/:id", challengeCtrl.GetChallenge)
		api.GET("/challenges/:id/quiz", promptCtrl.GetQuiz)

		api.GET("/badges", userCtrl.GetBadgeCatalog)
		api.GET("/leaderboard", userCtrl.GetLeaderboard)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(authSvc, userRepo))
		{
			authed.POST("/challenges/:id/submit", promptCtrl.SubmitPrompt)
			authed.POST("/challenges/:id/test", promptCtrl.TestPrompt)
			authed.GET("/challenges/:id/versions", promptCtrl.GetHistory)
			authed.GET("/challenges/:id/versions/:version", promptCtrl.GetVersion)

			authed.GET("/users/me", userCtrl.GetProfile)
			authed.GET("/users/me/badges", userCtrl.GetBadges)
		}
	}

	// Admin catalog management. Not authenticated yet; front it with a
	// gateway until admin roles land.
	adminAPI := router.Group("/api/v1/admin")
	{
		adminAPI.POST("/challenges", adminChallengeCtrl.CreateChallenge)
		adminAPI.PUT("/challenges/:id", adminChallengeCtrl.UpdateChallenge)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Promptifyr API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.PromptVersion{},
		&model.UserBadge{},
		&model.Completion{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
