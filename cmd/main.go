package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/config"
	"github.com/prepforge/prepforge/database"
	_ "github.com/prepforge/prepforge/docs" // Swagger docs - auto-generated
	adminctrl "github.com/prepforge/prepforge/internal/controller/admin"
	userctrl "github.com/prepforge/prepforge/internal/controller/user"
	"github.com/prepforge/prepforge/internal/logger"
	"github.com/prepforge/prepforge/internal/middleware"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/prepforge/prepforge/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title PrepForge Exam Platform API
// @version 1.0
// @description Mock-test platform: exam catalog, timed attempts with negative marking, credit purchases via Razorpay/Stripe, and an admin back-office.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCategoryRepository,
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewTransactionRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewScoringService,
			service.NewCreditService,
			service.NewAttemptService,
			service.NewUserService,
			service.NewCatalogService,
			service.NewPaymentService,
			service.NewAdminExamService,
			service.NewAdminQuestionService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewCatalogController,
			userctrl.NewAttemptController,
			userctrl.NewProfileController,
			userctrl.NewPaymentController,
			adminctrl.NewAdminExamController,
			adminctrl.NewAdminQuestionController,
			adminctrl.NewAdminCreditController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Request logging through zerolog instead of gin's default logger.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Auth-Subject", "X-Auth-Email", "X-Auth-Name"},
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
	userSvc service.UserService,
	catalogCtrl *userctrl.CatalogController,
	attemptCtrl *userctrl.AttemptController,
	profileCtrl *userctrl.ProfileController,
	paymentCtrl *userctrl.PaymentController,
	adminExamCtrl *adminctrl.AdminExamController,
	adminQuestionCtrl *adminctrl.AdminQuestionController,
	adminCreditCtrl *adminctrl.AdminCreditController,
) {
	api := router.Group("/api/v1")

	// Public catalog
	api.GET("/categories", catalogCtrl.GetCategories)
	api.GET("/categories/:category_id/exams", catalogCtrl.GetExamsByCategory)
	api.GET("/exams/:exam_id", catalogCtrl.GetExam)

	// Gateway webhooks authenticate via signature, not session.
	api.POST("/payments/stripe/webhook", paymentCtrl.StripeWebhook)

	// Authenticated user surface
	authed := api.Group("")
	authed.Use(middleware.Authenticated(userSvc))
	{
		authed.GET("/me", profileCtrl.GetProfile)
		authed.GET("/me/transactions", profileCtrl.GetTransactions)

		authed.POST("/exams/:exam_id/attempts", attemptCtrl.StartAttempt)
		authed.POST("/exams/:exam_id/attempts/submit", attemptCtrl.SubmitAttempt)
		authed.GET("/attempts", attemptCtrl.GetMyAttempts)
		authed.GET("/attempts/:attempt_id", attemptCtrl.GetAttemptDetails)

		authed.GET("/payments/packages", paymentCtrl.ListPackages)
		authed.POST("/payments/orders", paymentCtrl.CreateOrder)
		authed.POST("/payments/razorpay/confirm", paymentCtrl.ConfirmRazorpayPayment)
		authed.POST("/payments/cancel", paymentCtrl.CancelPayment)
	}

	// Admin back-office
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.Authenticated(userSvc), middleware.AdminOnly())
	{
		adminGroup.POST("/categories", adminExamCtrl.CreateCategory)
		adminGroup.GET("/categories", adminExamCtrl.ListCategories)
		adminGroup.PUT("/categories/:category_id", adminExamCtrl.UpdateCategory)
		adminGroup.DELETE("/categories/:category_id", adminExamCtrl.DeleteCategory)

		adminGroup.POST("/exams", adminExamCtrl.CreateExam)
		adminGroup.PUT("/exams/:exam_id", adminExamCtrl.UpdateExam)
		adminGroup.DELETE("/exams/:exam_id", adminExamCtrl.DeleteExam)
		adminGroup.POST("/exams/:exam_id/questions", adminExamCtrl.AddQuestionToExam)
		adminGroup.DELETE("/exams/:exam_id/questions/:question_id", adminExamCtrl.RemoveQuestionFromExam)

		adminGroup.POST("/questions", adminQuestionCtrl.CreateQuestion)
		adminGroup.GET("/questions", adminQuestionCtrl.ListQuestions)
		adminGroup.GET("/questions/:question_id", adminQuestionCtrl.GetQuestion)
		adminGroup.PUT("/questions/:question_id", adminQuestionCtrl.UpdateQuestion)
		adminGroup.DELETE("/questions/:question_id", adminQuestionCtrl.DeleteQuestion)

		adminGroup.POST("/credits", adminCreditCtrl.AdjustCredits)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("PrepForge API server starting on port %s", cfg.Server.Port)
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
		&model.ExamCategory{},
		&model.Exam{},
		&model.Question{},
		&model.ExamQuestion{},
		&model.ExamAttempt{},
		&model.Answer{},
		&model.CreditTransaction{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
