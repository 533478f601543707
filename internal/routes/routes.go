package routes

import (
	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/config"
	"github.com/atakamran/liftlegends-sub000/internal/handlers"
	"github.com/atakamran/liftlegends-sub000/internal/mailer"
	"github.com/atakamran/liftlegends-sub000/internal/middleware"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	assistantws "github.com/atakamran/liftlegends-sub000/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the API under /api/:backend. The returned hub is
// already running; the caller stops it on shutdown.
func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	registry *backend.Registry,
	notifier mailer.Notifier,
	logger *zap.Logger,
) *assistantws.Hub {
	authService := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, logger)
	profileService := services.NewProfileService()
	subscriptionService := services.NewSubscriptionService(logger)
	migrationService := services.NewMigrationService(authService, notifier, logger)
	exerciseService := services.NewExerciseService()
	workoutService := services.NewWorkoutService()
	guidanceService := services.NewGuidanceService()
	assistantService := services.NewAssistantService()

	hub := assistantws.NewHub(logger)
	go hub.Run()

	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	migrationHandler := handlers.NewMigrationHandler(migrationService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService, profileService)
	guidanceHandler := handlers.NewGuidanceHandler(guidanceService)
	assistantHandler := handlers.NewAssistantHandler(assistantService, hub)

	requireAuth := middleware.AuthRequired(cfg.JWTSecret, registry)
	gate := func(feature models.Feature) fiber.Handler {
		return middleware.FeatureRequired(subscriptionService, feature)
	}

	api := app.Group("/api/:backend", middleware.BackendRequired(registry))

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", requireAuth, authHandler.Refresh)
	auth.Get("/me", requireAuth, authHandler.Me)

	api.Post("/migration/guest", migrationHandler.Guest)

	v1 := api.Group("/v1", requireAuth)

	v1.Get("/profile", profileHandler.GetProfile)
	v1.Put("/profile", profileHandler.UpdateProfile)
	v1.Delete("/profile", profileHandler.DeleteProfile)

	v1.Get("/subscription", subscriptionHandler.GetSubscription)
	v1.Put("/subscription", subscriptionHandler.UpdateSubscription)
	v1.Get("/features/:feature", subscriptionHandler.CheckFeature)

	workouts := v1.Group("/workouts")
	workouts.Get("", workoutHandler.ListWorkouts)
	workouts.Get("/recommended", workoutHandler.RecommendedWorkout)
	workouts.Get("/:id", workoutHandler.GetWorkout)

	exercises := v1.Group("/exercises/completed")
	exercises.Get("", exerciseHandler.ListCompleted)
	exercises.Post("", exerciseHandler.ToggleCompleted)

	guidance := v1.Group("/guidance")
	guidance.Get("/food-plan", gate(models.FeatureFoodPlans), guidanceHandler.FoodPlan)
	guidance.Get("/supplements", gate(models.FeatureSupplements), guidanceHandler.Supplements)
	guidance.Get("/steroids", gate(models.FeatureSteroids), guidanceHandler.Steroids)

	assistant := v1.Group("/assistant", gate(models.FeatureAIAssistant))
	assistant.Post("/messages", assistantHandler.Ask)
	assistant.Get("/ws", assistantHandler.WebSocketUpgrade, websocket.New(assistantHandler.HandleWebSocket))

	migration := v1.Group("/migration")
	migration.Get("/export", migrationHandler.Export)
	migration.Post("/import", migrationHandler.Import)

	return hub
}
