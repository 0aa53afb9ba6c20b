package http

import (
	"fmt"

	"github.com/NoelOsiro/tuma-task-api/internal/config"
	"github.com/NoelOsiro/tuma-task-api/internal/core/services"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/db"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"github.com/NoelOsiro/tuma-task-api/internal/transport/http/handlers"
	httpmw "github.com/NoelOsiro/tuma-task-api/internal/transport/http/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) error {
	// Repositories
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	profileRepo := db.NewProfileRepository(cfg.DB, cfg.Logger)

	// Services
	baseURL := cfg.Config.Server.PublicURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s", cfg.Config.Server.Address())
	}

	storageService, err := services.NewStorageService(services.StorageServiceConfig{
		Config:  cfg.Config.Storage,
		BaseURL: baseURL,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return err
	}

	taskService := services.NewTaskService(services.TaskServiceConfig{
		Repository: taskRepo,
		Logger:     cfg.Logger,
	})

	profileService := services.NewProfileService(services.ProfileServiceConfig{
		Repository: profileRepo,
		Storage:    storageService,
		RefreshTTL: cfg.Config.Storage.RefreshTTL,
		Logger:     cfg.Logger,
	})

	// Handlers
	taskHandler := handlers.NewTaskHandler(taskService, cfg.Logger)
	profileHandler := handlers.NewProfileHandler(profileService, storageService, cfg.Logger)
	storageHandler := handlers.NewStorageHandler(storageService, cfg.Logger)

	api := app.Group("/api")

	// Task routes. The dashboard reaches these through its own server session,
	// so no per-user token is demanded here.
	tasks := api.Group("/tasks")
	tasks.Get("/", taskHandler.ListTasks)
	tasks.Post("/create", taskHandler.CreateTask)
	tasks.Put("/update", taskHandler.UpdateTask)
	tasks.Delete("/", taskHandler.DeleteTask)
	tasks.Post("/search", taskHandler.SearchTasks)
	tasks.Get("/:id", taskHandler.GetTask)

	// Profile routes require the caller's session token.
	profile := api.Group("/profile", httpmw.UserAuth(cfg.Config))
	profile.Patch("/onboarding", profileHandler.UpdateOnboarding)
	profile.Post("/avatar", profileHandler.UploadAvatar)
	profile.Get("/avatar-url", profileHandler.AvatarURL)

	// Signed-URL object downloads.
	app.Get("/storage/:bucket/*", storageHandler.GetObject)

	return nil
}
