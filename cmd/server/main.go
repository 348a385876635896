package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/jdillon-sports/AcademyBack/internal/config"
	"github.com/jdillon-sports/AcademyBack/internal/curriculum"
	"github.com/jdillon-sports/AcademyBack/internal/database"
	"github.com/jdillon-sports/AcademyBack/internal/logger"
	"github.com/jdillon-sports/AcademyBack/internal/routes"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		zapLogger.Fatal("DB_URL is required")
	}
	pool, err := database.NewPostgresPool(context.Background(), cfg.DBUrl)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// 3. Load Curriculum
	def := curriculum.Default()
	if cfg.CurriculumPath != "" {
		def, err = curriculum.Load(cfg.CurriculumPath)
		if err != nil {
			zapLogger.Fatal("Failed to load curriculum", zap.Error(err), zap.String("path", cfg.CurriculumPath))
		}
	}

	// 4. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(app, cfg, pool, def, zapLogger)

	// 5. Start Server
	zapLogger.Info("Server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Server failed to start", zap.Error(err))
	}
}
