package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jdillon-sports/AcademyBack/internal/config"
	"github.com/jdillon-sports/AcademyBack/internal/crm"
	"github.com/jdillon-sports/AcademyBack/internal/curriculum"
	"github.com/jdillon-sports/AcademyBack/internal/handlers"
	"github.com/jdillon-sports/AcademyBack/internal/middleware"
	"github.com/jdillon-sports/AcademyBack/internal/repository"
	"github.com/jdillon-sports/AcademyBack/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, def *curriculum.Definition, log *zap.Logger) {
	userRepo := repository.NewUserRepository(db)
	athleteProfileRepo := repository.NewAthleteProfileRepository(db)
	coachProfileRepo := repository.NewCoachProfileRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	drillCompletionRepo := repository.NewDrillCompletionRepository(db)

	crmClient := crm.NewClient(cfg.CRMBaseURL, cfg.CRMAPIKey, log)

	bookingService := services.NewBookingService(db, bookingRepo, packageRepo, userRepo, coachProfileRepo, crmClient, log)
	packageService := services.NewPackageService(packageRepo, log)
	progressionService := services.NewProgressionService(db, progressRepo, drillCompletionRepo, def, crmClient)

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		athleteProfileRepo,
		coachProfileRepo,
		cfg.JWTSecret,
	)
	onboardingHandler := handlers.NewOnboardingHandler(athleteProfileRepo, coachProfileRepo, progressionService)
	profileHandler := handlers.NewProfileHandler(athleteProfileRepo, coachProfileRepo)
	coachDirectoryHandler := handlers.NewCoachDirectoryHandler(coachProfileRepo)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	packageHandler := handlers.NewPackageHandler(packageService)
	progressHandler := handlers.NewProgressHandler(progressionService, def)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	members := authProtected.Group("/members")
	members.Post("/onboarding", onboardingHandler.MemberOnboarding)
	members.Get("/profile", profileHandler.GetMemberProfile)
	members.Put("/profile", profileHandler.UpdateMemberProfile)
	members.Get("/packages", packageHandler.ListMemberPackages)

	coaches := authProtected.Group("/coaches")
	coaches.Get("", coachDirectoryHandler.ListCoaches)
	coaches.Post("/onboarding", onboardingHandler.CoachOnboarding)
	coaches.Get("/profile", profileHandler.GetCoachProfile)
	coaches.Put("/profile", profileHandler.UpdateCoachProfile)
	coaches.Get("/:id", coachDirectoryHandler.GetCoachDetail)

	bookings := authProtected.Group("/bookings")
	bookings.Post("", bookingHandler.CreateBooking)
	bookings.Get("", bookingHandler.ListBookings)
	bookings.Get("/availability", bookingHandler.CheckAvailability)
	bookings.Get("/:id", bookingHandler.GetBooking)
	bookings.Put("/:id/cancel", bookingHandler.CancelBooking)

	authProtected.Get("/packages", packageHandler.ListDefinitions)

	progress := authProtected.Group("/progress")
	progress.Get("", progressHandler.GetProgress)
	progress.Post("/advance", progressHandler.Advance)

	drills := authProtected.Group("/drills")
	drills.Post("/:id/complete", progressHandler.CompleteDrill)
	drills.Delete("/:id/complete", progressHandler.UncompleteDrill)

	authProtected.Get("/curriculum", progressHandler.GetCurriculum)
}
