package router

import (
	"log"
	"os"
	"time"

	"github.com/codeforchange/community-api/config"
	"github.com/codeforchange/community-api/database"
	"github.com/codeforchange/community-api/handlers"
	admin_handlers "github.com/codeforchange/community-api/handlers/admin"
	announcement_handlers "github.com/codeforchange/community-api/handlers/announcement"
	auth_handlers "github.com/codeforchange/community-api/handlers/auth"
	event_handlers "github.com/codeforchange/community-api/handlers/event"
	application_handlers "github.com/codeforchange/community-api/handlers/grantapplication"
	program_handlers "github.com/codeforchange/community-api/handlers/grantprogram"
	media_handlers "github.com/codeforchange/community-api/handlers/media"
	project_handlers "github.com/codeforchange/community-api/handlers/project"
	"github.com/codeforchange/community-api/services/storage"
	"github.com/codeforchange/community-api/utils/auth"
	"github.com/codeforchange/community-api/utils/cache"
	"github.com/codeforchange/community-api/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration")
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "community-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        getEnv.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs brute force protection and stats caching. The API stays
	// up without it, with both features disabled.
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and stats caching are disabled.", err)
		redisCache = nil
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Object storage for cover images and pitch decks. Optional in local
	// development.
	var spacesClient *storage.SpacesClient
	if getEnv.SPACES_KEY != "" {
		spacesClient, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: getEnv.SPACES_KEY,
			SecretKey: getEnv.SPACES_SECRET,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
			CDNURL:    getEnv.SPACES_CDN_BASE,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. Uploads are disabled.", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	programHandler := program_handlers.NewProgramHandler(db, redisCache)
	applicationHandler := application_handlers.NewApplicationHandler(db)
	projectHandler := project_handlers.NewProjectHandler(db)
	eventHandler := event_handlers.NewEventHandler(db)
	announcementHandler := announcement_handlers.NewAnnouncementHandler(db)
	mediaHandler := media_handlers.NewMediaHandler(spacesClient)
	adminHandler := admin_handlers.NewAdminHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Grant program routes
	programs := api.Group("/grant-programs")
	programs.Get("/", programHandler.ListPrograms)
	programs.Get("/:id", programHandler.GetProgram)
	programs.Post("/:id/eligibility-check", programHandler.CheckEligibility)
	programs.Post("/", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "program_create", "grant_programs"), programHandler.CreateProgram)
	programs.Put("/:id", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "program_update", "grant_programs"), programHandler.UpdateProgram)
	programs.Delete("/:id", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "program_delete", "grant_programs"), programHandler.DeleteProgram)
	programs.Patch("/:id/feature", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "program_feature_toggle", "grant_programs"), programHandler.ToggleFeatured)
	programs.Patch("/:id/status", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "program_status_update", "grant_programs"), programHandler.SetStatus)
	programs.Get("/:id/stats", authMiddleware.RequireAdmin(), programHandler.GetStats)

	// Grant application routes
	applications := api.Group("/grant-applications")
	applications.Get("/", authMiddleware.RequireAdmin(), applicationHandler.ListApplications)
	applications.Get("/mine", authMiddleware.Required(), applicationHandler.ListMyApplications)
	applications.Get("/:id", authMiddleware.Required(), applicationHandler.GetApplication)
	applications.Post("/", authMiddleware.Required(), applicationHandler.SubmitApplication)
	applications.Patch("/:id/status", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "application_status_update", "grant_applications"), applicationHandler.UpdateStatus)
	applications.Delete("/:id", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "application_delete", "grant_applications"), applicationHandler.DeleteApplication)

	// Project routes
	projects := api.Group("/projects")
	projects.Get("/", projectHandler.ListProjects)
	projects.Get("/:id", projectHandler.GetProject)
	projects.Post("/", authMiddleware.Required(), projectHandler.CreateProject)
	projects.Put("/:id", authMiddleware.Required(), projectHandler.UpdateProject)
	projects.Delete("/:id", authMiddleware.Required(), projectHandler.DeleteProject)

	// Event routes. Reads are public; a valid admin token additionally
	// exposes unpublished entries.
	events := api.Group("/events")
	events.Get("/", authMiddleware.Optional(), eventHandler.ListEvents)
	events.Get("/:id", authMiddleware.Optional(), eventHandler.GetEvent)
	events.Post("/", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "event_create", "events"), eventHandler.CreateEvent)
	events.Put("/:id", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "event_update", "events"), eventHandler.UpdateEvent)
	events.Delete("/:id", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "event_delete", "events"), eventHandler.DeleteEvent)

	// Announcement routes
	announcements := api.Group("/announcements")
	announcements.Get("/", authMiddleware.Optional(), announcementHandler.ListAnnouncements)
	announcements.Get("/:id", authMiddleware.Optional(), announcementHandler.GetAnnouncement)
	announcements.Post("/", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "announcement_create", "announcements"), announcementHandler.CreateAnnouncement)
	announcements.Put("/:id", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "announcement_update", "announcements"), announcementHandler.UpdateAnnouncement)
	announcements.Delete("/:id", authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "announcement_delete", "announcements"), announcementHandler.DeleteAnnouncement)

	// Media routes
	mediaGroup := api.Group("/media", authMiddleware.Required())
	mediaGroup.Post("/images", mediaHandler.UploadImage)
	mediaGroup.Post("/pitch-decks", mediaHandler.UploadPitchDeck)
	mediaGroup.Delete("/", authMiddleware.RequireAdmin(), mediaHandler.DeleteFile)

	// Admin back-office routes
	adminGroup := api.Group("/admin", authMiddleware.RequireAdmin())
	adminGroup.Get("/dashboard", adminHandler.GetDashboard)
	adminGroup.Get("/dashboard/application-trend", adminHandler.GetApplicationTrend)
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/users/:id", adminHandler.GetUser)
	adminGroup.Put("/users/:id",
		middleware.AdminAuditLog(db, "user_update", "users"), adminHandler.UpdateUser)
	adminGroup.Delete("/users/:id",
		middleware.AdminAuditLog(db, "user_delete", "users"), adminHandler.DeleteUser)
	adminGroup.Get("/audit-logs", adminHandler.ListAuditLogs)
	adminGroup.Get("/settings", adminHandler.ListSettings)
	adminGroup.Get("/settings/:key", adminHandler.GetSetting)
	adminGroup.Put("/settings/:key", adminHandler.UpsertSetting)
	adminGroup.Delete("/settings/:key", adminHandler.DeleteSetting)
}
