package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/cache"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/config"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/db"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/handlers"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/middleware"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// one GORM handle for the whole process, injected into every handler
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}
	denylist := cache.NewTokenDenylist(rdb)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.FreelancerProfile{},
		&models.ClientProfile{},
		&models.Gig{},
		&models.JobPost{},
		&models.JobApplication{},
		&models.Category{},
		&models.Skill{},
		&models.City{},
		&models.Specialty{},
	); err != nil {
		log.Fatal(err)
	}

	// body limit above the 5MB image cap so the handler gets to answer
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Static("/uploads", cfg.UploadDir)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		Denylist:  denylist,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	clientDashH := handlers.NewClientDashboardHandler(gdb)
	freelancerDashH := handlers.NewFreelancerDashboardHandler(gdb)
	profileH := handlers.NewProfileHandler(gdb, cfg.UploadDir)
	gigH := handlers.NewGigHandler(gdb, cfg.UploadDir, cfg.IDEncryptKey)
	jobPostH := handlers.NewJobPostHandler(gdb)
	applicationH := handlers.NewApplicationHandler(gdb)
	taxonomyH := handlers.NewTaxonomyHandler(gdb)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/categories", taxonomyH.GetCategories)
	api.Get("/skills", taxonomyH.GetSkills)
	api.Get("/cities", taxonomyH.GetCities)
	api.Get("/specialties", taxonomyH.GetSpecialties)
	api.Get("/gigs", gigH.ListPublic)
	api.Get("/gigs/:id", gigH.GetDetail)
	api.Get("/job-posts", jobPostH.ListPublic)

	// protected (JWT from cookie or bearer header)
	protected := api.Group("/",
		middleware.JWTAuth(cfg.JWTSecret, denylist),
		middleware.AttachJWTLocals(),
	)

	protected.Post("/auth/logout", authH.Logout)
	protected.Get("/me", authH.Me)

	// dashboards
	protected.Get("/client/dashboard",
		middleware.RequireRoles("client"),
		clientDashH.GetStats,
	)
	protected.Get("/freelancer/dashboard",
		middleware.RequireRoles("freelancer"),
		freelancerDashH.GetStats,
	)

	// profile
	protected.Get("/profile", profileH.Get)
	protected.Put("/profile/freelancer",
		middleware.RequireRoles("freelancer"),
		profileH.UpdateFreelancer,
	)
	protected.Put("/profile/client",
		middleware.RequireRoles("client"),
		profileH.UpdateClient,
	)
	protected.Post("/profile/upload-image", profileH.UploadImage)

	// gigs (freelancer only)
	protected.Post("/freelancer/gigs",
		middleware.RequireRoles("freelancer"),
		gigH.Create,
	)
	protected.Get("/freelancer/gigs",
		middleware.RequireRoles("freelancer"),
		gigH.ListMine,
	)
	protected.Get("/freelancer/gigs/:id",
		middleware.RequireRoles("freelancer"),
		gigH.GetOne,
	)
	protected.Put("/freelancer/gigs/:id",
		middleware.RequireRoles("freelancer"),
		gigH.Update,
	)
	protected.Delete("/freelancer/gigs/:id",
		middleware.RequireRoles("freelancer"),
		gigH.Delete,
	)
	protected.Post("/freelancer/gigs/image",
		middleware.RequireRoles("freelancer"),
		gigH.UploadImage,
	)

	// job posts (client only)
	protected.Post("/client/job-posts",
		middleware.RequireRoles("client"),
		jobPostH.Create,
	)
	protected.Get("/client/job-posts",
		middleware.RequireRoles("client"),
		jobPostH.ListMine,
	)
	protected.Patch("/client/job-posts/:id/complete",
		middleware.RequireRoles("client"),
		jobPostH.Complete,
	)
	protected.Get("/client/job-posts/:id/applications",
		middleware.RequireRoles("client"),
		applicationH.ListForJobPost,
	)

	// applications
	protected.Post("/job-posts/:id/apply",
		middleware.RequireRoles("freelancer"),
		applicationH.Apply,
	)
	protected.Get("/freelancer/applications",
		middleware.RequireRoles("freelancer"),
		applicationH.ListMine,
	)
	protected.Patch("/applications/:id/status",
		middleware.RequireRoles("client"),
		applicationH.SetStatus,
	)

	// admin
	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Post("/categories", taxonomyH.AdminCreateCategory)
	admin.Patch("/categories/:id/status", taxonomyH.AdminSetCategoryStatus)
	admin.Post("/skills", taxonomyH.AdminCreateSkill)
	admin.Patch("/skills/:id/status", taxonomyH.AdminSetSkillStatus)
	admin.Post("/cities", taxonomyH.AdminCreateCity)
	admin.Post("/specialties", taxonomyH.AdminCreateSpecialty)
	admin.Get("/job-posts", jobPostH.AdminList)
	admin.Patch("/job-posts/:id/approval", jobPostH.AdminSetApproval)

	// serve until SIGINT/SIGTERM, then release the pool
	go func() {
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Println("server shutdown:", err)
	}
	if err := db.Close(gdb); err != nil {
		log.Println("db close:", err)
	}
	if err := rdb.Close(); err != nil {
		log.Println("redis close:", err)
	}
}
