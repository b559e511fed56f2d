package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"potterystudio/internal/config"
	"potterystudio/internal/database"
	"potterystudio/internal/domain/availability"
	"potterystudio/internal/domain/booking"
	"potterystudio/internal/domain/entitlement"
	"potterystudio/internal/domain/live"
	"potterystudio/internal/domain/resource"
	"potterystudio/internal/domain/session"
	"potterystudio/internal/domain/waitlist"
	"potterystudio/internal/middleware"
	jwtsvc "potterystudio/internal/pkg/jwt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadBookingRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&resource.Resource{},
		&session.Session{},
		&session.ResourceHold{},
		&entitlement.Subscription{},
		&entitlement.PunchPass{},
		&booking.Booking{},
		&waitlist.Entry{},
	); err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	resourceRepo := resource.NewRepository(db)
	sessionRepo := session.NewRepository(db)
	entitlementRepo := entitlement.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	waitlistRepo := waitlist.NewRepository(db)

	entitlementService := entitlement.NewService(entitlementRepo, bookingRepo)
	availabilityService := availability.NewService(sessionRepo, resourceRepo, sessionRepo, bookingRepo, cfg.SlotGranularity)
	bookingService := booking.NewService(db, bookingRepo, sessionRepo, entitlementService, cfg.CreateRetries, cfg.CheckInGrace)
	waitlistService := waitlist.NewService(db, waitlistRepo)

	hub := live.NewHub()
	bookingService.SetPromoter(waitlistService)
	bookingService.SetEventSink(hub)
	waitlistService.SetEventSink(hub)

	resourceHandler := resource.NewHandler(resourceRepo)
	sessionHandler := session.NewHandler(sessionRepo, cfg.HorizonDays)
	entitlementHandler := entitlement.NewHandler(entitlementService)
	availabilityHandler := availability.NewHandler(availabilityService)
	bookingHandler := booking.NewHandler(bookingService)
	waitlistHandler := waitlist.NewHandler(waitlistService)
	liveHandler := live.NewHandler(hub, j)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	live.RegisterRoutes(r, liveHandler)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.OptionalJWTAuth(j))
	{
		// public catalog reads; staff tokens unlock extra detail
		resourceHandler.RegisterRoutes(v1)
		sessionHandler.RegisterRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			entitlementHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			waitlistHandler.RegisterRoutes(protected)

			staff := protected.Group("/staff")
			staff.Use(middleware.StaffOnly())
			{
				resourceHandler.RegisterStaffRoutes(staff)
				sessionHandler.RegisterStaffRoutes(staff)
				bookingHandler.RegisterStaffRoutes(staff)
				waitlistHandler.RegisterStaffRoutes(staff)
			}
		}
	}

	log.Printf("open studio API listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
