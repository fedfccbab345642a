package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giftdraw/backend/internal/config"
	"github.com/giftdraw/backend/internal/database"
	"github.com/giftdraw/backend/internal/draw"
	"github.com/giftdraw/backend/internal/handlers"
	"github.com/giftdraw/backend/internal/middleware"
	"github.com/giftdraw/backend/internal/services"
	"github.com/giftdraw/backend/pkg/logger"
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	generator, err := draw.NewGenerator[uuid.UUID](cfg.Draw.MaxAttempts)
	if err != nil {
		log.Fatalf("draw generator initialization failed: %v", err)
	}

	auditService := services.NewAuditService(db)
	drawService := services.NewDrawService(db, generator, cfg.Draw)
	revealService := services.NewRevealService(db)

	authHandler := handlers.NewAuthHandler(db, auditService)
	usersHandler := handlers.NewUsersHandler(db)
	groupsHandler := handlers.NewGroupsHandler(db, auditService)
	participantsHandler := handlers.NewParticipantsHandler(db, auditService)
	drawHandler := handlers.NewDrawHandler(drawService, auditService)
	revealHandler := handlers.NewRevealHandler(revealService, auditService)
	auditHandler := handlers.NewAuditHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 1 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/version", handlers.GetVersion)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)
	authRoutes.Put("/me", authMiddleware.RequireAuth, authHandler.UpdateMe)
	authRoutes.Put("/password", authMiddleware.RequireAuth, authHandler.ChangePassword)

	userRoutes := api.Group("/users", authMiddleware.RequireAuth, middleware.AdminOnly)
	userRoutes.Get("/", usersHandler.List)
	userRoutes.Get("/:id", usersHandler.Get)
	userRoutes.Delete("/:id", usersHandler.Delete)

	api.Get("/audit", authMiddleware.RequireAuth, middleware.AdminOnly, auditHandler.List)

	groupRoutes := api.Group("/groups", authMiddleware.RequireAuth)
	groupRoutes.Post("/", groupsHandler.Create)
	groupRoutes.Get("/", groupsHandler.List)
	groupRoutes.Get("/:id", groupsHandler.Get)
	groupRoutes.Put("/:id", groupsHandler.Update)
	groupRoutes.Delete("/:id", groupsHandler.Delete)
	groupRoutes.Post("/:id/participants", participantsHandler.Add)
	groupRoutes.Delete("/:id/participants/:participantId", participantsHandler.Remove)
	groupRoutes.Post("/:id/draw", drawHandler.Draw)

	revealRoutes := api.Group("/reveal")
	revealRoutes.Get("/:token", revealHandler.Reveal)
	revealRoutes.Post("/:token/viewed", revealHandler.MarkViewed)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
