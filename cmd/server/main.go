package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/cache"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/handlers"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/httpx"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/middleware"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/repository"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/service"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/storage"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/validation"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Multi-Persona Messenger Backend",
		// The attachment cap plus headroom for multipart framing, so the
		// size check in the upload handler sees every over-limit file
		// instead of fiber rejecting the request first.
		BodyLimit: int(validation.MaxAttachmentBytes()) + 1024*1024,
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-MP-CSRF",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	channelCache := cache.NewChannelCache(redisCache)
	presenceCache := cache.NewPresenceCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	personaRepo := repository.NewPersonaRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	typingRepo := repository.NewTypingRepository(db)

	// Initialize services
	channelService := service.NewChannelService(channelRepo, contactRepo, personaRepo, channelCache)
	messageService := service.NewMessageService(messageRepo, channelRepo, channelService, channelCache)
	presenceService := service.NewPresenceService(presenceRepo, presenceCache)
	typingService := service.NewTypingService(typingRepo, channelService)
	directoryService := service.NewDirectoryService(userRepo, contactRepo, personaRepo)

	// Initialize S3/MinIO storage (best-effort; attachment endpoints return 503 if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(channelService, messageService, presenceService, typingService, directoryService)
	broadcast := wsHandler.GetBroadcaster()
	channelHandler := handlers.NewChannelHandler(channelService, broadcast)
	messageHandler := handlers.NewMessageHandler(messageService, typingService, broadcast)
	presenceHandler := handlers.NewPresenceHandler(presenceService, broadcast)
	typingHandler := handlers.NewTypingHandler(typingService, broadcast)
	attachmentHandler := handlers.NewAttachmentHandler(s3Store)
	personaHandler := handlers.NewPersonaHandler(directoryService)

	// Typing rows expire by timestamp; the sweeper just keeps the table
	// from accumulating dead rows.
	go func() {
		ticker := time.NewTicker(models.TypingHorizon * 2)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := typingService.SweepExpired(); err != nil {
				log.Printf("Typing sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("Typing sweep removed %d expired rows", n)
			}
		}
	}()

	// Protected routes
	api := app.Group("/api", middleware.OriginAllowed())
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())

	protected.Get("/personas", personaHandler.List)
	protected.Get("/personas/:id", personaHandler.Get)
	protected.Get("/contacts", personaHandler.ListContacts)
	protected.Get("/contacts/:contactId/channels", channelHandler.ListByContact)
	protected.Get("/contacts/:contactId/unread", channelHandler.ContactUnread)

	protected.Post("/channels/resolve", channelHandler.Resolve)
	protected.Patch("/channels/:id/lock", channelHandler.SetLocked)
	protected.Patch("/channels/:id/notifications", channelHandler.SetNotifications)
	protected.Delete("/channels/:id", channelHandler.Delete)

	protected.Get("/channels/:id/messages", messageHandler.History)
	protected.Post("/channels/:id/messages", messageHandler.Send)
	protected.Post("/channels/:id/read", messageHandler.MarkRead)
	protected.Post("/messages/:id/delivered", messageHandler.MarkDelivered)

	protected.Post("/channels/:id/typing", typingHandler.Signal)
	protected.Delete("/channels/:id/typing", typingHandler.Clear)

	protected.Post("/presence/heartbeat", presenceHandler.Heartbeat)
	protected.Post("/presence/visibility", presenceHandler.Visibility)
	protected.Post("/presence/teardown", presenceHandler.Teardown)
	protected.Post("/presence/query", presenceHandler.GetMany)

	protected.Post(
		"/attachments",
		limiter.New(limiter.Config{
			Max:        30,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalUint(c, "userID"); err == nil {
					return "attachment:" + strconv.FormatUint(uint64(uid), 10)
				}
				return c.IP()
			},
		}),
		attachmentHandler.Upload,
	)
	protected.Get("/attachments/*", attachmentHandler.Download)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			// Upgrade to WebSocket
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		onlineUsers, _ := presenceCache.OnlineCount()
		return c.JSON(fiber.Map{
			"status":       "ok",
			"message":      "Multi-Persona Messenger is running",
			"feed_clients": wsHandler.ConnectedClients(),
			"online_users": onlineUsers,
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
