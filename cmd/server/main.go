// @title           Frame Lab Backend API
// @version         1.0.0
// @description     Backend API for the Frame Lab creative front-end: video and image generation through a generative-AI provider, image editing, structured video prompt authoring, and single-active-session account management on Supabase.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"frame-lab-backend/internal/config"
	"frame-lab-backend/internal/database"
	"frame-lab-backend/internal/genai"
	"frame-lab-backend/internal/handlers"
	"frame-lab-backend/internal/middleware"
	"frame-lab-backend/internal/services"
	"frame-lab-backend/internal/session"
	"frame-lab-backend/internal/supabase"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.GenAIAPIKey == "" {
		log.Println("Warning: no provider API key configured. Requests must carry an X-API-Key header.")
	}

	// Database connection string
	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		log.Println("Warning: DATABASE_URL not set. Migrations will be skipped.")
		log.Println("Please set DATABASE_URL environment variable with your Supabase PostgreSQL connection string")
	}

	// Initialize generative provider client
	genaiClient := genai.NewClient(cfg.GenAIBaseURL, genai.Models{
		Video:     cfg.VideoModel,
		Image:     cfg.ImageModel,
		ImageEdit: cfg.ImageEditModel,
		Text:      cfg.TextModel,
	})

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Create database client for direct queries
	var dbClient *supabase.DatabaseClient
	if dbURL != "" {
		var err error
		dbClient, err = supabase.NewDatabaseClient(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			log.Println("Database operations will be limited. Please configure DATABASE_URL properly.")
		} else {
			defer dbClient.Close()

			// Run migrations
			migrator, err := database.NewMigrator(dbURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}
		}
	}
	if dbClient == nil {
		log.Fatal("A database connection is required for session management. Set DATABASE_URL.")
	}

	// Session guard: local slot, startup check, recurring verification
	localStore, err := session.NewStore(cfg.StateDir)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	guard := session.NewGuard(supabaseClient, dbClient, localStore, cfg.SupabaseJWTSecret)
	if err := guard.CheckInitialSession(); err != nil {
		log.Printf("Warning: startup session check failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go guard.Run(ctx)
	go refreshLoop(ctx, guard)

	// Initialize media service and handlers
	mediaService := services.NewMediaService(genaiClient, dbClient, storageClient, realtimeClient)

	authHandler := handlers.NewAuthHandler(guard)
	keysHandler := handlers.NewKeysHandler(genaiClient, cfg)
	videoHandler := handlers.NewVideoHandler(genaiClient, dbClient, realtimeClient, mediaService, cfg)
	generationsHandler := handlers.NewGenerationsHandler(dbClient, storageClient)
	imagesHandler := handlers.NewImagesHandler(genaiClient, mediaService, cfg)
	promptsHandler := handlers.NewPromptsHandler(genaiClient, cfg)
	optionsHandler := handlers.NewOptionsHandler()

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no session required)
	auth := router.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.GetSession)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.SessionAuth(cfg, guard))

	// Keys
	api.POST("/keys/validate", keysHandler.ValidateKey)

	// Video generation
	api.POST("/generate/video", videoHandler.Generate)
	api.GET("/generations", generationsHandler.List)
	api.GET("/generations/:generation_id", generationsHandler.Get)
	api.GET("/generations/:generation_id/status", generationsHandler.GetStatus)
	api.DELETE("/generations/:generation_id", generationsHandler.Delete)

	// Images
	api.POST("/images/generate", imagesHandler.Generate)
	api.POST("/images/edit", imagesHandler.Edit)
	api.POST("/images/aspect-ratio", imagesHandler.ChangeAspectRatio)
	api.POST("/images/upload", imagesHandler.Upload)

	// Prompt authoring
	api.POST("/prompts/video", promptsHandler.FromDescription)
	api.POST("/prompts/video-from-image", promptsHandler.FromImage)

	// Form options
	api.GET("/options", optionsHandler.GetOptions)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// refreshLoop keeps the Supabase access token fresh while a session is
// live. Each refresh doubles as a token-refresh notification, which makes
// the guard re-verify the session.
func refreshLoop(ctx context.Context, guard *session.Guard) {
	ticker := time.NewTicker(45 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !guard.IsAuthenticated() {
				continue
			}
			if err := guard.RefreshAccessToken(); err != nil {
				log.Printf("access token refresh: %v", err)
			}
		}
	}
}
