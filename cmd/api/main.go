package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"skillscan/resume-analyzer/internal/config"
	"skillscan/resume-analyzer/internal/handlers"
	"skillscan/resume-analyzer/internal/repositories"
	"skillscan/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize record store
	store, err := repositories.NewRedisResumeStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("❌ Failed to initialize record store: %v", err)
	}
	log.Println("✅ Record store initialized successfully")

	// Initialize blob storage
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		log.Fatalf("❌ Failed to load storage credentials: %v", err)
	}
	blobStore := services.NewS3BlobStore(awsCfg, cfg.Storage.Bucket, cfg.Storage.Endpoint)
	log.Println("✅ Blob storage initialized successfully")

	// Initialize conversion services
	engineLoader := services.NewEngineLoader(cfg.Engine.Scale, cfg.Engine.RenderWorkers)
	converter := services.NewConverterService(engineLoader)
	pdfParser := services.NewPDFParserService()
	log.Println("✅ Conversion services initialized successfully")

	// Initialize Gemini AI
	aiProvider, err := services.NewGeminiService(cfg.Gemini.APIKey, blobStore, pdfParser, cfg.Worker.RetryMaxAttempts)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize pipeline
	tracker := services.NewStatusTracker()
	analyzer := services.NewAnalyzerService(blobStore, converter, store, aiProvider, tracker.Record)
	log.Println("✅ Analyzer service initialized")

	// Initialize and start worker
	worker := services.NewWorker(analyzer, tracker, cfg.Worker.Concurrency)
	worker.Start(context.Background())
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(worker, tracker, cfg.Storage.MaxFileSize)
	resumeHandler := handlers.NewResumeHandler(store)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SkillScan Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/analyze/:id/status", analyzeHandler.HandleGetStatus)
	api.Get("/resumes", resumeHandler.HandleListResumes)
	api.Get("/resumes/:id", resumeHandler.HandleGetResume)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "SkillScan Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/analyze",
				"GET /api/v1/analyze/:id/status",
				"GET /api/v1/resumes",
				"GET /api/v1/resumes/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
