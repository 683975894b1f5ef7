package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/handlers"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
	"alfredoptarigan/interview-prep/internal/telemetry"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatalf("❌ Failed to initialize telemetry: %v", err)
	}

	// Initialize LLM backend
	llm, embedder, err := buildLLM(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM backend: %v", err)
	}
	log.Printf("✅ LLM backend %q initialized successfully\n", cfg.LLM.Provider)

	// Rubric retrieval is optional and needs Gemini embeddings
	if embedder == nil && cfg.Qdrant.URL != "" && cfg.LLM.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiService(cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.Interview.RetryInitialDelay)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini embeddings: %v", err)
		}
		embedder = gemini
	}

	var rubrics services.RubricRetriever
	if cfg.Qdrant.URL != "" && embedder != nil {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		rubrics = services.NewRubricRetriever(embedder, qdrantService, 3)
		log.Println("✅ Qdrant rubric retrieval enabled")
	}

	generator := services.NewInterviewGenerator(llm, rubrics, cfg.Interview.TotalQuestions, cfg.Interview.RetryMaxAttempts)
	extractor := services.NewResumeExtractor(services.NewPDFParserService(), services.NewDOCXParserService())

	// Initialize session store
	var store services.SessionStore
	switch cfg.Session.Backend {
	case "valkey":
		valkeyStore, err := services.NewValkeySessionStore(ctx, cfg.Session.ValkeyURL, cfg.Session.ValkeyPassword, cfg.Session.TTL, cfg.Interview.GenerationTimeout+30*time.Second)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Valkey session store: %v", err)
		}
		defer valkeyStore.Close()
		store = valkeyStore
	default:
		memoryStore := services.NewMemorySessionStore(cfg.Session.TTL, cfg.Session.MaxEntries)
		if cfg.Session.TTL > 0 {
			janitor := services.NewJanitor(memoryStore, cfg.Session.SweepInterval)
			janitor.Start(ctx)
			defer janitor.Stop()
		}
		store = memoryStore
	}
	log.Printf("✅ Session store %q initialized\n", cfg.Session.Backend)

	opts := services.InterviewOptions{
		TotalQuestions:    cfg.Interview.TotalQuestions,
		ResumeValidation:  services.ValidationPolicy(cfg.Interview.ResumeValidation),
		GenerationTimeout: cfg.Interview.GenerationTimeout,
	}

	// Optional report archive
	var reportRepo repositories.ReportRepository
	var worker services.ReportWorker
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		reportRepo = repositories.NewReportRepository(db)
		worker = services.NewReportWorker(reportRepo, cfg.Worker.Concurrency, cfg.Interview.RetryMaxAttempts, cfg.Interview.RetryInitialDelay)
		worker.Start(ctx)
		opts.Reports = worker
		log.Println("✅ Report archive enabled")
	}

	// Optional resume archive
	switch cfg.Storage.Archive {
	case "local":
		archive, err := services.NewLocalArchive(cfg.Storage.UploadPath)
		if err != nil {
			log.Fatalf("❌ Failed to create upload directory: %v", err)
		}
		opts.ResumeArchive = archive
	case "s3":
		archive, err := services.NewS3Archive(ctx, services.S3Config{
			Bucket:      cfg.Storage.S3Bucket,
			Region:      cfg.Storage.S3Region,
			EndpointURL: cfg.Storage.S3Endpoint,
			AccessKey:   cfg.Storage.S3AccessKey,
			SecretKey:   cfg.Storage.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("❌ Failed to initialize S3 archive: %v", err)
		}
		opts.ResumeArchive = archive
	}

	interview := services.NewInterviewService(store, extractor, generator, opts)
	log.Println("✅ Interview service initialized")

	interviewHandler := handlers.NewInterviewHandler(interview, cfg.Storage.MaxFileSize)
	reportHandler := handlers.NewReportHandler(interview, reportRepo)

	app := fiber.New(fiber.Config{
		AppName:      "AI Interview Prep API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Interview.GenerationTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.Register(app, interviewHandler, reportHandler)

	go func() {
		<-ctx.Done()
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

	if worker != nil {
		worker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Printf("⚠️  Telemetry shutdown: %v", err)
	}
}

// buildLLM returns the configured text backend and, for Gemini, the embedder
// used by rubric retrieval.
func buildLLM(cfg *config.Config) (services.LLMService, services.EmbeddingService, error) {
	delay := cfg.Interview.RetryInitialDelay

	switch cfg.LLM.Provider {
	case "groq":
		llm, err := services.NewGroqService(cfg.LLM.GroqAPIKey, cfg.LLM.GroqBaseURL, cfg.LLM.GroqModel, delay)
		return llm, nil, err
	case "anthropic":
		llm, err := services.NewAnthropicService(cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicModel, delay)
		return llm, nil, err
	case "gemini":
		gemini, err := services.NewGeminiService(cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, delay)
		if err != nil {
			return nil, nil, err
		}
		return gemini, gemini, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
	}
}
