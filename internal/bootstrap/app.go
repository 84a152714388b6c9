package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"revisor-backend/internal/analysis"
	"revisor-backend/internal/llm"
	openai "revisor-backend/internal/llm/openai"
	"revisor-backend/internal/pending"
	"revisor-backend/internal/refdocs"
	"revisor-backend/internal/shared/config"
	"revisor-backend/internal/shared/server"
	"revisor-backend/internal/shared/storage/db"
	"revisor-backend/internal/shared/storage/object"
	localstore "revisor-backend/internal/shared/storage/object/local"
	s3store "revisor-backend/internal/shared/storage/object/s3"
	"revisor-backend/internal/shared/telemetry"
)

// App holds the wired application dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Client          llm.Client
	Pending         pending.Store
	RunsRepo        analysis.RunsRepo
	RefDocsRepo     refdocs.Repo
	RefDocsService  *refdocs.Service
	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
	RefDocsHandler  *refdocs.Handler
}

// Build wires dependencies from configuration. Missing infrastructure
// (database, Redis) degrades to in-memory fallbacks so dev setups work
// without either.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	telemetry.SetLevel(cfg.LogLevel)

	app := &App{Config: cfg}

	// Object store.
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		app.Store = store
	default:
		app.Store = localstore.New(cfg.LocalStoreDir)
	}

	// Database, optional.
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else if err := db.RunMigrations(ctx, conn); err != nil {
			log.Printf("failed to run migrations, falling back to memory: %v", err)
			conn.Close()
		} else {
			app.DB = conn
		}
	}

	if app.DB != nil {
		app.RunsRepo = &analysis.PGRunsRepo{DB: app.DB}
		app.RefDocsRepo = &refdocs.PGRepo{DB: app.DB}
	} else {
		app.RunsRepo = analysis.NewMemoryRunsRepo()
		app.RefDocsRepo = refdocs.NewMemoryRepo()
	}

	// Pending-request store: Redis when configured, else in-process.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("failed to reach redis, falling back to memory: %v", err)
			app.Pending = pending.NewMemoryStore()
		} else {
			app.Pending = pending.NewRedisStore(rdb)
		}
	} else {
		app.Pending = pending.NewMemoryStore()
	}

	// Text-generation client. A missing key is tolerated at startup so the
	// reference-document endpoints stay usable; analyses will fail with a
	// configuration error until credentials arrive.
	client, err := openai.NewClient(cfg.APIEndpoint, cfg.APIKey, cfg.MaxTokens, cfg.Temperature,
		openai.WithMaxRetries(cfg.MaxRetries),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}))
	if err != nil {
		log.Printf("text-generation client not configured: %v", err)
		app.Client = llm.UnconfiguredClient{}
	} else {
		app.Client = client
	}

	app.RefDocsService = refdocs.NewService(app.RefDocsRepo, app.Store)
	app.AnalysisService = analysis.NewService(app.Client, app.RefDocsService, app.Pending, app.RunsRepo, analysis.ServiceOptions{
		ExcerptLimit: cfg.ChunkSize,
		RequestDelay: cfg.RequestDelay,
		Template:     cfg.AnalysisPrompt,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
	})

	app.AnalysisHandler = analysis.NewHandler(app.AnalysisService, app.Store, cfg.MaxTokens)
	app.RefDocsHandler = refdocs.NewHandler(app.RefDocsService)

	app.Router = server.NewRouter(cfg, server.Deps{
		AnalysisHandler: app.AnalysisHandler,
		RefDocsHandler:  app.RefDocsHandler,
	})

	return app, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
