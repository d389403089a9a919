package bootstrap

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"lexi-legal-be/internal/config"
	"lexi-legal-be/internal/controller"
	"lexi-legal-be/internal/pkg/logger"
	"lexi-legal-be/internal/repository/implementation"
	"lexi-legal-be/internal/repository/memory"
	"lexi-legal-be/internal/repository/unitofwork"
	"lexi-legal-be/internal/repository/vector"
	"lexi-legal-be/internal/service"
	"lexi-legal-be/pkg/agent"
	"lexi-legal-be/pkg/blob"
	"lexi-legal-be/pkg/cache"
	"lexi-legal-be/pkg/embedding"
	"lexi-legal-be/pkg/embedding/jina"
	"lexi-legal-be/pkg/extract"
	"lexi-legal-be/pkg/form"
	"lexi-legal-be/pkg/llm/factory"
	"lexi-legal-be/pkg/ocr"
	"lexi-legal-be/pkg/rerank"
	"lexi-legal-be/pkg/retriever"
	"lexi-legal-be/pkg/vectorstore"
	"lexi-legal-be/pkg/vectorstore/chromem"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	LawsDomain       = "laws_db"
	ProceduresDomain = "procedures_db"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ChatController      controller.IChatController
	KnowledgeController controller.IKnowledgeController
	UploadController    controller.IUploadController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared, exposed for the ingest CLI
	IngestService service.IIngestService
	Stores        map[string]vectorstore.Store
	Extractor     *extract.Extractor
	Embedder      embedding.EmbeddingProvider
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	cacheStore := cache.NewRedisCache(
		rdb,
		time.Duration(cfg.Redis.ExpirationSeconds)*time.Second,
		cfg.Redis.MemoryThresholdMB,
		stdLogger,
	)

	// 4. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewProvider(cfg.Ai.JinaKey, cfg.Ai.JinaEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Document pipeline
	ocrEngine := ocr.NewHTTPEngine(cfg.Ai.OCRBaseURL)
	extractor := extract.NewExtractor(ocrEngine, cacheStore, stdLogger)
	selector := extract.NewSelector(embeddingProvider, stdLogger)

	// 6. Knowledge bases
	stores := buildStores(db, cfg, stdLogger)

	relevanceFilter := retriever.NewRelevanceFilter(llmProvider, cfg.Ai.RouterModel, stdLogger)
	scorer := rerank.NewJinaReranker(cfg.Ai.JinaKey, cfg.Ai.RerankModel)

	lawsConfig := retriever.DefaultConfig(LawsDomain)
	lawsConfig.CacheResults = true // statute lookups cache, procedures stay live
	lawsPipeline := retriever.NewPipeline(
		stores[LawsDomain], embeddingProvider, relevanceFilter, scorer, cacheStore, lawsConfig, stdLogger,
	)
	proceduresPipeline := retriever.NewPipeline(
		stores[ProceduresDomain], embeddingProvider, relevanceFilter, scorer, cacheStore,
		retriever.DefaultConfig(ProceduresDomain), stdLogger,
	)

	// 7. Agents
	formGenerator := form.NewGenerator(cfg.App.FormOutputDir, stdLogger)

	supervisor := agent.NewSupervisor(llmProvider, cfg.Ai.RouterModel, extractor, selector, stdLogger)
	lawSpecialist := agent.NewLawSpecialist(
		llmProvider, cfg.Ai.LLMModel,
		agent.NewStatuteLookupTool(lawsPipeline, stdLogger),
		stdLogger,
	)
	procedureSpecialist := agent.NewProcedureSpecialist(
		llmProvider, cfg.Ai.LLMModel,
		agent.NewProcedureLookupTool(proceduresPipeline, stdLogger),
		agent.NewCourtFormTool(formGenerator, stdLogger),
		stdLogger,
	)
	generalSpecialist := agent.NewGeneralSpecialist(llmProvider, cfg.Ai.RouterModel, stdLogger)

	dispatcher := agent.NewDispatcher(supervisor, lawSpecialist, procedureSpecialist, generalSpecialist, stdLogger)

	// 8. Services
	threadRepo := memory.NewThreadRepository()
	chatService := service.NewChatService(uowFactory, threadRepo, dispatcher, sysLogger)
	authService := service.NewAuthService(
		uowFactory,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
	)
	ingestService := service.NewIngestService(pubSub)
	consumerService := service.NewConsumerService(pubSub, service.IngestTopic, extractor, embeddingProvider, stores)

	return &Container{
		AuthController:      controller.NewAuthController(authService),
		ChatController:      controller.NewChatController(chatService),
		KnowledgeController: controller.NewKnowledgeController(ingestService),
		UploadController:    controller.NewUploadController(cfg.App.UploadDir),
		ConsumerService:     consumerService,
		IngestService:       ingestService,
		Stores:              stores,
		Extractor:           extractor,
		Embedder:            embeddingProvider,
	}
}

// buildStores resolves one vector store per knowledge domain. The
// chromem backend loads persisted collections from a directory, with
// mount > blob mirror > local default precedence; the pgvector backend
// reads straight from Postgres.
func buildStores(db *gorm.DB, cfg *config.Config, stdLogger *log.Logger) map[string]vectorstore.Store {
	if cfg.Vector.Backend == "pgvector" {
		repo := implementation.NewKnowledgeRepository(db)
		return map[string]vectorstore.Store{
			LawsDomain:       vector.NewPgVectorStore(repo, LawsDomain),
			ProceduresDomain: vector.NewPgVectorStore(repo, ProceduresDomain),
		}
	}

	syncer := blob.NewSyncer(stdLogger)
	cacheDir := cfg.Vector.CacheDir
	if cacheDir == "" {
		cacheDir = "vector_cache"
	}

	stores := make(map[string]vectorstore.Store, 2)
	for _, kb := range []struct {
		domain     string
		mountDir   string
		sasURL     string
		defaultDir string
	}{
		{LawsDomain, cfg.Vector.LawsDir, cfg.Vector.LawsSasURL, "laws_db_chroma"},
		{ProceduresDomain, cfg.Vector.ProcDir, cfg.Vector.ProcSasURL, "procedures_db_chroma"},
	} {
		dir, err := syncer.ChooseDir(
			context.Background(),
			kb.mountDir,
			kb.sasURL,
			filepath.Join(cacheDir, kb.domain),
			kb.defaultDir,
			cfg.Vector.ForceSync,
			cfg.Vector.OverwriteSync,
		)
		if err != nil {
			log.Fatalf("[FATAL] Failed to resolve %s directory: %v", kb.domain, err)
		}

		store, err := chromem.NewStore(dir, kb.domain, stdLogger)
		if err != nil {
			log.Fatalf("[FATAL] Failed to open %s vector store: %v", kb.domain, err)
		}
		stores[kb.domain] = store
		log.Printf("[INFO] Knowledge base %s loaded from %s", kb.domain, dir)
	}

	return stores
}
