package bootstrap

import (
	"context"
	"fmt"
	"time"

	"okada-agent-be/internal/config"
	"okada-agent-be/internal/controller"
	"okada-agent-be/internal/handler"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/pkg/mailer"
	"okada-agent-be/internal/pkg/serverutils"
	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/internal/repository/implementation"
	"okada-agent-be/internal/repository/memory"
	"okada-agent-be/internal/repository/redisstore"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/internal/service"
	"okada-agent-be/internal/websocket"
	"okada-agent-be/internal/workflow/appointment"
	"okada-agent-be/internal/workflow/recommendation"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/classifier"
	"okada-agent-be/pkg/csvquery"
	"okada-agent-be/pkg/embedding"
	"okada-agent-be/pkg/intent"
	"okada-agent-be/pkg/llm"
	"okada-agent-be/pkg/llm/factory"
	"okada-agent-be/pkg/retrieval"
	"okada-agent-be/pkg/websearch"

	pktNats "okada-agent-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// fileInfoCacheTTL bounds how stale a file lookup may be on this instance.
const fileInfoCacheTTL = 30 * time.Second

type Container struct {
	// Controllers
	ChatController        controller.IChatController
	AppointmentController controller.IAppointmentController
	SessionController     controller.ISessionController
	HealthController      controller.IHealthController
	LiveChatHandler       *handler.LiveChatHandler
	AuthMiddleware        fiber.Handler

	// Background Services (Exposed for main.go to run)
	IngestionService    service.IIngestionService
	TranscriptService   service.ITranscriptService
	NotificationService *service.NotificationService
	WebSocketHub        *websocket.Hub

	// Used directly by the CLI
	ChatService service.IChatService
	UowFactory  unitofwork.RepositoryFactory
	Logger      logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	agentLogger := logger.NewIsolatedLogger(cfg.App.AgentLogFilePath)

	c := &Container{UowFactory: uowFactory, Logger: sysLogger}
	c.closers = append(c.closers, func() { _ = sysLogger.Sync(); _ = agentLogger.Sync() })

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, cfg.SMTP.SenderName)
	} else {
		sysLogger.Warn("Container", "SMTP_HOST not set, confirmation mails are disabled", nil)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Model providers
	llmProvider, err := newLLMProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	sysLogger.Info("Container", "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	embeddingProvider, err := newEmbeddingProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	cachedEmbeddings, err := embedding.NewCachedProvider(embeddingProvider, cfg.Ai.EmbeddingCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("init embedding cache: %w", err)
	}
	sysLogger.Info("Container", "Embedding provider ready", map[string]interface{}{"provider": cfg.Ai.EmbeddingProvider, "model": cfg.Ai.EmbeddingModel})

	// 4. Infrastructure
	// NATS
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("Container", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("Container", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
		natsSub = nil
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis, with in-process stores when it is unreachable
	rdb := connectRedis(ctx, cfg.App.RedisURL, sysLogger)
	var historyStore contract.SessionHistoryStore
	var fileStore contract.SessionFileStore
	if rdb != nil {
		historyStore = redisstore.NewHistoryStore(rdb, cfg.App.SessionTTL)
		fileStore = memory.NewCachedFileStore(redisstore.NewFileStore(rdb, cfg.App.SessionTTL), fileInfoCacheTTL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	} else {
		historyStore = memory.NewHistoryStore(cfg.App.SessionTTL)
		fileStore = memory.NewFileStore(cfg.App.SessionTTL)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	c.WebSocketHub = wsHub

	// 5. Router collaborators
	retriever := retrieval.NewRetriever(cachedEmbeddings, implementation.NewDocumentChunkRepository(db), cfg.Ai.RetrievalMinSimilar, agentLogger)

	csvEngine, err := csvquery.NewEngine(llmProvider, agentLogger, cfg.Ai.CSVTableCacheSize)
	if err != nil {
		return nil, fmt.Errorf("init csv engine: %w", err)
	}
	c.closers = append(c.closers, csvEngine.Close)

	deps := agent.Dependencies{
		LLM:       llmProvider,
		Retriever: retriever,
		Querier:   csvEngine,
		Files:     fileStore,
		Logger:    agentLogger,
	}
	if cfg.Keys.Tavily != "" {
		deps.Searcher = websearch.NewTavilyClient(cfg.Keys.Tavily, cfg.Search.TavilyURL, cfg.Search.MaxResults)
	} else {
		sysLogger.Warn("Container", "TAVILY_API_KEY not set, web search returns no context", nil)
	}

	router := agent.NewRouter(deps, agent.Config{
		TopK:              cfg.Search.TopK,
		WebSearchScope:    cfg.Search.WebSearchScope,
		HistoryWindow:     cfg.Search.HistoryWindow,
		RetrievalTimeout:  cfg.Timeouts.Retrieval,
		SearchTimeout:     cfg.Timeouts.WebSearch,
		CompletionTimeout: cfg.Timeouts.Completion,
		QueryTimeout:      cfg.Timeouts.Query,
	})

	// 6. Workflows
	dates := intent.NewDateParser(cfg.Workflow.Dates)
	appointmentDetector := intent.NewAppointmentDetector(llmProvider, dates, agentLogger, cfg.Timeouts.Intent)
	recommendationDetector := intent.NewRecommendationDetector(llmProvider, agentLogger, cfg.Timeouts.Intent)
	manager := appointment.NewManager(appointment.NewRepositoryStore(uowFactory), appointmentDetector, cfg.Workflow, sysLogger)
	recommender := recommendation.NewService(uowFactory, llmProvider, sysLogger, cfg.Timeouts.Completion)

	// 7. Services
	notificationService := service.NewNotificationService(natsSub, emailService, wsHub, wsLogger) // Hub implements SessionNotifier
	appointmentService := service.NewAppointmentService(manager, eventPublisher, notificationService, sysLogger)
	transcriptService := service.NewTranscriptService(pubSub, uowFactory, sysLogger)
	ingestionService := service.NewIngestionService(pubSub, uowFactory, fileStore, embeddingProvider, eventPublisher, sysLogger)

	chatService := service.NewChatService(service.ChatDependencies{
		History:           historyStore,
		Classifier:        classifier.NewFastClassifier(),
		Appointments:      manager,
		AppointmentIntent: appointmentDetector,
		RecommendIntent:   recommendationDetector,
		Recommendations:   recommender,
		Router:            router,
		Transcript:        transcriptService,
		Events:            eventPublisher,
		Logger:            sysLogger,
	})

	c.IngestionService = ingestionService
	c.TranscriptService = transcriptService
	c.NotificationService = notificationService
	c.ChatService = chatService

	// 8. Controllers
	c.AuthMiddleware = serverutils.JwtMiddleware(cfg.App.JWTSecret)
	c.ChatController = controller.NewChatController(chatService)
	c.AppointmentController = controller.NewAppointmentController(appointmentService)
	c.SessionController = controller.NewSessionController(ingestionService, chatService)
	c.HealthController = controller.NewHealthController(db, rdb)
	c.LiveChatHandler = handler.NewLiveChatHandler(chatService, wsHub, wsLogger)

	return c, nil
}

// StartBackground runs the queue consumers, the notification subscriber and
// the websocket hub until ctx is cancelled.
func (c *Container) StartBackground(ctx context.Context) error {
	if err := c.IngestionService.Consume(ctx); err != nil {
		return fmt.Errorf("start ingestion consumer: %w", err)
	}
	if err := c.TranscriptService.Consume(ctx); err != nil {
		return fmt.Errorf("start transcript consumer: %w", err)
	}
	if err := c.NotificationService.Start(ctx); err != nil {
		c.Logger.Error("Container", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
	}
	go c.WebSocketHub.Run(ctx)
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func connectRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Container", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Container", "Failed to connect to Redis, using in-memory session stores", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newLLMProvider(ctx context.Context, cfg *config.Config) (llm.LLMProvider, error) {
	pc := factory.ProviderConfig{Provider: cfg.Ai.LLMProvider, Model: cfg.Ai.LLMModel}
	switch cfg.Ai.LLMProvider {
	case "openai":
		pc.APIKey = cfg.Keys.OpenAI
		pc.BaseURL = cfg.Ai.OpenAIBaseURL
	case "anthropic":
		pc.APIKey = cfg.Keys.Anthropic
	case "gemini":
		pc.APIKey = cfg.Keys.GoogleGemini
	default:
		pc.BaseURL = cfg.Ai.OllamaBaseURL
		pc.KeepAlive = cfg.Ai.OllamaKeepAlive
		pc.ContextSize = cfg.Ai.OllamaContextSize
		pc.Timeout = cfg.Ai.LLMRequestTimeout
	}
	return factory.NewLLMProvider(ctx, pc)
}

func newEmbeddingProvider(ctx context.Context, cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "openai":
		return embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel)
	case "gemini":
		return embedding.NewGeminiProvider(ctx, cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
	case "ollama", "":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}
