package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/viv500/GenesisAI/internal/config"
	"github.com/viv500/GenesisAI/internal/controller"
	"github.com/viv500/GenesisAI/internal/handler"
	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/internal/pkg/metrics"
	"github.com/viv500/GenesisAI/internal/repository/memory"
	"github.com/viv500/GenesisAI/internal/repository/unitofwork"
	"github.com/viv500/GenesisAI/internal/service"
	"github.com/viv500/GenesisAI/internal/websocket"
	"github.com/viv500/GenesisAI/pkg/assistant"
	"github.com/viv500/GenesisAI/pkg/database"
	pktNats "github.com/viv500/GenesisAI/pkg/nats"
)

type Container struct {
	// Controllers
	BoardController    controller.IBoardController
	ChatController     controller.IChatController
	StickyController   controller.IStickyController
	FeedbackController controller.IFeedbackController

	// Services, exposed for main.go and the CLI
	BoardService    service.IBoardService
	ConsumerService service.IConsumerService

	// WebSockets & observability
	WebSocketHub *websocket.Hub
	Metrics      *metrics.Metrics
	Logger       logger.ILogger

	db       *gorm.DB
	pubSub   *gochannel.GoChannel
	natsPub  *pktNats.Publisher
	rdb      *redis.Client
	wsLogger logger.ILogger
}

// OpenStore connects and migrates the board database. It returns a nil
// factory when persistence is disabled, which keeps the board in memory.
func OpenStore(ctx context.Context, cfg *config.Config) (unitofwork.RepositoryFactory, *gorm.DB, error) {
	if !cfg.PersistenceEnabled() {
		return nil, nil, nil
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	if err := uowFactory.Migrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate board tables: %w", err)
	}
	return uowFactory, db, nil
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	uowFactory, db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if uowFactory == nil {
		sysLogger.Warn("Bootstrap", "No database configured, board is kept in memory", nil)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)

	responder, err := assistant.New(cfg.Chat.Mode, cfg.Chat.RemoteURL, cfg.Chat.Timeout)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using chat responder: %s", responder.Name())

	// 3. Services
	sessionRepo := memory.NewSessionRepository(cfg.Board.SessionTTL)
	proposalRepo := memory.NewProposalRepository(cfg.Chat.ProposalTTL)

	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	boardService := service.NewBoardService(uowFactory, sessionRepo, publisherService, sysLogger)
	if err := boardService.Init(ctx, cfg.Board.SeedDemo); err != nil {
		return nil, fmt.Errorf("failed to initialise board: %w", err)
	}

	chatService := service.NewChatService(boardService, responder, proposalRepo, sysLogger)
	stickyService := service.NewStickyService(boardService)
	feedbackService := service.NewFeedbackService(cfg.Board.FeedbackTTL, sysLogger)

	// 4. Infrastructure
	// NATS
	var (
		natsPub   *pktNats.Publisher
		forwarder service.EventForwarder
	)
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
		}
	}

	// Redis
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.StreamLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	m := metrics.New()
	m.TrackConnections(wsHub.ConnectedCount)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EventTopic,
		wsHub,
		forwarder,
		feedbackService,
		m,
		sysLogger,
	)

	streamHandler := handler.NewBoardStreamHandler(boardService, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		BoardController:    controller.NewBoardController(boardService, streamHandler.ServeWs),
		ChatController:     controller.NewChatController(chatService),
		StickyController:   controller.NewStickyController(stickyService),
		FeedbackController: controller.NewFeedbackController(feedbackService),

		BoardService:    boardService,
		ConsumerService: consumerService,

		WebSocketHub: wsHub,
		Metrics:      m,
		Logger:       sysLogger,

		db:       db,
		pubSub:   pubSub,
		natsPub:  natsPub,
		rdb:      rdb,
		wsLogger: wsLogger,
	}, nil
}

// Start runs the hub and the event consumer until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	return c.ConsumerService.Consume(ctx)
}

func (c *Container) Close() {
	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn("Bootstrap", "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = c.wsLogger.Sync()
	_ = c.Logger.Sync()
}
