package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/chat"
	"github.com/dearhome/assistant-go/internal/config"
	"github.com/dearhome/assistant-go/internal/di"
	"github.com/dearhome/assistant-go/internal/handlers"
	"github.com/dearhome/assistant-go/internal/kafka"
	"github.com/dearhome/assistant-go/internal/logger"
	"github.com/dearhome/assistant-go/internal/metrics"
	"github.com/dearhome/assistant-go/internal/sync"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	cleanupTasks []func() error
	chatbot      *chat.Chatbot
	consumer     *kafka.Consumer
	producer     *kafka.Producer
}

// GetChatbot returns the conversational entry point.
func (a *App) GetChatbot() *chat.Chatbot {
	return a.chatbot
}

// Init bootstraps configuration, logger, the DI container and the
// event-consuming infrastructure shared by all entry points.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize structured logger.
	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	// Load dynamic configuration.
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}

	container := di.InitContainer()
	if err := di.RegisterProviders(container); err != nil {
		return nil, err
	}

	app := &App{}

	if err := di.Invoke(func(chatbot *chat.Chatbot) {
		app.chatbot = chatbot
	}); err != nil {
		return nil, err
	}

	cfg := config.GetAppConfig()

	// Initialize Kafka (optional). Failure shouldn't block the app.
	if cfg.Kafka.Enabled {
		if err := app.initKafka(cfg); err != nil {
			logger.Warn("Failed to initialize Kafka, entity sync disabled", zap.Error(err))
		}
	}

	// Expose Prometheus metrics (optional).
	if cfg.Metrics.Enabled {
		app.startMetricsServer(cfg.Metrics.Port)
	}

	logger.Info("应用初始化完成",
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.String("vector_store", cfg.VectorStore.Provider))
	return app, nil
}

// initKafka 创建生产者与消费者，注册全部实体同步处理器并重放未送达的应答
func (a *App) initKafka(cfg *config.Config) error {
	err := di.Invoke(func(
		variants *sync.VariantService,
		products *sync.ProductService,
		promotions *sync.PromotionService,
		orders *sync.OrderService,
		journal *handlers.AckJournal,
		logger *zap.Logger,
	) error {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		if err != nil {
			return err
		}
		a.producer = producer
		a.cleanupTasks = append(a.cleanupTasks, producer.Close)

		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, logger)
		if err != nil {
			return err
		}
		a.consumer = consumer
		a.cleanupTasks = append(a.cleanupTasks, consumer.Close)

		handlers.NewVariantSyncHandler(variants, producer, journal, logger).Register(consumer)
		handlers.NewProductSyncHandler(products, producer, journal, logger).Register(consumer)
		handlers.NewPromotionSyncHandler(promotions, producer, journal, logger).Register(consumer)
		handlers.NewOrderSyncHandler(orders, producer, journal, logger).Register(consumer)

		// 补发上次停机前写入成功但未送达的应答
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if replayed := journal.Replay(ctx, producer.Publish); replayed > 0 {
			logger.Info("已补发未送达的应答", zap.Int("count", replayed))
		}

		consumer.Start()
		return nil
	})
	return err
}

func (a *App) startMetricsServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("指标服务退出", zap.Error(err))
		}
	}()
	a.cleanupTasks = append(a.cleanupTasks, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	})
	logger.Info("指标服务已启动", zap.String("port", port))
}

// Shutdown runs cleanup tasks in reverse order.
func (a *App) Shutdown() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Error("清理任务失败", zap.Error(err))
		}
	}
	logger.Sync()
}
