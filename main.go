package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableorder/config"
	"tableorder/cron"
	"tableorder/database"
	orderRepo "tableorder/database/repository/order"
	"tableorder/handlers"
	"tableorder/middleware"
	"tableorder/routes"
	"tableorder/services/agent"
	"tableorder/services/cart"
	"tableorder/services/extraction"
	ai "tableorder/services/intelligence"
	"tableorder/services/intent"
	"tableorder/services/menu"
	"tableorder/services/session"
	"tableorder/services/speech"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const menuCollection = "menu_items"

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Session store. ENV=test runs without Redis.
	var store session.Store
	var redisPinger utils.Pinger
	useRedis := config.GetEnv() != "test"
	if useRedis {
		if err := utils.InitSessionClient(ctx); err != nil {
			logger.Fatal("main: session store unavailable", zap.Error(err))
		}
		redisStore := session.NewRedisStore(utils.GetSessionClient(), config.SessionTTL(), config.OrderTTL())
		store, redisPinger = redisStore, redisStore
	} else {
		memStore := session.NewMemoryStore(config.SessionTTL(), config.OrderTTL())
		store, redisPinger = memStore, memStore
		logger.Warn("main: using in-memory session store")
	}

	// Mongo is optional: it archives orders and can serve the menu.
	var mongoPinger utils.Pinger
	if err := database.InitDB(ctx); err != nil {
		logger.Warn("main: MongoDB unavailable, order archive disabled", zap.Error(err))
	} else {
		mongoPinger = utils.PingFunc(func(ctx context.Context) error {
			return database.MongoClient.Ping(ctx, nil)
		})
		if err := orderRepo.EnsureIndexes(ctx, database.Database()); err != nil {
			logger.Warn("main: failed to ensure order indexes", zap.Error(err))
		}
	}

	catalog, err := loadCatalog(ctx)
	if err != nil {
		logger.Fatal("main: failed to load menu", zap.Error(err))
	}
	logger.Info("Menu loaded", zap.Int("items", len(catalog.ListItems())))

	model, err := intent.LoadModel(config.AppConfig.IntentModelPath)
	if err != nil {
		logger.Fatal("main: failed to load intent model", zap.Error(err))
	}
	classifier := intent.NewModelClassifier(model)
	extractor := extraction.NewExtractor(catalog)

	generator, closeGenerator, err := buildGenerator(ctx)
	if err != nil {
		logger.Fatal("main: failed to initialize generator", zap.Error(err))
	}
	defer closeGenerator()
	arbiter := ai.NewArbiter(
		generator,
		config.AppConfig.LLMTemperature,
		config.AppConfig.LLMMaxTokens,
		config.LLMTimeout(),
		logger.Named("arbiter"),
	)

	// Archival goes through the queue so placing an order never waits on Mongo.
	var archiver session.OrderArchiver
	var history session.OrderHistory
	var worker interface{ Shutdown() }
	if db := database.Database(); db != nil {
		repo := orderRepo.NewMongoOrderRepo(db)
		history = repo
		if useRedis && config.AppConfig.ArchiveOrders {
			queue := cron.NewArchiveQueue()
			defer queue.Close()
			archiver = queue
			worker = cron.InitArchiveWorker(repo, logger.Named("archive"))
		}
	}

	sessionService := session.NewSessionService(store, catalog, archiver, logger.Named("session"))
	sessionService.History = history
	reconciler := cart.NewReconciler(store, catalog, logger.Named("cart"))

	pipeline, err := agent.NewPipeline(sessionService, classifier, extractor, arbiter, reconciler, catalog, nil, logger.Named("agent"))
	if err != nil {
		logger.Fatal("main: failed to build agent pipeline", zap.Error(err))
	}

	var transcriber speech.Transcriber
	if credentials := config.AppConfig.GoogleServiceAccountFile; credentials != "" {
		gt, err := speech.NewGoogleTranscriber(ctx, credentials, logger.Named("speech"))
		if err != nil {
			logger.Warn("main: voice ordering disabled", zap.Error(err))
		} else {
			defer gt.Close()
			transcriber = gt
		}
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, redisPinger, mongoPinger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewSessionHandler(sessionService),
		handlers.NewMenuHandler(catalog),
		handlers.NewAgentHandler(pipeline, transcriber),
	)
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}
	if client := utils.GetSessionClient(); client != nil {
		_ = client.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

func loadCatalog(ctx context.Context) (*menu.StaticCatalog, error) {
	switch config.AppConfig.MenuSource {
	case "mongo":
		db := database.Database()
		if db == nil {
			return nil, fmt.Errorf("menu source is mongo but MongoDB is not connected")
		}
		return menu.LoadMongo(ctx, db.Collection(menuCollection))
	case "file", "":
		return menu.LoadFile(config.AppConfig.MenuPath)
	default:
		return nil, fmt.Errorf("unknown menu source %q", config.AppConfig.MenuSource)
	}
}

// buildGenerator returns the configured model client and its cleanup.
func buildGenerator(ctx context.Context) (ai.Generator, func(), error) {
	switch config.AppConfig.LLMProvider {
	case "ollama":
		return ai.NewOllamaGenerator(config.AppConfig.OllamaURL, config.AppConfig.OllamaModel), func() {}, nil
	case "gemini", "":
		gen, err := ai.NewGeminiGenerator(ctx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return gen, func() { _ = gen.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", config.AppConfig.LLMProvider)
	}
}
