package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"persona_chess/internal/adapters"
	"persona_chess/internal/bootstrap"
	engineDelivery "persona_chess/internal/delivery/engine"
	gameDelivery "persona_chess/internal/delivery/game"
	"persona_chess/internal/engine/book"
	"persona_chess/internal/engine/selector"
	"persona_chess/internal/engine/style"
	ownMiddleware "persona_chess/internal/middleware"
	repo "persona_chess/internal/repository"
	engineuc "persona_chess/internal/usecase/engine"
	gameuc "persona_chess/internal/usecase/game"
	remoteEngine "persona_chess/microservices/engine"
)

type mainDeliveryHandler struct {
	engine *engineDelivery.EngineHandler
	game   *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter  *adapters.AdapterRedis
	mongoAdapter  *adapters.AdapterMongo
	sqliteAdapter *adapters.AdapterSqlite
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, *cfg)
	defer databaseAdapters.close(context.Background())

	openingBook, err := book.Load(cfg.BookPath)
	if err != nil {
		logger.Fatal("Failed to load opening book", zap.Error(err))
	}
	localSelector := selector.New(openingBook, style.NewScorer(), selector.WithLogger(logger))

	var engine gameuc.Engine = localSelector
	if cfg.EngineGrpcAddr != "" {
		client, err := remoteEngine.NewClient(cfg.EngineGrpcAddr)
		if err != nil {
			logger.Fatal("Failed to dial engine service", zap.Error(err))
		}
		defer client.Close()
		engine = client
		logger.Infof("Using remote engine at %s", cfg.EngineGrpcAddr)
	}

	gameUC := initGameUseCase(ctx, *cfg, logger, engine, databaseAdapters)
	defer gameUC.Shutdown()

	r := chi.NewRouter()
	handlers := &mainDeliveryHandler{
		engine: engineDelivery.NewEngineHandler(*cfg, logger, engineuc.NewEngineUseCase(localSelector, cfg.DefaultPersona)),
		game:   gameDelivery.NewGameHandler(*cfg, logger, gameUC),
	}
	handlers.Router(r, cfg.IsLocalCors, cfg.AllowedOrigins())

	server := &http.Server{Addr: ":" + cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool, origins []string) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS(origins))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/engine/move", h.engine.HandleGenerateMove)
	r.Get("/personas", h.engine.HandlePersonas)
	r.Get("/time-controls", h.engine.HandleTimeControls)
	h.game.Register(r)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) *dataBaseAdapters {
	result := &dataBaseAdapters{}

	result.redisAdapter = adapters.NewAdapterRedis(&cfg)
	if err := result.redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	switch cfg.ArchiveDriver {
	case bootstrap.ArchiveMongo:
		result.mongoAdapter = adapters.NewAdapterMongo(&cfg)
		if err := result.mongoAdapter.Init(ctx); err != nil {
			log.Fatal("Failed to initialize MongoDB", zap.Error(err))
		}
	case bootstrap.ArchiveSqlite:
		result.sqliteAdapter = adapters.NewAdapterSqlite(&cfg)
		if err := result.sqliteAdapter.Init(ctx); err != nil {
			log.Fatal("Failed to initialize SQLite", zap.Error(err))
		}
	case bootstrap.ArchiveNone:
	default:
		log.Fatalf("Unknown archive driver %q", cfg.ArchiveDriver)
	}

	log.Infow("Database adapters initialized", "archive", cfg.ArchiveDriver)
	return result
}

func (d *dataBaseAdapters) close(ctx context.Context) {
	if d.mongoAdapter != nil {
		_ = d.mongoAdapter.Close(ctx)
	}
	if d.sqliteAdapter != nil {
		_ = d.sqliteAdapter.Close(ctx)
	}
	_ = d.redisAdapter.Close(ctx)
}

func initGameUseCase(
	ctx context.Context,
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	engine gameuc.Engine,
	databaseAdapters *dataBaseAdapters,
) *gameuc.GameUseCase {
	var mongoDB *mongo.Database
	if databaseAdapters.mongoAdapter != nil {
		mongoDB = databaseAdapters.mongoAdapter.Database
	}
	gameRepo := repo.NewGameRepository(cfg, log, databaseAdapters.redisAdapter.GetClient(), mongoDB)
	sessions := repo.NewSessionRedisStorage(databaseAdapters.redisAdapter.GetClient(), cfg.SessionTTL(), log)

	var archive gameuc.ArchiveStore
	switch {
	case databaseAdapters.mongoAdapter != nil:
		archive = gameRepo
	case databaseAdapters.sqliteAdapter != nil:
		sqliteRepo, err := repo.NewSqliteArchiveRepository(databaseAdapters.sqliteAdapter.DB)
		if err != nil {
			log.Fatal("Failed to prepare SQLite archive", zap.Error(err))
		}
		archive = sqliteRepo
	}

	return gameuc.NewGameUseCase(ctx, log, gameuc.Config{
		DefaultPersona:     cfg.DefaultPersona,
		DefaultTimeControl: cfg.DefaultTimeControl,
		Cadence:            cfg.ClockCadence(),
	}, engine, gameRepo, archive, sessions)
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
