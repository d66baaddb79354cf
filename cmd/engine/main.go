package main

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"persona_chess/internal/bootstrap"
	"persona_chess/internal/engine/book"
	"persona_chess/internal/engine/selector"
	"persona_chess/internal/engine/style"
	engineuc "persona_chess/internal/usecase/engine"
	"persona_chess/microservices/engine"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	openingBook, err := book.Load(cfg.BookPath)
	if err != nil {
		logger.Fatal("Failed to load opening book", zap.Error(err))
	}

	lis, err := net.Listen("tcp", ":"+cfg.EngineGrpcPort)
	if err != nil {
		logger.Fatal("cant listen port", zap.Error(err))
	}

	sel := selector.New(openingBook, style.NewScorer(), selector.WithLogger(logger))
	server := grpc.NewServer()
	engine.RegisterEngineServiceServer(server, engine.NewServer(engineuc.NewEngineUseCase(sel, cfg.DefaultPersona), logger))

	logger.Infof("starting engine server at :%s", cfg.EngineGrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Fatal("engine server stopped", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}
