// Package engine exposes persona move selection as a gRPC service and
// provides the client the game server uses when the engine runs remotely.
package engine

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"persona_chess/internal/domain/game"
	"persona_chess/internal/errors"
	engineuc "persona_chess/internal/usecase/engine"
)

const (
	ServiceName        = "persona.EngineService"
	generateMoveMethod = "/" + ServiceName + "/GenerateMove"
)

type EngineServiceServer interface {
	GenerateMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GenerateMove", Handler: generateMoveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "engine",
}

func RegisterEngineServiceServer(s grpc.ServiceRegistrar, srv EngineServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func generateMoveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).GenerateMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateMoveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).GenerateMove(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type Server struct {
	uc  *engineuc.EngineUseCase
	log *zap.SugaredLogger
}

func NewServer(uc *engineuc.EngineUseCase, log *zap.SugaredLogger) *Server {
	return &Server{uc: uc, log: log}
}

func (s *Server) GenerateMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req game.EngineMoveRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := s.uc.GenMove(ctx, req)
	if err != nil {
		s.log.Warnw("generate move failed", "persona", req.Persona, "error", err)
		return nil, toStatus(err)
	}

	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.log.Infow("generated move", "persona", resp.Persona, "move", resp.Move.UCI(), "path", resp.Path)
	return out, nil
}

func toStatus(err error) error {
	switch {
	case stderrors.Is(err, errors.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case stderrors.Is(err, errors.ErrGameOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}
