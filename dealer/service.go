package dealer

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MarshHawk/unlimited-poker/game"
)

const (
	serviceName    = "deal.Dealer"
	dealMethod     = "Deal"
	dealFullMethod = "/" + serviceName + "/" + dealMethod
)

type DealRequest struct {
	SeatCount int
}

// Server is the dealing service as seen from the grpc side.
type Server interface {
	Deal(ctx context.Context, req *DealRequest) (*game.DealResult, error)
}

func dealHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		dealReq, err := decodeDealRequest(req.(*structpb.Struct))
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		result, err := srv.(Server).Deal(ctx, dealReq)
		if err != nil {
			return nil, err
		}
		return encodeDealResult(result)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: dealFullMethod,
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: dealMethod,
			Handler:    dealHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "deal.proto",
}

func RegisterServer(s *grpc.Server, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

// StaticServer exposes a local dealer over grpc.
type StaticServer struct {
	Dealer game.DealClient
}

func (s *StaticServer) Deal(ctx context.Context, req *DealRequest) (*game.DealResult, error) {
	return s.Dealer.Deal(ctx, req.SeatCount)
}
