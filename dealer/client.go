package dealer

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MarshHawk/unlimited-poker/game"
	"github.com/MarshHawk/unlimited-poker/logging"
)

var clientLogger = logging.GetZeroLogger("dealer::client", nil)

// GrpcDealer calls the remote dealing service. Calls are rate limited so
// a burst of finished hands cannot flood the dealer.
type GrpcDealer struct {
	conn    *grpc.ClientConn
	limiter *rate.Limiter
}

func NewGrpcDealer(addr string, rps float64, opts ...grpc.DialOption) (*GrpcDealer, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	conn, err := grpc.Dial(addr, dialOpts...)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Unable to connect to dealer at [%s]", addr))
	}
	clientLogger.Info().Msgf("Dealer client connected to %s", addr)
	return &GrpcDealer{
		conn:    conn,
		limiter: newLimiter(rps),
	}, nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), int(math.Ceil(rps)))
}

func (d *GrpcDealer) Deal(ctx context.Context, seatCount int) (*game.DealResult, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "Dealer rate limit")
	}
	out := new(structpb.Struct)
	err := d.conn.Invoke(ctx, dealFullMethod, encodeDealRequest(seatCount), out)
	if err != nil {
		clientLogger.Error().Err(err).Int("seats", seatCount).Msg("Deal call failed")
		return nil, err
	}
	result, err := decodeDealResult(out)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to decode deal result")
	}
	return result, nil
}

func (d *GrpcDealer) Close() error {
	return d.conn.Close()
}
