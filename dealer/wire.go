package dealer

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MarshHawk/unlimited-poker/game"
)

// The dealing service has no generated stubs. Requests and results travel
// as google.protobuf.Struct messages over the default grpc proto codec.

const seatCountField = "seatCount"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeDealRequest(seatCount int) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		seatCountField: structpb.NewNumberValue(float64(seatCount)),
	}}
}

func decodeDealRequest(msg *structpb.Struct) (*DealRequest, error) {
	v, ok := msg.GetFields()[seatCountField]
	if !ok {
		return nil, fmt.Errorf("%s is required", seatCountField)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 0 || n.NumberValue != math.Trunc(n.NumberValue) {
		return nil, fmt.Errorf("%s must be a non-negative integer, got %v", seatCountField, v.AsInterface())
	}
	return &DealRequest{SeatCount: int(n.NumberValue)}, nil
}

func encodeDealResult(result *game.DealResult) (*structpb.Struct, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func decodeDealResult(msg *structpb.Struct) (*game.DealResult, error) {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return nil, err
	}
	result := &game.DealResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, err
	}
	return result, nil
}
