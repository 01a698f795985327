package game

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeHand(hand *Hand) ([]byte, error) {
	return json.Marshal(hand)
}

func decodeHand(data []byte) (*Hand, error) {
	hand := &Hand{}
	if err := json.Unmarshal(data, hand); err != nil {
		return nil, err
	}
	return hand, nil
}
