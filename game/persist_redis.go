package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type RedisHandStore struct {
	rdclient *redis.Client
}

func NewRedisHandStore(redisURL string, redisPW string, redisDB int) *RedisHandStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisHandStore{
		rdclient: rdclient,
	}
}

func handKey(id string) string {
	return fmt.Sprintf("hand:%s", id)
}

func (r *RedisHandStore) Save(ctx context.Context, hand *Hand) error {
	data, err := encodeHand(hand)
	if err != nil {
		return err
	}
	created, err := r.rdclient.SetNX(ctx, handKey(hand.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("Hand %s already exists", hand.ID)
	}
	return nil
}

func (r *RedisHandStore) FindByID(ctx context.Context, id string) (*Hand, error) {
	data, err := r.rdclient.Get(ctx, handKey(id)).Bytes()
	if err == redis.Nil {
		return nil, HandNotFoundError{HandID: id}
	} else if err != nil {
		return nil, err
	}
	return decodeHand(data)
}

func (r *RedisHandStore) Upsert(ctx context.Context, id string, hand *Hand) error {
	data, err := encodeHand(hand)
	if err != nil {
		return err
	}
	return r.rdclient.Set(ctx, handKey(id), data, 0).Err()
}

func (r *RedisHandStore) Close() error {
	return r.rdclient.Close()
}
