package game

import "context"

// HandStore persists hands by id. Implementations return HandNotFoundError
// when FindByID misses.
type HandStore interface {
	// Save stores a new hand and fails if the id is already taken.
	Save(ctx context.Context, hand *Hand) error
	FindByID(ctx context.Context, id string) (*Hand, error)
	// Upsert replaces the stored hand with the given id.
	Upsert(ctx context.Context, id string, hand *Hand) error
}
