package game

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const handsSchema = `
CREATE TABLE IF NOT EXISTS hands (
	id         TEXT PRIMARY KEY,
	table_id   TEXT NOT NULL,
	document   JSONB NOT NULL,
	closed     BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresHandStore keeps every hand, open or closed, as a JSON document.
type PostgresHandStore struct {
	db *sqlx.DB
}

func NewPostgresHandStore(db *sqlx.DB) *PostgresHandStore {
	return &PostgresHandStore{db: db}
}

func (p *PostgresHandStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, handsSchema)
	if err != nil {
		return errors.Wrap(err, "Unable to create hands table")
	}
	return nil
}

func (p *PostgresHandStore) Save(ctx context.Context, hand *Hand) error {
	data, err := encodeHand(hand)
	if err != nil {
		return err
	}
	result, err := p.db.ExecContext(ctx,
		`INSERT INTO hands (id, table_id, document, closed) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
		hand.ID, hand.TableID, string(data), hand.IsClosed())
	if err != nil {
		return errors.Wrapf(err, "Unable to insert hand %s", hand.ID)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("Hand %s already exists", hand.ID)
	}
	return nil
}

func (p *PostgresHandStore) FindByID(ctx context.Context, id string) (*Hand, error) {
	var document string
	err := p.db.GetContext(ctx, &document, `SELECT document FROM hands WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, HandNotFoundError{HandID: id}
	} else if err != nil {
		return nil, errors.Wrap(err, "sqlx Get returned an error")
	}
	return decodeHand([]byte(document))
}

func (p *PostgresHandStore) Upsert(ctx context.Context, id string, hand *Hand) error {
	data, err := encodeHand(hand)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
INSERT INTO hands (id, table_id, document, closed, updated_at) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, closed = EXCLUDED.closed, updated_at = NOW()`,
		id, hand.TableID, string(data), hand.IsClosed())
	if err != nil {
		return errors.Wrapf(err, "Unable to upsert hand %s", id)
	}
	return nil
}
