package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/booking-api/internal/repository"
)

// Transactor runs units of work in read-committed transactions
type Transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

type txScope struct {
	bookings repository.BookingRepository
	ledger   repository.CapacityLedger
}

func (s *txScope) Bookings() repository.BookingRepository { return s.bookings }
func (s *txScope) Ledger() repository.CapacityLedger      { return s.ledger }

// WithinTx executes fn within a transaction. Any error or panic from fn
// rolls the transaction back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := t.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	scope := &txScope{
		bookings: NewBookingRepository(tx),
		ledger:   NewCapacityLedger(tx),
	}

	if err := fn(ctx, scope); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
