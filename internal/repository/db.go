package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// txManager implements TxManager on top of a pgx connection pool.
type txManager struct {
	pool   *pgxpool.Pool
	opts   pgx.TxOptions
	logger zerolog.Logger
}

// NewTxManager creates a TxManager running READ COMMITTED transactions.
func NewTxManager(pool *pgxpool.Pool, logger zerolog.Logger) TxManager {
	return &txManager{
		pool:   pool,
		opts:   pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		logger: logger.With().Str("component", "tx_manager").Logger(),
	}
}

// WithTx runs fn in a transaction. The transaction is rolled back on error or panic.
func (m *txManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			m.rollback(ctx, tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		m.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (m *txManager) rollback(ctx context.Context, tx pgx.Tx) {
	// The caller's context may already be cancelled.
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && err != pgx.ErrTxClosed {
		m.logger.Error().Err(err).Msg("failed to rollback transaction")
	}
}
