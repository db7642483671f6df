package kuzu

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/graphs"
)

// TransactionState represents the state of a transaction
type TransactionState int

const (
	TransactionActive TransactionState = iota
	TransactionCommitted
	TransactionRolledBack
	TransactionFailed
)

// String returns the string representation of the transaction state
func (ts TransactionState) String() string {
	switch ts {
	case TransactionActive:
		return "active"
	case TransactionCommitted:
		return "committed"
	case TransactionRolledBack:
		return "rolled_back"
	case TransactionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transaction is an explicit KuzuDB write transaction. It owns the store
// connection from BeginTransaction until Commit or Rollback.
type Transaction struct {
	kuzu       *Kuzu
	ctx        context.Context
	state      TransactionState
	operations int
	startedAt  time.Time
}

// BeginTransaction starts a new read-write transaction. Other queries on the
// store block until the transaction ends.
func (k *Kuzu) BeginTransaction(ctx context.Context) (*Transaction, error) {
	k.mu.Lock()

	if _, err := k.query(ctx, "BEGIN TRANSACTION", nil, graphs.NewOptions()); err != nil {
		k.mu.Unlock()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &Transaction{
		kuzu:      k,
		ctx:       ctx,
		state:     TransactionActive,
		startedAt: time.Now(),
	}, nil
}

// State returns the current transaction state
func (tx *Transaction) State() TransactionState {
	return tx.state
}

// Query executes a query within the transaction
func (tx *Transaction) Query(query string, params map[string]any) (*graphs.Result, error) {
	if tx.state != TransactionActive {
		return nil, fmt.Errorf("transaction is not active: %s", tx.state)
	}

	result, err := tx.kuzu.query(tx.ctx, query, params, graphs.NewOptions())
	if err != nil {
		tx.state = TransactionFailed
		return nil, fmt.Errorf("query failed in transaction: %w", err)
	}

	tx.operations++
	return result, nil
}

// Commit commits the transaction
func (tx *Transaction) Commit() error {
	if tx.state != TransactionActive {
		return fmt.Errorf("transaction is not active: %s", tx.state)
	}

	if _, err := tx.kuzu.query(tx.ctx, "COMMIT", nil, graphs.NewOptions()); err != nil {
		tx.state = TransactionFailed
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	tx.finish(TransactionCommitted)
	return nil
}

// Rollback rolls back the transaction
func (tx *Transaction) Rollback() error {
	if tx.state != TransactionActive && tx.state != TransactionFailed {
		return fmt.Errorf("transaction cannot be rolled back: %s", tx.state)
	}

	// The caller's context may be the reason for the rollback.
	_, err := tx.kuzu.query(context.WithoutCancel(tx.ctx), "ROLLBACK", nil, graphs.NewOptions())

	tx.finish(TransactionRolledBack)
	if err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// Close rolls the transaction back unless it already ended.
func (tx *Transaction) Close() error {
	switch tx.state {
	case TransactionActive, TransactionFailed:
		return tx.Rollback()
	default:
		return nil
	}
}

func (tx *Transaction) finish(state TransactionState) {
	tx.state = state
	tx.kuzu.options.logger.Debug("transaction finished",
		zap.Stringer("state", state),
		zap.Int("operations", tx.operations),
		zap.Duration("duration", time.Since(tx.startedAt)))
	tx.kuzu.mu.Unlock()
}

// RunInTransaction executes a function within a transaction with automatic commit/rollback
func (k *Kuzu) RunInTransaction(ctx context.Context, fn func(*Transaction) error) error {
	tx, err := k.BeginTransaction(ctx)
	if err != nil {
		return err
	}
	defer tx.Close()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	return tx.Commit()
}
