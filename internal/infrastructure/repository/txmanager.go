package repository

import (
	"context"

	domainRepo "github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txContextKey struct{}

// gormTxManager binds a gorm transaction into the context so that every
// repository call inside TxManager.Do joins the same database transaction.
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over the shared connection
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested Do joins the enclosing transaction.
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFor returns the transaction bound to ctx when one is active, otherwise
// the base connection. Every repository routes its queries through this.
func dbFor(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}
