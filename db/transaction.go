package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking-marketplace-backend/utils/apperr"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs a unit of work in a single database transaction. Repositories pick the
// transaction up from the context through Conn, so services never pass *gorm.DB around.
type TxManager struct {
	db        *gorm.DB
	isolation sql.IsolationLevel
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db, isolation: sql.LevelSerializable}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise. Nested calls reuse
// the outer transaction.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	tx := m.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: m.isolation})
	if tx.Error != nil {
		return ClassifyTxError("begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		tx.Rollback()
		return err
	}

	return ClassifyTxError("commit transaction", tx.Commit().Error)
}

// ClassifyTxError maps errors raised outside a repository call, typically at COMMIT where
// SERIALIZABLE aborts and deferred constraints surface. Overlap and serialization aborts are
// conflicts; anything else is a storage failure.
func ClassifyTxError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case IsExclusionViolation(err):
		return apperr.Conflict("the requested time overlaps an existing booking")
	case IsSerializationFailure(err):
		return apperr.Conflict("the space was modified concurrently, please retry")
	default:
		return apperr.Storage(fmt.Errorf("%s: %w", op, err))
	}
}

// Conn returns the transaction carried by ctx, or fallback bound to ctx.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}
