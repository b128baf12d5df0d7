package postgres

import (
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Note: We can't create a real *sql.Tx without a database connection, so
// these tests verify construction and WithTx wiring. Query behavior is
// covered by integration tests against a real database.

func TestNewPostgresLearningItemStore(t *testing.T) {
	db := &sql.DB{}
	s := NewPostgresLearningItemStore(db, slog.Default())

	assert.NotNil(t, s)
	assert.Equal(t, db, s.db)
	assert.NotNil(t, s.logger)

	// A nil logger falls back to the default
	s = NewPostgresLearningItemStore(db, nil)
	assert.NotNil(t, s.logger)

	assert.Panics(t, func() {
		NewPostgresLearningItemStore(nil, nil)
	}, "nil db should panic")
}

func TestPostgresLearningItemStore_WithTx(t *testing.T) {
	original := NewPostgresLearningItemStore(&sql.DB{}, nil)
	tx := &sql.Tx{}

	result := original.WithTx(tx)
	assert.NotNil(t, result)

	txStore, ok := result.(*PostgresLearningItemStore)
	assert.True(t, ok)
	assert.Equal(t, tx, txStore.db, "WithTx should swap in the transaction")
	assert.Equal(t, original.logger, txStore.logger)
}

func TestNewPostgresReviewLogStore(t *testing.T) {
	db := &sql.DB{}
	s := NewPostgresReviewLogStore(db, slog.Default())

	assert.NotNil(t, s)
	assert.Equal(t, db, s.db)
	assert.NotNil(t, s.logger)

	assert.Panics(t, func() {
		NewPostgresReviewLogStore(nil, nil)
	}, "nil db should panic")
}

func TestPostgresReviewLogStore_WithTx(t *testing.T) {
	original := NewPostgresReviewLogStore(&sql.DB{}, nil)
	tx := &sql.Tx{}

	result := original.WithTx(tx)
	assert.NotNil(t, result)

	txStore, ok := result.(*PostgresReviewLogStore)
	assert.True(t, ok)
	assert.Equal(t, tx, txStore.db)
}
