package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// recordingTx 攔截送出的 SQL，模擬查無資料
type recordingTx struct {
	pgx.Tx
	lastQuery string
}

func (t *recordingTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.lastQuery = sql
	return noRow{}
}

type noRow struct{}

func (noRow) Scan(dest ...any) error { return pgx.ErrNoRows }

func TestPgxTxn_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Update transactions lock the row they read", func(t *testing.T) {
		rec := &recordingTx{}
		txn := &pgxTxn{tx: rec, forUpdate: true}

		_, err := txn.Get(ctx, "event:1")

		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.Equal(t, selectRecordForUpdate, rec.lastQuery)
		assert.Contains(t, rec.lastQuery, "FOR UPDATE")
	})

	t.Run("View transactions read without locking", func(t *testing.T) {
		rec := &recordingTx{}
		txn := &pgxTxn{tx: rec}

		_, err := txn.Get(ctx, "event:1")

		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.Equal(t, selectRecord, rec.lastQuery)
		assert.NotContains(t, rec.lastQuery, "FOR UPDATE")
	})
}
