package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordsSchema = `
	CREATE TABLE IF NOT EXISTS records (
		key   TEXT PRIMARY KEY,
		value JSONB NOT NULL
	)
`

// PostgresStore 以單一 records 表實作的 Store。
// Update 包在一個 pgx transaction 內，衝突的操作由資料庫序列化。
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, recordsSchema); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) View(ctx context.Context, fn func(tx Txn) error) error {
	return s.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, false, fn)
}

func (s *PostgresStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	return s.run(ctx, pgx.TxOptions{}, true, fn)
}

func (s *PostgresStore) run(ctx context.Context, opts pgx.TxOptions, forUpdate bool, fn func(tx Txn) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgxTxn{tx: tx, forUpdate: forUpdate}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const (
	selectRecord = `SELECT value FROM records WHERE key = $1`
	// Update 交易內的讀取鎖列：兩筆並發購買讀同一個 event 時，
	// 後到的要等先到的 commit，再讀到遞增後的 tickets_sold
	selectRecordForUpdate = `SELECT value FROM records WHERE key = $1 FOR UPDATE`
)

type pgxTxn struct {
	tx        pgx.Tx
	forUpdate bool
}

func (t *pgxTxn) Get(ctx context.Context, key string) ([]byte, error) {
	query := selectRecord
	if t.forUpdate {
		query = selectRecordForUpdate
	}

	var value []byte
	err := t.tx.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (t *pgxTxn) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO records (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	_, err := t.tx.Exec(ctx, query, key, value)
	return err
}

func (t *pgxTxn) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM records WHERE key = $1`
	_, err := t.tx.Exec(ctx, query, key)
	return err
}
