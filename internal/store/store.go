package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound 由各實作統一回報；上層轉換成 apperrors.ErrNotFound
	ErrKeyNotFound = errors.New("key not found")
	// ErrReadOnlyTxn 在 View 交易內嘗試寫入
	ErrReadOnlyTxn = errors.New("read-only transaction")
)

// Txn 單次交易內的讀寫視圖。Put/Delete 只在整個交易成功時生效。
type Txn interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store 強一致的 key-value 儲存。
// Update 保證 all-or-nothing：fn 回傳錯誤時，任何寫入都不落地。
// 每個公開操作包在單一 Update 內，失敗時不留部分效果。
type Store interface {
	View(ctx context.Context, fn func(tx Txn) error) error
	Update(ctx context.Context, fn func(tx Txn) error) error
}

// GetJSON 讀取 key 並反序列化成 T
func GetJSON[T any](ctx context.Context, tx Txn, key string) (*T, error) {
	raw, err := tx.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return &v, nil
}

// PutJSON 序列化 v 並寫入 key
func PutJSON(ctx context.Context, tx Txn, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return tx.Put(ctx, key, raw)
}
