package registry

import (
	"context"
	"errors"
	"strconv"

	"go-ticket-marketplace/internal/store"
)

// nextSequentialID 取出下一個 id 並推進計數器。
// 計數器與它編號的紀錄在同一個交易內變更，從 1 開始。
func nextSequentialID(ctx context.Context, tx store.Txn, key string) (uint64, error) {
	next := uint64(1)

	raw, err := tx.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			return 0, err
		}
	} else {
		next, err = strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Put(ctx, key, []byte(strconv.FormatUint(next+1, 10))); err != nil {
		return 0, err
	}
	return next, nil
}
