package ledger

import (
	"context"
	"errors"
	"fmt"

	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/store"
	apperrors "go-ticket-marketplace/pkg/app_errors"
)

// EscrowLedger 純記帳：每個活動一筆托管餘額，加上全平台共用的費用餘額。
// 不做任何授權判斷，授權是呼叫方的責任。
type EscrowLedger struct{}

func NewEscrowLedger() *EscrowLedger {
	return &EscrowLedger{}
}

// Config 讀取平台設定單例
func (l *EscrowLedger) Config(ctx context.Context, tx store.Txn) (*model.PlatformConfig, error) {
	cfg, err := store.GetJSON[model.PlatformConfig](ctx, tx, store.ConfigKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return cfg, nil
}

func (l *EscrowLedger) PutConfig(ctx context.Context, tx store.Txn, cfg *model.PlatformConfig) error {
	return store.PutJSON(ctx, tx, store.ConfigKey, cfg)
}

// CreditPlatform 累加平台費用餘額
func (l *EscrowLedger) CreditPlatform(ctx context.Context, tx store.Txn, amount model.Amount) error {
	cfg, err := l.Config(ctx, tx)
	if err != nil {
		return err
	}
	cfg.PlatformBalance += amount
	return l.PutConfig(ctx, tx, cfg)
}

// DebitPlatformAll 取出並歸零平台費用餘額，餘額為 0 時失敗
func (l *EscrowLedger) DebitPlatformAll(ctx context.Context, tx store.Txn) (model.Amount, error) {
	cfg, err := l.Config(ctx, tx)
	if err != nil {
		return 0, err
	}
	if cfg.PlatformBalance == 0 {
		return 0, apperrors.ErrNoPlatformFees
	}

	amount := cfg.PlatformBalance
	cfg.PlatformBalance = 0
	if err := l.PutConfig(ctx, tx, cfg); err != nil {
		return 0, err
	}
	return amount, nil
}

// EventBalance 回傳活動目前的托管餘額，沒有紀錄視為 0
func (l *EscrowLedger) EventBalance(ctx context.Context, tx store.Txn, eventID uint64) (model.Amount, error) {
	escrow, err := l.escrow(ctx, tx, eventID)
	if err != nil {
		return 0, err
	}
	return escrow.Balance, nil
}

// CreditEvent 累加活動托管餘額，首次入帳時建立 escrow 紀錄
func (l *EscrowLedger) CreditEvent(ctx context.Context, tx store.Txn, eventID uint64, amount model.Amount) error {
	escrow, err := l.escrow(ctx, tx, eventID)
	if err != nil {
		return err
	}
	escrow.Balance += amount
	return store.PutJSON(ctx, tx, store.EscrowKey(eventID), escrow)
}

// DebitEvent 從活動托管餘額扣款。
// 餘額不足代表記帳不變量被破壞，是程式錯誤而非使用者錯誤：
// 包成 ErrInternalServerError 讓整個交易中止，不留部分效果。
func (l *EscrowLedger) DebitEvent(ctx context.Context, tx store.Txn, eventID uint64, amount model.Amount) error {
	escrow, err := l.escrow(ctx, tx, eventID)
	if err != nil {
		return err
	}
	if escrow.Balance < amount {
		return fmt.Errorf("%w: escrow debit %d exceeds balance %d for event %d",
			apperrors.ErrInternalServerError, amount, escrow.Balance, eventID)
	}

	escrow.Balance -= amount
	return store.PutJSON(ctx, tx, store.EscrowKey(eventID), escrow)
}

func (l *EscrowLedger) escrow(ctx context.Context, tx store.Txn, eventID uint64) (*model.EventEscrow, error) {
	escrow, err := store.GetJSON[model.EventEscrow](ctx, tx, store.EscrowKey(eventID))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return &model.EventEscrow{EventID: eventID}, nil
		}
		return nil, err
	}
	return escrow, nil
}
