package service

import (
	"context"
	"sync"

	"go-ticket-marketplace/internal/model"
	apperrors "go-ticket-marketplace/pkg/app_errors"
	"go-ticket-marketplace/pkg/logger"

	"go.uber.org/zap"
)

// PaymentGateway 實際搬動代幣的外部原語。
// 每次 Debit/Credit 要嘛完整成功，要嘛完全沒發生。
type PaymentGateway interface {
	Debit(ctx context.Context, principal model.Principal, amount model.Amount) error
	Credit(ctx context.Context, principal model.Principal, amount model.Amount) error
}

// LoggingPaymentGateway 把轉帳委託給外部結算、本地只留日誌。
// 部署時由真正的支付介接取代。
type LoggingPaymentGateway struct{}

func NewLoggingPaymentGateway() *LoggingPaymentGateway {
	return &LoggingPaymentGateway{}
}

func (g *LoggingPaymentGateway) Debit(ctx context.Context, principal model.Principal, amount model.Amount) error {
	logger.WithComponent("payments").Info("debit",
		zap.String("principal", string(principal)), zap.Int64("amount", int64(amount)))
	return nil
}

func (g *LoggingPaymentGateway) Credit(ctx context.Context, principal model.Principal, amount model.Amount) error {
	logger.WithComponent("payments").Info("credit",
		zap.String("principal", string(principal)), zap.Int64("amount", int64(amount)))
	return nil
}

// MemoryAccountBook 測試用帳本：追蹤每個 principal 的餘額，透支即失敗
type MemoryAccountBook struct {
	mu       sync.Mutex
	balances map[model.Principal]model.Amount
}

func NewMemoryAccountBook() *MemoryAccountBook {
	return &MemoryAccountBook{balances: make(map[model.Principal]model.Amount)}
}

func (b *MemoryAccountBook) Deposit(principal model.Principal, amount model.Amount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[principal] += amount
}

func (b *MemoryAccountBook) Balance(principal model.Principal) model.Amount {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[principal]
}

func (b *MemoryAccountBook) Debit(ctx context.Context, principal model.Principal, amount model.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[principal] < amount {
		return apperrors.ErrInsufficientFunds
	}
	b.balances[principal] -= amount
	return nil
}

func (b *MemoryAccountBook) Credit(ctx context.Context, principal model.Principal, amount model.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[principal] += amount
	return nil
}
