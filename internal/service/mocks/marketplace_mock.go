package mocks

import (
	"context"

	"go-ticket-marketplace/internal/model"

	"github.com/stretchr/testify/mock"
)

// MarketplaceMock 手寫的 Marketplace mock，供 handler 測試使用
type MarketplaceMock struct {
	mock.Mock
}

func NewMarketplaceMock() *MarketplaceMock {
	return &MarketplaceMock{}
}

func (m *MarketplaceMock) Initialize(ctx context.Context, admin model.Principal) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MarketplaceMock) CreateEvent(ctx context.Context, params model.CreateEventParams) (uint64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MarketplaceMock) UpdateEventStatus(ctx context.Context, eventID uint64, newStatus model.EventStatus, caller model.Principal) error {
	args := m.Called(ctx, eventID, newStatus, caller)
	return args.Error(0)
}

func (m *MarketplaceMock) CancelEvent(ctx context.Context, caller model.Principal, eventID uint64) error {
	args := m.Called(ctx, caller, eventID)
	return args.Error(0)
}

func (m *MarketplaceMock) GetEvent(ctx context.Context, id uint64) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MarketplaceMock) PurchaseTicket(ctx context.Context, buyer model.Principal, eventID uint64, payment model.Amount) (uint64, error) {
	args := m.Called(ctx, buyer, eventID, payment)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MarketplaceMock) UseTicket(ctx context.Context, ticketID uint64, caller model.Principal) error {
	args := m.Called(ctx, ticketID, caller)
	return args.Error(0)
}

func (m *MarketplaceMock) RefundTicket(ctx context.Context, ticketID uint64, caller model.Principal) error {
	args := m.Called(ctx, ticketID, caller)
	return args.Error(0)
}

func (m *MarketplaceMock) GetTicket(ctx context.Context, id uint64) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MarketplaceMock) SetPlatformFee(ctx context.Context, caller model.Principal, bps uint32) error {
	args := m.Called(ctx, caller, bps)
	return args.Error(0)
}

func (m *MarketplaceMock) WithdrawPlatformFees(ctx context.Context, caller model.Principal) (model.Amount, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(model.Amount), args.Error(1)
}

func (m *MarketplaceMock) GetPlatformFee(ctx context.Context) (uint32, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MarketplaceMock) GetPlatformBalance(ctx context.Context) (model.Amount, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Amount), args.Error(1)
}
