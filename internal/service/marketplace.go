package service

import (
	"context"
	"time"

	"go-ticket-marketplace/internal/auth"
	"go-ticket-marketplace/internal/cache"
	"go-ticket-marketplace/internal/ledger"
	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/monitoring"
	"go-ticket-marketplace/internal/queue"
	"go-ticket-marketplace/internal/registry"
	"go-ticket-marketplace/internal/store"
	apperrors "go-ticket-marketplace/pkg/app_errors"
	"go-ticket-marketplace/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Marketplace 是整個引擎的操作面。
// 每個操作先過 IdentityGuard，再做狀態機驗證，最後才動帳，
// 全部包在單一 store 交易內：要嘛全部落地，要嘛完全不動。
type Marketplace interface {
	Initialize(ctx context.Context, admin model.Principal) error

	CreateEvent(ctx context.Context, params model.CreateEventParams) (uint64, error)
	UpdateEventStatus(ctx context.Context, eventID uint64, newStatus model.EventStatus, caller model.Principal) error
	CancelEvent(ctx context.Context, caller model.Principal, eventID uint64) error
	GetEvent(ctx context.Context, id uint64) (*model.Event, error)

	PurchaseTicket(ctx context.Context, buyer model.Principal, eventID uint64, payment model.Amount) (uint64, error)
	UseTicket(ctx context.Context, ticketID uint64, caller model.Principal) error
	RefundTicket(ctx context.Context, ticketID uint64, caller model.Principal) error
	GetTicket(ctx context.Context, id uint64) (*model.Ticket, error)

	SetPlatformFee(ctx context.Context, caller model.Principal, bps uint32) error
	WithdrawPlatformFees(ctx context.Context, caller model.Principal) (model.Amount, error)
	GetPlatformFee(ctx context.Context) (uint32, error)
	GetPlatformBalance(ctx context.Context) (model.Amount, error)
}

type MarketplaceServiceImpl struct {
	store    store.Store
	guard    *auth.Guard
	events   *registry.EventRegistry
	tickets  *registry.TicketRegistry
	ledger   *ledger.EscrowLedger
	payments PaymentGateway
	gate     cache.CapacityGate     // 選配：並發部署的前置容量閘門
	queue    queue.LedgerEventQueue // 選配：稽核事件流
}

func NewMarketplaceService(
	st store.Store,
	guard *auth.Guard,
	events *registry.EventRegistry,
	tickets *registry.TicketRegistry,
	escrow *ledger.EscrowLedger,
	payments PaymentGateway,
	gate cache.CapacityGate,
	ledgerQueue queue.LedgerEventQueue,
) Marketplace {
	return &MarketplaceServiceImpl{
		store:    st,
		guard:    guard,
		events:   events,
		tickets:  tickets,
		ledger:   escrow,
		payments: payments,
		gate:     gate,
		queue:    ledgerQueue,
	}
}

// Initialize 建立平台設定單例，只能成功一次
func (s *MarketplaceServiceImpl) Initialize(ctx context.Context, admin model.Principal) error {
	return s.store.Update(ctx, func(tx store.Txn) error {
		if _, err := tx.Get(ctx, store.ConfigKey); err == nil {
			return apperrors.ErrAlreadyInitialized
		}
		cfg := &model.PlatformConfig{
			Admin:           admin,
			FeeBps:          0,
			PlatformBalance: 0,
		}
		return s.ledger.PutConfig(ctx, tx, cfg)
	})
}

func (s *MarketplaceServiceImpl) CreateEvent(ctx context.Context, params model.CreateEventParams) (uint64, error) {
	if err := s.guard.Authenticate(ctx, params.Organizer); err != nil {
		return 0, err
	}

	var event *model.Event
	err := s.store.Update(ctx, func(tx store.Txn) error {
		var err error
		event, err = s.events.Create(ctx, tx, params)
		return err
	})
	if err != nil {
		monitoring.RecordOperationError("create_event")
		return 0, err
	}
	return event.ID, nil
}

func (s *MarketplaceServiceImpl) UpdateEventStatus(ctx context.Context, eventID uint64, newStatus model.EventStatus, caller model.Principal) error {
	var event *model.Event
	err := s.store.Update(ctx, func(tx store.Txn) error {
		var err error
		event, err = s.events.UpdateStatus(ctx, tx, eventID, newStatus, caller)
		return err
	})
	if err != nil {
		monitoring.RecordOperationError("update_event_status")
		return err
	}

	// 開賣時預熱容量閘門
	if newStatus == model.EventStatusPublished && s.gate != nil {
		if err := s.gate.WarmUp(ctx, eventID, event.Capacity-event.TicketsSold); err != nil {
			logger.WithComponent("service").Warn("capacity gate warm-up failed",
				zap.Uint64("event_id", eventID), zap.Error(err))
		}
	}
	return nil
}

func (s *MarketplaceServiceImpl) CancelEvent(ctx context.Context, caller model.Principal, eventID uint64) error {
	return s.UpdateEventStatus(ctx, eventID, model.EventStatusCancelled, caller)
}

func (s *MarketplaceServiceImpl) GetEvent(ctx context.Context, id uint64) (*model.Event, error) {
	var event *model.Event
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		event, err = s.events.Get(ctx, tx, id)
		return err
	})
	return event, err
}

// PurchaseTicket 購票：
// 1. 驗證買家身分，並在閘門保留名額（若有啟用）
// 2. 交易內依序檢查活動狀態、容量、付款金額
// 3. 向外部代幣原語扣款，再拆帳（平台費 + 活動托管）、發票
// 任何一步失敗都不留部分效果。
func (s *MarketplaceServiceImpl) PurchaseTicket(ctx context.Context, buyer model.Principal, eventID uint64, payment model.Amount) (uint64, error) {
	if err := s.guard.Authenticate(ctx, buyer); err != nil {
		monitoring.RecordOperationError("purchase_ticket")
		return 0, err
	}

	reserved := false
	if s.gate != nil {
		var err error
		reserved, err = s.gate.Reserve(ctx, eventID)
		if err != nil {
			monitoring.RecordOperationError("purchase_ticket")
			return 0, err
		}
	}

	var (
		ticket  *model.Ticket
		price   model.Amount
		fee     model.Amount
		debited bool
	)
	err := s.store.Update(ctx, func(tx store.Txn) error {
		event, err := s.events.Get(ctx, tx, eventID)
		if err != nil {
			return err
		}
		// 只有 published 的活動能賣票
		if event.Status != model.EventStatusPublished {
			return apperrors.ErrInvalidStatusTransition
		}
		if event.SoldOut() {
			return apperrors.ErrEventSoldOut
		}
		if payment < event.Price {
			return apperrors.ErrInsufficientFunds
		}

		cfg, err := s.ledger.Config(ctx, tx)
		if err != nil {
			return err
		}
		price = event.Price
		fee = cfg.FeeFor(price)

		// 外部扣款只收 price，超付的部分不收
		if err := s.payments.Debit(ctx, buyer, price); err != nil {
			return err
		}
		debited = true

		return s.settlePurchase(ctx, tx, event, buyer, price, fee, &ticket)
	})
	if err != nil {
		// 交易沒有落地（包含 commit 本身失敗），已扣的款項要補償回去
		if debited {
			if cerr := s.payments.Credit(ctx, buyer, price); cerr != nil {
				logger.WithComponent("service").Error("purchase compensation failed",
					zap.String("buyer", string(buyer)), zap.Int64("amount", int64(price)), zap.Error(cerr))
			}
		}
		if reserved {
			if rerr := s.gate.Release(ctx, eventID); rerr != nil {
				logger.WithComponent("service").Warn("capacity gate release failed",
					zap.Uint64("event_id", eventID), zap.Error(rerr))
			}
		}
		monitoring.RecordOperationError("purchase_ticket")
		return 0, err
	}

	monitoring.RecordPurchase(int64(price), int64(fee))
	s.publishLedgerEvent(ctx, &queue.LedgerEvent{
		Kind:      queue.LedgerEventPurchase,
		EventID:   eventID,
		TicketID:  ticket.ID,
		Principal: buyer,
		Amount:    price,
		Fee:       fee,
	})
	return ticket.ID, nil
}

// settlePurchase 在驗證全數通過後執行帳面變更：拆帳、遞增銷量、發票
func (s *MarketplaceServiceImpl) settlePurchase(ctx context.Context, tx store.Txn, event *model.Event, buyer model.Principal, price, fee model.Amount, ticket **model.Ticket) error {
	if err := s.ledger.CreditPlatform(ctx, tx, fee); err != nil {
		return err
	}
	if err := s.ledger.CreditEvent(ctx, tx, event.ID, price-fee); err != nil {
		return err
	}

	event.TicketsSold++
	if err := s.events.Put(ctx, tx, event); err != nil {
		return err
	}

	issued, err := s.tickets.Issue(ctx, tx, event.ID, buyer, price, fee)
	if err != nil {
		return err
	}
	*ticket = issued
	return nil
}

func (s *MarketplaceServiceImpl) UseTicket(ctx context.Context, ticketID uint64, caller model.Principal) error {
	err := s.store.Update(ctx, func(tx store.Txn) error {
		ticket, err := s.tickets.Get(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		event, err := s.events.Get(ctx, tx, ticket.EventID)
		if err != nil {
			return err
		}
		return s.tickets.MarkUsed(ctx, tx, ticket, caller, event.Organizer)
	})
	if err != nil {
		monitoring.RecordOperationError("use_ticket")
	}
	return err
}

// RefundTicket 退票：活動必須已取消，退款 = 購買價 - 當時實收的平台費
func (s *MarketplaceServiceImpl) RefundTicket(ctx context.Context, ticketID uint64, caller model.Principal) error {
	var (
		refund   model.Amount
		eventID  uint64
		owner    model.Principal
		credited bool
	)
	err := s.store.Update(ctx, func(tx store.Txn) error {
		ticket, err := s.tickets.Get(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		event, err := s.events.Get(ctx, tx, ticket.EventID)
		if err != nil {
			return err
		}
		if err := s.tickets.MarkRefunded(ctx, tx, ticket, caller, event.Status); err != nil {
			return err
		}

		refund = ticket.RefundAmount()
		eventID = event.ID
		owner = ticket.Owner
		if err := s.ledger.DebitEvent(ctx, tx, event.ID, refund); err != nil {
			return err
		}
		// 入金放在交易最後一步：失敗則整筆回滾，帳面不動
		if err := s.payments.Credit(ctx, owner, refund); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if err != nil {
		// 交易沒有落地但款項已付（commit 失敗），把入金收回，票仍是 valid 可重試
		if credited {
			if derr := s.payments.Debit(ctx, owner, refund); derr != nil {
				logger.WithComponent("service").Error("refund compensation failed",
					zap.String("owner", string(owner)), zap.Int64("amount", int64(refund)), zap.Error(derr))
			}
		}
		monitoring.RecordOperationError("refund_ticket")
		return err
	}

	monitoring.RecordRefund(int64(refund))
	s.publishLedgerEvent(ctx, &queue.LedgerEvent{
		Kind:      queue.LedgerEventRefund,
		EventID:   eventID,
		TicketID:  ticketID,
		Principal: owner,
		Amount:    refund,
	})
	return nil
}

func (s *MarketplaceServiceImpl) GetTicket(ctx context.Context, id uint64) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		ticket, err = s.tickets.Get(ctx, tx, id)
		return err
	})
	return ticket, err
}

func (s *MarketplaceServiceImpl) SetPlatformFee(ctx context.Context, caller model.Principal, bps uint32) error {
	err := s.store.Update(ctx, func(tx store.Txn) error {
		cfg, err := s.ledger.Config(ctx, tx)
		if err != nil {
			return err
		}
		if err := s.guard.Require(ctx, caller, cfg.Admin); err != nil {
			return err
		}
		if bps > model.MaxFeeBps {
			return apperrors.ErrInvalidPlatformFee
		}

		cfg.FeeBps = bps
		return s.ledger.PutConfig(ctx, tx, cfg)
	})
	if err != nil {
		monitoring.RecordOperationError("set_platform_fee")
	}
	return err
}

func (s *MarketplaceServiceImpl) WithdrawPlatformFees(ctx context.Context, caller model.Principal) (model.Amount, error) {
	var (
		amount model.Amount
		admin  model.Principal
	)
	err := s.store.Update(ctx, func(tx store.Txn) error {
		cfg, err := s.ledger.Config(ctx, tx)
		if err != nil {
			return err
		}
		if err := s.guard.Require(ctx, caller, cfg.Admin); err != nil {
			return err
		}

		admin = cfg.Admin
		amount, err = s.ledger.DebitPlatformAll(ctx, tx)
		if err != nil {
			return err
		}
		return s.payments.Credit(ctx, admin, amount)
	})
	if err != nil {
		monitoring.RecordOperationError("withdraw_platform_fees")
		return 0, err
	}

	s.publishLedgerEvent(ctx, &queue.LedgerEvent{
		Kind:      queue.LedgerEventWithdrawal,
		Principal: admin,
		Amount:    amount,
	})
	return amount, nil
}

func (s *MarketplaceServiceImpl) GetPlatformFee(ctx context.Context) (uint32, error) {
	var bps uint32
	err := s.store.View(ctx, func(tx store.Txn) error {
		cfg, err := s.ledger.Config(ctx, tx)
		if err != nil {
			return err
		}
		bps = cfg.FeeBps
		return nil
	})
	return bps, err
}

func (s *MarketplaceServiceImpl) GetPlatformBalance(ctx context.Context) (model.Amount, error) {
	var balance model.Amount
	err := s.store.View(ctx, func(tx store.Txn) error {
		cfg, err := s.ledger.Config(ctx, tx)
		if err != nil {
			return err
		}
		balance = cfg.PlatformBalance
		return nil
	})
	return balance, err
}

func (s *MarketplaceServiceImpl) publishLedgerEvent(ctx context.Context, event *queue.LedgerEvent) {
	if s.queue == nil {
		return
	}
	event.RequestID = uuid.New().String()
	event.OccurredAt = time.Now().UTC()
	if err := s.queue.Publish(ctx, event); err != nil {
		logger.WithComponent("service").Warn("publish ledger event failed",
			zap.String("kind", string(event.Kind)), zap.Error(err))
	}
}
