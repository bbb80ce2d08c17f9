package registry

import (
	"context"
	"errors"

	"go-ticket-marketplace/internal/auth"
	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/store"
	apperrors "go-ticket-marketplace/pkg/app_errors"
)

// TicketRegistry 負責票券紀錄與票券狀態機。
// 票券 id 是全域序號，跨所有活動遞增。
type TicketRegistry struct {
	guard *auth.Guard
}

func NewTicketRegistry(guard *auth.Guard) *TicketRegistry {
	return &TicketRegistry{guard: guard}
}

// Issue 對已驗證過的購買建立 valid 票券，連同實收的平台費一起快照
func (r *TicketRegistry) Issue(ctx context.Context, tx store.Txn, eventID uint64, owner model.Principal, price, fee model.Amount) (*model.Ticket, error) {
	id, err := nextSequentialID(ctx, tx, store.NextTicketIDKey)
	if err != nil {
		return nil, err
	}

	ticket := &model.Ticket{
		ID:            id,
		EventID:       eventID,
		Owner:         owner,
		PurchasePrice: price,
		FeePaid:       fee,
		Status:        model.TicketStatusValid,
	}
	if err := store.PutJSON(ctx, tx, store.TicketKey(id), ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRegistry) Get(ctx context.Context, tx store.Txn, id uint64) (*model.Ticket, error) {
	ticket, err := store.GetJSON[model.Ticket](ctx, tx, store.TicketKey(id))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRegistry) Put(ctx context.Context, tx store.Txn, ticket *model.Ticket) error {
	return store.PutJSON(ctx, tx, store.TicketKey(ticket.ID), ticket)
}

// MarkUsed 驗票：只有活動的 organizer 可以呼叫，valid -> used 僅此一次
func (r *TicketRegistry) MarkUsed(ctx context.Context, tx store.Txn, ticket *model.Ticket, caller, organizer model.Principal) error {
	if err := r.guard.Require(ctx, caller, organizer); err != nil {
		return err
	}
	if !ticket.Status.CanTransitionTo(model.TicketStatusUsed) {
		return apperrors.ErrTicketAlreadyUsed
	}

	ticket.Status = model.TicketStatusUsed
	return r.Put(ctx, tx, ticket)
}

// MarkRefunded 退票：只有票主可以呼叫，且活動必須已取消
func (r *TicketRegistry) MarkRefunded(ctx context.Context, tx store.Txn, ticket *model.Ticket, caller model.Principal, eventStatus model.EventStatus) error {
	if err := r.guard.Require(ctx, caller, ticket.Owner); err != nil {
		return err
	}
	if eventStatus != model.EventStatusCancelled {
		return apperrors.ErrEventNotCancelled
	}
	if !ticket.Status.CanTransitionTo(model.TicketStatusRefunded) {
		return apperrors.ErrTicketAlreadyUsed
	}

	ticket.Status = model.TicketStatusRefunded
	return r.Put(ctx, tx, ticket)
}
