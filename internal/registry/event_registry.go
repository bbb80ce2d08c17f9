package registry

import (
	"context"
	"errors"

	"go-ticket-marketplace/internal/auth"
	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/store"
	apperrors "go-ticket-marketplace/pkg/app_errors"
)

// EventRegistry 負責活動紀錄與活動狀態機。
// 授權（organizer 本人）由 guard 把關，狀態轉換由 EventStatus 的轉換表決定。
type EventRegistry struct {
	guard *auth.Guard
}

func NewEventRegistry(guard *auth.Guard) *EventRegistry {
	return &EventRegistry{guard: guard}
}

// Create 驗證輸入後建立 draft 活動並指派序號。
// 檢查順序固定：空字串 -> 時間區間 -> 票價 -> 容量。
func (r *EventRegistry) Create(ctx context.Context, tx store.Txn, params model.CreateEventParams) (*model.Event, error) {
	if params.Name == "" || params.Description == "" || params.Location == "" {
		return nil, apperrors.ErrEmptyString
	}
	if params.StartTime >= params.EndTime {
		return nil, apperrors.ErrInvalidTimeRange
	}
	if params.Price <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if params.Capacity == 0 {
		return nil, apperrors.ErrCapacityExceeded
	}

	id, err := nextSequentialID(ctx, tx, store.NextEventIDKey)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:          id,
		Organizer:   params.Organizer,
		Name:        params.Name,
		Description: params.Description,
		Location:    params.Location,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Price:       params.Price,
		Capacity:    params.Capacity,
		TicketsSold: 0,
		Status:      model.EventStatusDraft,
	}
	if err := store.PutJSON(ctx, tx, store.EventKey(id), event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRegistry) Get(ctx context.Context, tx store.Txn, id uint64) (*model.Event, error) {
	event, err := store.GetJSON[model.Event](ctx, tx, store.EventKey(id))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRegistry) Put(ctx context.Context, tx store.Txn, event *model.Event) error {
	return store.PutJSON(ctx, tx, store.EventKey(event.ID), event)
}

// UpdateStatus 驗證 organizer 授權與轉換表後變更活動狀態
func (r *EventRegistry) UpdateStatus(ctx context.Context, tx store.Txn, id uint64, newStatus model.EventStatus, caller model.Principal) (*model.Event, error) {
	event, err := r.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := r.guard.Require(ctx, caller, event.Organizer); err != nil {
		return nil, err
	}
	if !newStatus.IsValid() || !event.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	event.Status = newStatus
	if err := r.Put(ctx, tx, event); err != nil {
		return nil, err
	}
	return event, nil
}
