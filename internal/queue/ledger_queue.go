package queue

import (
	"context"
	"time"

	"go-ticket-marketplace/internal/model"
)

// LedgerEventKind 帳務事件種類
type LedgerEventKind string

const (
	LedgerEventPurchase   LedgerEventKind = "purchase"
	LedgerEventRefund     LedgerEventKind = "refund"
	LedgerEventWithdrawal LedgerEventKind = "withdrawal"
)

// LedgerEvent 每筆成功的資金移動發布一則，供稽核 worker 消費。
// 對財務核心是 fire-and-forget：發布失敗不影響已提交的操作結果。
type LedgerEvent struct {
	RequestID  string          `json:"request_id"`
	Kind       LedgerEventKind `json:"kind"`
	EventID    uint64          `json:"event_id,omitempty"`
	TicketID   uint64          `json:"ticket_id,omitempty"`
	Principal  model.Principal `json:"principal"`
	Amount     model.Amount    `json:"amount"`
	Fee        model.Amount    `json:"fee,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type Delivery struct {
	Data *LedgerEvent
	Ack  func()
	Nack func(requeue bool)
}

type LedgerEventQueue interface {
	// 發布帳務事件到隊列
	Publish(ctx context.Context, event *LedgerEvent) error
	// 訂閱帳務事件隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryLedgerEventQueue 以 Go channel 實作的單機隊列
type MemoryLedgerEventQueue struct {
	ch chan *LedgerEvent
}

func NewMemoryLedgerEventQueue(bufferSize int) *MemoryLedgerEventQueue {
	return &MemoryLedgerEventQueue{
		ch: make(chan *LedgerEvent, bufferSize),
	}
}

func (q *MemoryLedgerEventQueue) Publish(ctx context.Context, event *LedgerEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryLedgerEventQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}
				d := Delivery{
					Data: event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 放回 channel 尾端重試
							select {
							case q.ch <- event:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
