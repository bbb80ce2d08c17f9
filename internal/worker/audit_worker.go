package worker

import (
	"context"

	"go-ticket-marketplace/internal/monitoring"
	"go-ticket-marketplace/internal/queue"
	"go-ticket-marketplace/pkg/logger"

	"go.uber.org/zap"
)

// AuditWorker 消費帳務事件流，留下稽核日誌並更新指標。
// 它在資金已經落帳之後才看到事件，所以只讀不寫。
type AuditWorker struct {
	queue queue.LedgerEventQueue
}

func NewAuditWorker(q queue.LedgerEventQueue) *AuditWorker {
	return &AuditWorker{queue: q}
}

func (w *AuditWorker) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("audit")
		for msg := range msgs {
			event := msg.Data
			log.Info("ledger event",
				zap.String("request_id", event.RequestID),
				zap.String("kind", string(event.Kind)),
				zap.Uint64("event_id", event.EventID),
				zap.Uint64("ticket_id", event.TicketID),
				zap.String("principal", string(event.Principal)),
				zap.Int64("amount", int64(event.Amount)),
				zap.Int64("fee", int64(event.Fee)),
				zap.Time("occurred_at", event.OccurredAt),
			)
			monitoring.RecordAuditEvent(string(event.Kind))
			msg.Ack()
		}
	}()
	return nil
}
