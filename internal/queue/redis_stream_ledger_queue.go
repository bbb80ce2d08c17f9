package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-ticket-marketplace/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ledgerStreamKey    = "ledger:stream"
	ledgerGroupName    = "audit-workers"
	consumerNamePrefix = "auditor"
	messageField       = "ledger_event"
)

// RedisStreamConfig 可注入的逾時與重試設定；nil 或零值時使用預設
type RedisStreamConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領回
	MaxRetryCount      int           // 超過此次數視為毒藥消息並丟棄
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
}

func defaultRedisStreamConfig() RedisStreamConfig {
	return RedisStreamConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

// RedisStreamLedgerEventQueue 以 Redis Stream + consumer group 實作的
// LedgerEventQueue。新消息走 XReadGroup；投遞過但沒 Ack 的消息留在 PEL，
// 超時後由 XAUTOCLAIM 領回重試。
type RedisStreamLedgerEventQueue struct {
	client       *redis.Client
	consumerName string
	cfg          RedisStreamConfig
}

func NewRedisStreamLedgerEventQueue(client *redis.Client, consumerID string, config *RedisStreamConfig) (*RedisStreamLedgerEventQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}

	q := &RedisStreamLedgerEventQueue{
		client:       client,
		consumerName: fmt.Sprintf("%s:%s", consumerNamePrefix, consumerID),
		cfg:          cfg,
	}
	if err := q.ensureConsumerGroup(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamLedgerEventQueue) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, ledgerStreamKey, ledgerGroupName, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (q *RedisStreamLedgerEventQueue) Publish(ctx context.Context, event *LedgerEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal ledger event: %w", err)
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ledgerStreamKey,
		ID:     "*",
		Values: map[string]interface{}{messageField: string(raw)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamLedgerEventQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		go q.runAutoClaim(ctx, out)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				q.readAndDeliver(ctx, out)
			}
		}
	}()
	return out, nil
}

// readAndDeliver 只讀 ">"（新消息）。已投遞過的留在 PEL，由 XAUTOCLAIM 重試。
func (q *RedisStreamLedgerEventQueue) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ledgerGroupName,
		Consumer: q.consumerName,
		Streams:  []string{ledgerStreamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if err == redis.Nil {
		return
	}
	if err != nil {
		logger.WithComponent("mq").Error("XReadGroup failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}

	for _, stream := range streams {
		if stream.Stream != ledgerStreamKey {
			continue
		}
		for _, msg := range stream.Messages {
			q.deliver(ctx, out, msg)
		}
	}
}

// runAutoClaim 定時用 XAUTOCLAIM 領回超時未 Ack 的消息
func (q *RedisStreamLedgerEventQueue) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   ledgerStreamKey,
				Group:    ledgerGroupName,
				Consumer: q.consumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && err != redis.Nil {
				logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
				continue
			}
			if nextID != "" && nextID != "0-0" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				if q.isPoisonMessage(ctx, msg.ID) {
					continue
				}
				q.deliver(ctx, out, msg)
			}
		}
	}
}

// isPoisonMessage 重試超過上限的消息直接 Ack 丟棄
func (q *RedisStreamLedgerEventQueue) isPoisonMessage(ctx context.Context, messageID string) bool {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: ledgerStreamKey,
		Group:  ledgerGroupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		return false
	}
	if int(pending[0].RetryCount) < q.cfg.MaxRetryCount {
		return false
	}

	logger.WithComponent("mq").Warn("discard poison message",
		zap.String("message_id", messageID),
		zap.Int64("retries", pending[0].RetryCount),
		zap.Int("max_retries", q.cfg.MaxRetryCount))
	_ = q.client.XAck(ctx, ledgerStreamKey, ledgerGroupName, messageID).Err()
	return true
}

// deliver 從 Redis 消息組裝 Delivery（含 Ack/Nack）並投遞到 out
func (q *RedisStreamLedgerEventQueue) deliver(ctx context.Context, out chan<- Delivery, msg redis.XMessage) {
	raw, ok := msg.Values[messageField].(string)
	if !ok {
		logger.WithComponent("mq").Warn("invalid message: missing ledger_event field", zap.String("message_id", msg.ID))
		return
	}
	var event LedgerEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		logger.WithComponent("mq").Warn("unmarshal ledger event failed", zap.String("message_id", msg.ID), zap.Error(err))
		return
	}

	msgID := msg.ID
	d := Delivery{
		Data: &event,
		Ack: func() {
			if err := q.client.XAck(ctx, ledgerStreamKey, ledgerGroupName, msgID).Err(); err != nil {
				logger.WithComponent("mq").Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 不做任何事：消息留在 PEL，等超時後由 XAUTOCLAIM 領回，形成延遲重試
				return
			}
			if err := q.client.XAck(ctx, ledgerStreamKey, ledgerGroupName, msgID).Err(); err != nil {
				logger.WithComponent("mq").Error("XAck discard failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
	}

	select {
	case out <- d:
	case <-ctx.Done():
	}
}
