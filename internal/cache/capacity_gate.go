package cache

import (
	"context"
	"fmt"

	apperrors "go-ticket-marketplace/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// CapacityGate 在真正並發的部署下，於交易前先原子地保留一個名額，
// 避免兩個購買同時讀到「還剩最後一張」而雙雙成功。
// 它只是前置閘門，權威的容量檢查仍在 store 交易內。
type CapacityGate interface {
	// WarmUp 活動開賣時預載剩餘名額
	WarmUp(ctx context.Context, eventID uint64, remaining uint32) error
	// Reserve 保留一個名額。reserved=false 且 err=nil 代表閘門未預熱，直接放行。
	Reserve(ctx context.Context, eventID uint64) (reserved bool, err error)
	// Release 交易失敗時把保留的名額還回去
	Release(ctx context.Context, eventID uint64) error
}

// Lua 確保「檢查 + 扣減」原子執行
const reserveSlotScript = `
	local slots = redis.call('GET', KEYS[1])
	if not slots then
		return 0 -- 未預熱，放行給權威檢查
	end
	if tonumber(slots) <= 0 then
		return -1 -- 售完
	end
	redis.call('DECR', KEYS[1])
	return 1
`

// 只在 key 存在時歸還，避免閘門在 Reserve 之後被清掉時憑空加名額
const releaseSlotScript = `
	if redis.call('EXISTS', KEYS[1]) == 1 then
		redis.call('INCR', KEYS[1])
	end
	return 1
`

type RedisCapacityGate struct {
	client *redis.Client
}

func NewRedisCapacityGate(client *redis.Client) *RedisCapacityGate {
	return &RedisCapacityGate{client: client}
}

func (g *RedisCapacityGate) slotsKey(eventID uint64) string {
	return fmt.Sprintf("event:%d:slots", eventID)
}

func (g *RedisCapacityGate) WarmUp(ctx context.Context, eventID uint64, remaining uint32) error {
	return g.client.Set(ctx, g.slotsKey(eventID), int64(remaining), 0).Err()
}

func (g *RedisCapacityGate) Reserve(ctx context.Context, eventID uint64) (bool, error) {
	result, err := g.client.Eval(ctx, reserveSlotScript, []string{g.slotsKey(eventID)}).Result()
	if err != nil {
		return false, err
	}

	slots, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected reserve reply %T", result)
	}
	switch slots {
	case 1:
		return true, nil
	case 0:
		return false, nil
	case -1:
		return false, apperrors.ErrEventSoldOut
	default:
		return false, fmt.Errorf("unexpected reserve reply %d", slots)
	}
}

func (g *RedisCapacityGate) Release(ctx context.Context, eventID uint64) error {
	return g.client.Eval(ctx, releaseSlotScript, []string{g.slotsKey(eventID)}).Err()
}
