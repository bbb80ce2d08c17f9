package store

import "fmt"

// 持久化狀態的 key 配置：
// config 單例、event/ticket/escrow 各自以 id 為 key，
// 兩個單調遞增計數器從 1 開始。
const (
	ConfigKey       = "config"
	NextEventIDKey  = "next_event_id"
	NextTicketIDKey = "next_ticket_id"
)

func EventKey(id uint64) string {
	return fmt.Sprintf("event:%d", id)
}

func TicketKey(id uint64) string {
	return fmt.Sprintf("ticket:%d", id)
}

func EscrowKey(eventID uint64) string {
	return fmt.Sprintf("escrow:%d", eventID)
}
