package model

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	TicketStatusValid    TicketStatus = "valid"
	TicketStatusUsed     TicketStatus = "used"
	TicketStatusRefunded TicketStatus = "refunded"
)

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusValid, TicketStatusUsed, TicketStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
// used 與 refunded 為終態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	transitions := map[TicketStatus][]TicketStatus{
		TicketStatusValid:    {TicketStatusUsed, TicketStatusRefunded},
		TicketStatusUsed:     {},
		TicketStatusRefunded: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Ticket 票券模型。FeePaid 記錄購買當下實際收取的平台費，
// 退款金額 = PurchasePrice - FeePaid，不受之後費率調整影響。
type Ticket struct {
	ID            uint64       `json:"id"`
	EventID       uint64       `json:"event_id"`
	Owner         Principal    `json:"owner"`
	PurchasePrice Amount       `json:"purchase_price"`
	FeePaid       Amount       `json:"fee_paid"`
	Status        TicketStatus `json:"status"`
}

// RefundAmount 退款時應釋放回買家的金額
func (t *Ticket) RefundAmount() Amount {
	return t.PurchasePrice - t.FeePaid
}
