package model

// Principal 外部可驗證的呼叫者身分（organizer、buyer、admin）
type Principal string

// Amount 定點整數金額，所有費用計算只用整數運算
type Amount int64

// MaxFeeBps 費率上限：10000 bps = 100%
const MaxFeeBps uint32 = 10000

// PlatformConfig 平台設定（單例），initialize 時建立一次。
// Admin 設定後不可變；FeeBps 只有 admin 可修改。
type PlatformConfig struct {
	Admin           Principal `json:"admin"`
	FeeBps          uint32    `json:"fee_bps"`
	PlatformBalance Amount    `json:"platform_balance"`
}

// FeeFor 計算單張票的平台費：floor(price * fee_bps / 10000)
func (c *PlatformConfig) FeeFor(price Amount) Amount {
	return price * Amount(c.FeeBps) / Amount(MaxFeeBps)
}

// EventEscrow 單一活動的托管餘額，首次購票時隱式建立
type EventEscrow struct {
	EventID uint64 `json:"event_id"`
	Balance Amount `json:"balance"`
}
