package model

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
// cancelled 與 completed 為終態，不能再轉換
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	transitions := map[EventStatus][]EventStatus{
		EventStatusDraft:     {EventStatusPublished, EventStatusCancelled},
		EventStatusPublished: {EventStatusCancelled, EventStatusCompleted},
		EventStatusCancelled: {},
		EventStatusCompleted: {},
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

// Event 活動模型。除了 tickets_sold 與 status，所有欄位建立後不可變。
type Event struct {
	ID          uint64      `json:"id"`
	Organizer   Principal   `json:"organizer"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	StartTime   uint64      `json:"start_time"`
	EndTime     uint64      `json:"end_time"`
	Price       Amount      `json:"price"`
	Capacity    uint32      `json:"capacity"`
	TicketsSold uint32      `json:"tickets_sold"`
	Status      EventStatus `json:"status"`
}

// SoldOut 檢查活動是否已售完
func (e *Event) SoldOut() bool {
	return e.TicketsSold >= e.Capacity
}

// CreateEventParams 建立活動參數
type CreateEventParams struct {
	Organizer   Principal
	Name        string
	Description string
	Location    string
	StartTime   uint64
	EndTime     uint64
	Price       Amount
	Capacity    uint32
}
