package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    EventStatus
		to      EventStatus
		allowed bool
	}{
		{"draft to published", EventStatusDraft, EventStatusPublished, true},
		{"draft to cancelled", EventStatusDraft, EventStatusCancelled, true},
		{"draft to completed", EventStatusDraft, EventStatusCompleted, false},
		{"published to cancelled", EventStatusPublished, EventStatusCancelled, true},
		{"published to completed", EventStatusPublished, EventStatusCompleted, true},
		{"published to draft", EventStatusPublished, EventStatusDraft, false},
		{"cancelled is terminal", EventStatusCancelled, EventStatusPublished, false},
		{"completed is terminal", EventStatusCompleted, EventStatusCancelled, false},
		{"no self transition", EventStatusPublished, EventStatusPublished, false},
		{"unknown source", EventStatus("unknown"), EventStatusPublished, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestEventStatus_IsValid(t *testing.T) {
	assert.True(t, EventStatusDraft.IsValid())
	assert.True(t, EventStatusPublished.IsValid())
	assert.True(t, EventStatusCancelled.IsValid())
	assert.True(t, EventStatusCompleted.IsValid())
	assert.False(t, EventStatus("archived").IsValid())
	assert.False(t, EventStatus("").IsValid())
}

func TestEvent_SoldOut(t *testing.T) {
	event := &Event{Capacity: 2}

	assert.False(t, event.SoldOut())
	event.TicketsSold = 1
	assert.False(t, event.SoldOut())
	event.TicketsSold = 2
	assert.True(t, event.SoldOut())
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    TicketStatus
		to      TicketStatus
		allowed bool
	}{
		{"valid to used", TicketStatusValid, TicketStatusUsed, true},
		{"valid to refunded", TicketStatusValid, TicketStatusRefunded, true},
		{"used is terminal", TicketStatusUsed, TicketStatusRefunded, false},
		{"refunded is terminal", TicketStatusRefunded, TicketStatusUsed, false},
		{"no self transition", TicketStatusValid, TicketStatusValid, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTicket_RefundAmount(t *testing.T) {
	ticket := &Ticket{PurchasePrice: 1000, FeePaid: 25}
	assert.Equal(t, Amount(975), ticket.RefundAmount())

	free := &Ticket{PurchasePrice: 1000, FeePaid: 0}
	assert.Equal(t, Amount(1000), free.RefundAmount())
}

func TestPlatformConfig_FeeFor(t *testing.T) {
	cases := []struct {
		name  string
		bps   uint32
		price Amount
		fee   Amount
	}{
		{"zero rate", 0, 1000, 0},
		{"250 bps of 1000", 250, 1000, 25},
		{"rounds down", 250, 1001, 25},
		{"500 bps of 200", 500, 200, 10},
		{"full rate", MaxFeeBps, 1000, 1000},
		{"tiny price floors to zero", 1, 100, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &PlatformConfig{FeeBps: tc.bps}
			assert.Equal(t, tc.fee, cfg.FeeFor(tc.price))
		})
	}
}
