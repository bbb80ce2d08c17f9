package registry

import (
	"context"
	"testing"

	"go-ticket-marketplace/internal/auth"
	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/store"
	apperrors "go-ticket-marketplace/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRegistry_Issue(t *testing.T) {
	ctx := context.Background()
	guard := auth.NewGuard(auth.TrustingVerifier())

	t.Run("Success - valid ticket with fee snapshot", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)

		err := inTxn(t, s, func(tx store.Txn) error {
			first, err := reg.Issue(ctx, tx, 7, "buyer", 1000, 25)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), first.ID)
			assert.Equal(t, uint64(7), first.EventID)
			assert.Equal(t, model.Principal("buyer"), first.Owner)
			assert.Equal(t, model.Amount(1000), first.PurchasePrice)
			assert.Equal(t, model.Amount(25), first.FeePaid)
			assert.Equal(t, model.TicketStatusValid, first.Status)

			// 票號跨活動共用同一條序列
			second, err := reg.Issue(ctx, tx, 8, "buyer", 500, 0)
			require.NoError(t, err)
			assert.Equal(t, uint64(2), second.ID)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestTicketRegistry_MarkUsed(t *testing.T) {
	ctx := context.Background()
	guard := auth.NewGuard(auth.TrustingVerifier())

	issue := func(t *testing.T, s store.Store, reg *TicketRegistry) *model.Ticket {
		t.Helper()
		var ticket *model.Ticket
		require.NoError(t, inTxn(t, s, func(tx store.Txn) error {
			var err error
			ticket, err = reg.Issue(ctx, tx, 1, "buyer", 1000, 25)
			return err
		}))
		return ticket
	}

	t.Run("Success", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)
		ticket := issue(t, s, reg)

		err := inTxn(t, s, func(tx store.Txn) error {
			return reg.MarkUsed(ctx, tx, ticket, "organizer", "organizer")
		})

		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusUsed, ticket.Status)
	})

	t.Run("Failed - caller is not the organizer", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)
		ticket := issue(t, s, reg)

		err := inTxn(t, s, func(tx store.Txn) error {
			return reg.MarkUsed(ctx, tx, ticket, "buyer", "organizer")
		})

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Failed - already used", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)
		ticket := issue(t, s, reg)
		ticket.Status = model.TicketStatusUsed

		err := inTxn(t, s, func(tx store.Txn) error {
			return reg.MarkUsed(ctx, tx, ticket, "organizer", "organizer")
		})

		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
	})
}

func TestTicketRegistry_MarkRefunded(t *testing.T) {
	ctx := context.Background()
	guard := auth.NewGuard(auth.TrustingVerifier())

	issue := func(t *testing.T, s store.Store, reg *TicketRegistry) *model.Ticket {
		t.Helper()
		var ticket *model.Ticket
		require.NoError(t, inTxn(t, s, func(tx store.Txn) error {
			var err error
			ticket, err = reg.Issue(ctx, tx, 1, "buyer", 1000, 25)
			return err
		}))
		return ticket
	}

	t.Run("Success", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)
		ticket := issue(t, s, reg)

		err := inTxn(t, s, func(tx store.Txn) error {
			return reg.MarkRefunded(ctx, tx, ticket, "buyer", model.EventStatusCancelled)
		})

		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusRefunded, ticket.Status)
	})

	t.Run("Failed - caller is not the owner", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)
		ticket := issue(t, s, reg)

		err := inTxn(t, s, func(tx store.Txn) error {
			return reg.MarkRefunded(ctx, tx, ticket, "organizer", model.EventStatusCancelled)
		})

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Failed - event not cancelled", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)
		ticket := issue(t, s, reg)

		err := inTxn(t, s, func(tx store.Txn) error {
			return reg.MarkRefunded(ctx, tx, ticket, "buyer", model.EventStatusPublished)
		})

		assert.ErrorIs(t, err, apperrors.ErrEventNotCancelled)
	})

	t.Run("Failed - already refunded", func(t *testing.T) {
		s := store.NewMemoryStore()
		reg := NewTicketRegistry(guard)
		ticket := issue(t, s, reg)
		ticket.Status = model.TicketStatusRefunded

		err := inTxn(t, s, func(tx store.Txn) error {
			return reg.MarkRefunded(ctx, tx, ticket, "buyer", model.EventStatusCancelled)
		})

		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyUsed)
	})
}

func TestNextSequentialID(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	// 序號從 1 開始並跨交易持續遞增
	for want := uint64(1); want <= 3; want++ {
		err := inTxn(t, s, func(tx store.Txn) error {
			id, err := nextSequentialID(ctx, tx, "seq:test")
			require.NoError(t, err)
			assert.Equal(t, want, id)
			return nil
		})
		require.NoError(t, err)
	}
}
