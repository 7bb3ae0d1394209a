//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/domain/product"
	"swapmarket/internal/pkg/clock"
	"swapmarket/internal/pkg/errs"
	"swapmarket/internal/usecase/commands"
	"swapmarket/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memstore.Store
	clock *clock.MockClock
	cmds  commands.NegotiationCommands

	requester uuid.UUID
	owner     uuid.UUID
	desired   uuid.UUID
	offered   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	requester := uuid.New()
	owner := uuid.New()
	desired := store.AddProduct(owner, product.KindExchange)
	offered := store.AddProduct(requester, product.KindExchange)

	return &fixture{
		store:     store,
		clock:     mockClock,
		cmds:      commands.NewNegotiationCommands(store, mockClock),
		requester: requester,
		owner:     owner,
		desired:   desired,
		offered:   offered,
	}
}

func (f *fixture) createPending(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := f.cmds.Create(context.Background(), commands.CreateNegotiationCommand{
		DesiredProductID:  f.desired,
		OfferedProductIDs: []uuid.UUID{f.offered},
	}, f.requester)
	require.NoError(t, err)
	return id
}

// =============================================================================
// Create Tests
// =============================================================================

func TestNegotiationCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success: exchange negotiation starts pending", func(t *testing.T) {
		f := newFixture(t)

		id := f.createPending(t)

		status, ok := f.store.NegotiationStatus(id)
		require.True(t, ok)
		assert.Equal(t, negotiation.StatusPending, status)
		assert.Equal(t, []uuid.UUID{f.offered}, f.store.OfferedProductIDs(id))
	})

	t.Run("success: donation negotiation without offers", func(t *testing.T) {
		f := newFixture(t)
		donated := f.store.AddProduct(f.owner, product.KindDonation)

		id, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID: donated,
		}, f.requester)

		require.NoError(t, err)
		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusPending, status)
	})

	t.Run("success: draft starts processing", func(t *testing.T) {
		f := newFixture(t)

		id, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID: f.desired,
			Draft:            true,
		}, f.requester)

		require.NoError(t, err)
		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusProcessing, status)
	})

	t.Run("error: desired product does not exist", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  uuid.New(),
			OfferedProductIDs: []uuid.UUID{f.offered},
		}, f.requester)

		assert.ErrorIs(t, err, commands.ErrProductNotFound)
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("error: requester owns the desired product", func(t *testing.T) {
		f := newFixture(t)
		own := f.store.AddProduct(f.requester, product.KindExchange)

		_, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  own,
			OfferedProductIDs: []uuid.UUID{f.offered},
		}, f.requester)

		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("error: offered product belongs to someone else", func(t *testing.T) {
		f := newFixture(t)
		foreign := f.store.AddProduct(uuid.New(), product.KindExchange)

		_, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  f.desired,
			OfferedProductIDs: []uuid.UUID{foreign},
		}, f.requester)

		assert.True(t, errs.Is(err, errs.ErrAuthorization))
	})

	t.Run("error: second active negotiation for the same product", func(t *testing.T) {
		f := newFixture(t)
		f.createPending(t)
		second := f.store.AddProduct(f.requester, product.KindExchange)

		_, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  f.desired,
			OfferedProductIDs: []uuid.UUID{second},
		}, f.requester)

		assert.ErrorIs(t, err, commands.ErrActiveNegotiationExists)
		assert.True(t, errs.Is(err, errs.ErrConflict))
	})

	t.Run("success: new negotiation allowed after rejection", func(t *testing.T) {
		f := newFixture(t)
		first := f.createPending(t)
		require.NoError(t, f.cmds.Reject(ctx, first, f.owner))

		_, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  f.desired,
			OfferedProductIDs: []uuid.UUID{f.offered},
		}, f.requester)

		require.NoError(t, err)
	})
}

// =============================================================================
// Confirm Tests
// =============================================================================

func TestNegotiationCommands_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("success: draft promoted with offered products", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID: f.desired,
			Draft:            true,
		}, f.requester)
		require.NoError(t, err)

		err = f.cmds.Confirm(ctx, id, []uuid.UUID{f.offered}, f.requester)

		require.NoError(t, err)
		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusPending, status)
		assert.Equal(t, []uuid.UUID{f.offered}, f.store.OfferedProductIDs(id))
	})

	t.Run("error: only the requester may confirm", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID: f.desired,
			Draft:            true,
		}, f.requester)
		require.NoError(t, err)

		err = f.cmds.Confirm(ctx, id, []uuid.UUID{f.offered}, f.owner)

		assert.True(t, errs.Is(err, errs.ErrAuthorization))
	})

	t.Run("error: confirming a pending negotiation", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		err := f.cmds.Confirm(ctx, id, []uuid.UUID{f.offered}, f.requester)

		assert.True(t, errs.Is(err, errs.ErrConflict))
	})

	t.Run("error: unknown negotiation", func(t *testing.T) {
		f := newFixture(t)

		err := f.cmds.Confirm(ctx, uuid.New(), []uuid.UUID{f.offered}, f.requester)

		assert.ErrorIs(t, err, commands.ErrNegotiationNotFound)
	})
}

// =============================================================================
// Accept Tests
// =============================================================================

func TestNegotiationCommands_Accept(t *testing.T) {
	ctx := context.Background()

	t.Run("success: settlement created and linked once", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		err := f.cmds.Accept(ctx, id, f.owner)

		require.NoError(t, err)
		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusApproved, status)
		assert.NotNil(t, f.store.NegotiationSettlementID(id))
		assert.Equal(t, 1, f.store.SettlementCount())
	})

	t.Run("success: competitors on the desired product are cascade-rejected", func(t *testing.T) {
		f := newFixture(t)
		winner := f.createPending(t)

		rival := uuid.New()
		rivalOffer := f.store.AddProduct(rival, product.KindExchange)
		loser, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  f.desired,
			OfferedProductIDs: []uuid.UUID{rivalOffer},
		}, rival)
		require.NoError(t, err)

		require.NoError(t, f.cmds.Accept(ctx, winner, f.owner))

		loserStatus, _ := f.store.NegotiationStatus(loser)
		assert.Equal(t, negotiation.StatusRejected, loserStatus)
	})

	t.Run("success: negotiations desiring the offered product are cascade-rejected", func(t *testing.T) {
		f := newFixture(t)
		winner := f.createPending(t)

		// A third party wants the product the requester just traded away.
		third := uuid.New()
		crossing, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  f.offered,
			OfferedProductIDs: []uuid.UUID{f.store.AddProduct(third, product.KindExchange)},
		}, third)
		require.NoError(t, err)

		unrelatedOwner := uuid.New()
		unrelatedDesired := f.store.AddProduct(unrelatedOwner, product.KindDonation)
		unrelated, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID: unrelatedDesired,
		}, third)
		require.NoError(t, err)

		require.NoError(t, f.cmds.Accept(ctx, winner, f.owner))

		crossingStatus, _ := f.store.NegotiationStatus(crossing)
		assert.Equal(t, negotiation.StatusRejected, crossingStatus)
		unrelatedStatus, _ := f.store.NegotiationStatus(unrelated)
		assert.Equal(t, negotiation.StatusPending, unrelatedStatus)
	})

	t.Run("error: only the owner may accept", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		err := f.cmds.Accept(ctx, id, f.requester)

		assert.True(t, errs.Is(err, errs.ErrAuthorization))
		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusPending, status)
	})

	t.Run("error: accept twice", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)
		require.NoError(t, f.cmds.Accept(ctx, id, f.owner))

		err := f.cmds.Accept(ctx, id, f.owner)

		assert.True(t, errs.Is(err, errs.ErrConflict))
		assert.Equal(t, 1, f.store.SettlementCount())
	})

	t.Run("error: accept a draft", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID: f.desired,
			Draft:            true,
		}, f.requester)
		require.NoError(t, err)

		err = f.cmds.Accept(ctx, id, f.owner)

		assert.True(t, errs.Is(err, errs.ErrConflict))
	})
}

// =============================================================================
// Reject / Cancel Tests
// =============================================================================

func TestNegotiationCommands_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("success: no settlement and no cascade", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		rival := uuid.New()
		other, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID:  f.desired,
			OfferedProductIDs: []uuid.UUID{f.store.AddProduct(rival, product.KindExchange)},
		}, rival)
		require.NoError(t, err)

		require.NoError(t, f.cmds.Reject(ctx, id, f.owner))

		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusRejected, status)
		assert.Equal(t, 0, f.store.SettlementCount())
		otherStatus, _ := f.store.NegotiationStatus(other)
		assert.Equal(t, negotiation.StatusPending, otherStatus)
	})

	t.Run("error: only the owner may reject", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		err := f.cmds.Reject(ctx, id, f.requester)

		assert.True(t, errs.Is(err, errs.ErrAuthorization))
	})
}

func TestNegotiationCommands_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("success: requester cancels pending negotiation", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		require.NoError(t, f.cmds.Cancel(ctx, id, f.requester))

		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusCancelled, status)
	})

	t.Run("success: requester cancels draft", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.cmds.Create(ctx, commands.CreateNegotiationCommand{
			DesiredProductID: f.desired,
			Draft:            true,
		}, f.requester)
		require.NoError(t, err)

		require.NoError(t, f.cmds.Cancel(ctx, id, f.requester))
	})

	t.Run("error: owner cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		err := f.cmds.Cancel(ctx, id, f.owner)

		assert.True(t, errs.Is(err, errs.ErrAuthorization))
	})

	t.Run("error: cancel after approval", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)
		require.NoError(t, f.cmds.Accept(ctx, id, f.owner))

		err := f.cmds.Cancel(ctx, id, f.requester)

		assert.True(t, errs.Is(err, errs.ErrConflict))
		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusApproved, status)
	})

	t.Run("error: cancel twice", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)
		require.NoError(t, f.cmds.Cancel(ctx, id, f.requester))

		err := f.cmds.Cancel(ctx, id, f.requester)

		assert.True(t, errs.Is(err, errs.ErrConflict))
	})
}

// =============================================================================
// SendMessage Tests
// =============================================================================

func TestNegotiationCommands_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("success: both participants write, updated_at advances", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		f.clock.Add(time.Minute)
		_, err := f.cmds.SendMessage(ctx, id, "is this still available?", f.requester)
		require.NoError(t, err)

		f.clock.Add(time.Minute)
		_, err = f.cmds.SendMessage(ctx, id, "it is", f.owner)
		require.NoError(t, err)

		msgs := f.store.Messages(id)
		require.Len(t, msgs, 2)
		assert.Equal(t, f.requester, msgs[0].SenderID)
		assert.Equal(t, f.owner, msgs[1].SenderID)
		assert.Equal(t, f.clock.Now(), f.store.NegotiationUpdatedAt(id))

		// Message traffic never changes status.
		status, _ := f.store.NegotiationStatus(id)
		assert.Equal(t, negotiation.StatusPending, status)
	})

	t.Run("error: non-participant", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		_, err := f.cmds.SendMessage(ctx, id, "hello", uuid.New())

		assert.True(t, errs.Is(err, errs.ErrAuthorization))
		assert.Empty(t, f.store.Messages(id))
	})

	t.Run("error: thread closed after approval", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)
		require.NoError(t, f.cmds.Accept(ctx, id, f.owner))

		_, err := f.cmds.SendMessage(ctx, id, "congrats", f.requester)

		assert.True(t, errs.Is(err, errs.ErrConflict))
	})

	t.Run("error: blank content", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPending(t)

		_, err := f.cmds.SendMessage(ctx, id, "   ", f.owner)

		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("error: unknown negotiation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.cmds.SendMessage(ctx, uuid.New(), "hello", f.requester)

		assert.ErrorIs(t, err, commands.ErrNegotiationNotFound)
	})
}
