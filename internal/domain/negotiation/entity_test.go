//go:build unit

package negotiation_test

import (
	"testing"
	"time"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/domain/product"
	"swapmarket/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Creation Tests
// =============================================================================

func TestNewNegotiation_OfferValidation(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*builder.NegotiationBuilder)
		expectedErr error
	}{
		{
			name:   "success: exchange with one offered product",
			mutate: func(_ *builder.NegotiationBuilder) {},
		},
		{
			name: "success: donation with no offered products",
			mutate: func(b *builder.NegotiationBuilder) {
				b.Kind = product.KindDonation
				b.OfferedIDs = nil
			},
		},
		{
			name: "error: requester targets own product",
			mutate: func(b *builder.NegotiationBuilder) {
				b.OwnerID = b.RequesterID
			},
			expectedErr: negotiation.ErrOwnProduct,
		},
		{
			name: "error: exchange without offered products",
			mutate: func(b *builder.NegotiationBuilder) {
				b.OfferedIDs = nil
			},
			expectedErr: negotiation.ErrOfferRequired,
		},
		{
			name: "error: donation with offered products",
			mutate: func(b *builder.NegotiationBuilder) {
				b.Kind = product.KindDonation
			},
			expectedErr: negotiation.ErrOfferNotAllowed,
		},
		{
			name: "error: offered product equals desired product",
			mutate: func(b *builder.NegotiationBuilder) {
				b.OfferedIDs = []uuid.UUID{b.DesiredID}
			},
			expectedErr: negotiation.ErrOfferEqualsDesired,
		},
		{
			name: "error: duplicate offered products",
			mutate: func(b *builder.NegotiationBuilder) {
				dup := uuid.New()
				b.OfferedIDs = []uuid.UUID{dup, dup}
			},
			expectedErr: negotiation.ErrDuplicateOffer,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewNegotiationBuilder().With(tc.mutate)
			n, err := b.BuildDomain()

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, negotiation.StatusPending, n.Status())
			assert.Equal(t, b.RequesterID, n.RequesterID())
			assert.Equal(t, b.DesiredID, n.DesiredProductID())
		})
	}
}

func TestNewNegotiation_OfferNotOwned(t *testing.T) {
	b := builder.NewNegotiationBuilder()
	offered := []negotiation.OfferedSpec{{ID: uuid.New(), OwnerID: uuid.New()}}

	_, err := negotiation.NewNegotiation(uuid.Nil, b.RequesterID, b.Desired(), offered, false, b.Now)

	assert.ErrorIs(t, err, negotiation.ErrOfferNotOwned)
}

func TestNewNegotiation_Draft(t *testing.T) {
	b := builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) {
		b.Draft = true
	})

	n, err := b.BuildDomain()

	require.NoError(t, err)
	assert.Equal(t, negotiation.StatusProcessing, n.Status())
	assert.Empty(t, n.OfferedProductIDs())
}

// =============================================================================
// Commit Tests
// =============================================================================

func TestNegotiation_Commit(t *testing.T) {
	later := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("success: draft promoted to pending with offered products", func(t *testing.T) {
		b := builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.Draft = true })
		n, err := b.BuildDomain()
		require.NoError(t, err)

		err = n.Commit(b.RequesterID, b.Desired(), b.Offered(), later)

		require.NoError(t, err)
		assert.Equal(t, negotiation.StatusPending, n.Status())
		assert.Equal(t, b.OfferedIDs, n.OfferedProductIDs())
		assert.Equal(t, later, n.UpdatedAt())
	})

	t.Run("error: only the requester may commit", func(t *testing.T) {
		b := builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.Draft = true })
		n, err := b.BuildDomain()
		require.NoError(t, err)

		err = n.Commit(b.OwnerID, b.Desired(), b.Offered(), later)

		assert.ErrorIs(t, err, negotiation.ErrNotRequester)
	})

	t.Run("error: pending negotiation is not a draft", func(t *testing.T) {
		b := builder.NewNegotiationBuilder()
		n, err := b.BuildDomain()
		require.NoError(t, err)

		err = n.Commit(b.RequesterID, b.Desired(), b.Offered(), later)

		assert.ErrorIs(t, err, negotiation.ErrNotDraft)
	})

	t.Run("error: commit runs full offer validation", func(t *testing.T) {
		b := builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.Draft = true })
		n, err := b.BuildDomain()
		require.NoError(t, err)

		err = n.Commit(b.RequesterID, b.Desired(), nil, later)

		assert.ErrorIs(t, err, negotiation.ErrOfferRequired)
		assert.Equal(t, negotiation.StatusProcessing, n.Status())
	})
}

// =============================================================================
// Transition Tests
// =============================================================================

func TestNegotiation_Transitions(t *testing.T) {
	later := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		act            func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error
		expectedErr    error
		expectedStatus negotiation.Status
	}{
		{
			name: "success: owner approves pending negotiation",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				return n.Approve(b.OwnerID, b.OwnerID, later)
			},
			expectedStatus: negotiation.StatusApproved,
		},
		{
			name: "success: owner rejects pending negotiation",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				return n.Reject(b.OwnerID, b.OwnerID, later)
			},
			expectedStatus: negotiation.StatusRejected,
		},
		{
			name: "success: requester cancels pending negotiation",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				return n.Cancel(b.RequesterID, later)
			},
			expectedStatus: negotiation.StatusCancelled,
		},
		{
			name: "error: requester cannot approve",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				return n.Approve(b.RequesterID, b.OwnerID, later)
			},
			expectedErr:    negotiation.ErrNotOwner,
			expectedStatus: negotiation.StatusPending,
		},
		{
			name: "error: requester cannot reject",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				return n.Reject(b.RequesterID, b.OwnerID, later)
			},
			expectedErr:    negotiation.ErrNotOwner,
			expectedStatus: negotiation.StatusPending,
		},
		{
			name: "error: owner cannot cancel",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				return n.Cancel(b.OwnerID, later)
			},
			expectedErr:    negotiation.ErrNotRequester,
			expectedStatus: negotiation.StatusPending,
		},
		{
			name: "error: approve after approve",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				require.NoError(t, n.Approve(b.OwnerID, b.OwnerID, later))
				return n.Approve(b.OwnerID, b.OwnerID, later)
			},
			expectedErr:    negotiation.ErrNotPending,
			expectedStatus: negotiation.StatusApproved,
		},
		{
			name: "error: cancel after approve",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				require.NoError(t, n.Approve(b.OwnerID, b.OwnerID, later))
				return n.Cancel(b.RequesterID, later)
			},
			expectedErr:    negotiation.ErrAlreadyTerminal,
			expectedStatus: negotiation.StatusApproved,
		},
		{
			name: "error: cancel after cancel",
			act: func(n *negotiation.Negotiation, b *builder.NegotiationBuilder) error {
				require.NoError(t, n.Cancel(b.RequesterID, later))
				return n.Cancel(b.RequesterID, later)
			},
			expectedErr:    negotiation.ErrAlreadyTerminal,
			expectedStatus: negotiation.StatusCancelled,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewNegotiationBuilder()
			n, err := b.BuildDomain()
			require.NoError(t, err)

			err = tc.act(n, b)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expectedStatus, n.Status())
		})
	}
}

func TestNegotiation_CancelDraft(t *testing.T) {
	b := builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.Draft = true })
	n, err := b.BuildDomain()
	require.NoError(t, err)

	err = n.Cancel(b.RequesterID, b.Now.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, negotiation.StatusCancelled, n.Status())
}

// =============================================================================
// Settlement Tests
// =============================================================================

func TestNegotiation_AttachSettlement(t *testing.T) {
	b := builder.NewNegotiationBuilder()
	n, err := b.BuildDomain()
	require.NoError(t, err)
	require.NoError(t, n.Approve(b.OwnerID, b.OwnerID, b.Now))

	settlementID := uuid.New()
	require.NoError(t, n.AttachSettlement(settlementID))
	require.NotNil(t, n.SettlementID())
	assert.Equal(t, settlementID, *n.SettlementID())

	err = n.AttachSettlement(uuid.New())
	assert.ErrorIs(t, err, negotiation.ErrSettlementExists)
	assert.Equal(t, settlementID, *n.SettlementID())
}

// =============================================================================
// Message Tests
// =============================================================================

func TestNegotiation_NewMessage(t *testing.T) {
	b := builder.NewNegotiationBuilder()

	testCases := []struct {
		name        string
		prepare     func(n *negotiation.Negotiation)
		sender      uuid.UUID
		content     string
		expectedErr error
	}{
		{
			name:    "success: requester writes while pending",
			prepare: func(_ *negotiation.Negotiation) {},
			sender:  b.RequesterID,
			content: "still interested?",
		},
		{
			name:    "success: owner writes while pending",
			prepare: func(_ *negotiation.Negotiation) {},
			sender:  b.OwnerID,
			content: "yes, let's talk",
		},
		{
			name:        "error: non-participant cannot write",
			prepare:     func(_ *negotiation.Negotiation) {},
			sender:      uuid.New(),
			content:     "hello",
			expectedErr: negotiation.ErrNotParticipant,
		},
		{
			name: "error: thread closes on approval",
			prepare: func(n *negotiation.Negotiation) {
				require.NoError(t, n.Approve(b.OwnerID, b.OwnerID, b.Now))
			},
			sender:      b.RequesterID,
			content:     "too late",
			expectedErr: negotiation.ErrMessagesClosed,
		},
		{
			name: "error: thread closes on cancellation",
			prepare: func(n *negotiation.Negotiation) {
				require.NoError(t, n.Cancel(b.RequesterID, b.Now))
			},
			sender:      b.OwnerID,
			content:     "too late",
			expectedErr: negotiation.ErrMessagesClosed,
		},
		{
			name:        "error: empty content",
			prepare:     func(_ *negotiation.Negotiation) {},
			sender:      b.RequesterID,
			content:     "   ",
			expectedErr: negotiation.ErrEmptyContent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := builder.NewNegotiationBuilder().With(func(nb *builder.NegotiationBuilder) {
				nb.RequesterID = b.RequesterID
				nb.OwnerID = b.OwnerID
				nb.DesiredID = b.DesiredID
				nb.OfferedIDs = b.OfferedIDs
			}).BuildDomain()
			require.NoError(t, err)
			tc.prepare(n)

			msg, err := n.NewMessage(tc.sender, b.OwnerID, tc.content, b.Now)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, msg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.sender, msg.SenderID())
			assert.Equal(t, n.ID(), msg.NegotiationID())
			assert.Equal(t, tc.content, msg.Content().String())
		})
	}
}

func TestNegotiation_DraftAcceptsMessages(t *testing.T) {
	b := builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.Draft = true })
	n, err := b.BuildDomain()
	require.NoError(t, err)

	msg, err := n.NewMessage(b.OwnerID, b.OwnerID, "what would you trade for it?", b.Now)

	require.NoError(t, err)
	assert.Equal(t, b.OwnerID, msg.SenderID())
}

// =============================================================================
// Status Predicate Tests
// =============================================================================

func TestStatus_Predicates(t *testing.T) {
	testCases := []struct {
		status          negotiation.Status
		terminal        bool
		active          bool
		acceptsMessages bool
	}{
		{negotiation.StatusProcessing, false, false, true},
		{negotiation.StatusPending, false, true, true},
		{negotiation.StatusApproved, true, true, false},
		{negotiation.StatusRejected, true, false, false},
		{negotiation.StatusCancelled, true, false, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.terminal, tc.status.IsTerminal())
			assert.Equal(t, tc.active, tc.status.IsActive())
			assert.Equal(t, tc.acceptsMessages, tc.status.AcceptsMessages())
		})
	}
}

func TestNewStatus(t *testing.T) {
	s, err := negotiation.NewStatus("PENDING")
	require.NoError(t, err)
	assert.Equal(t, negotiation.StatusPending, s)

	_, err = negotiation.NewStatus("UNKNOWN")
	assert.ErrorIs(t, err, negotiation.ErrInvalidStatus)
}
