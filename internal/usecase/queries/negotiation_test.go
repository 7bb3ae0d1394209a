//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"swapmarket/internal/infra"
	"swapmarket/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReadStore struct {
	view     *queries.NegotiationView
	offered  []*queries.OfferedProductView
	items    []*queries.NegotiationListItem
	messages []*queries.MessageView
	findErr  error
}

func (s *stubReadStore) FindByID(_ context.Context, _ uuid.UUID) (*queries.NegotiationView, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.view, nil
}

func (s *stubReadStore) FindOfferedProducts(_ context.Context, _ uuid.UUID) ([]*queries.OfferedProductView, error) {
	return s.offered, nil
}

func (s *stubReadStore) FindByUserID(_ context.Context, _ uuid.UUID) ([]*queries.NegotiationListItem, error) {
	return s.items, nil
}

func (s *stubReadStore) FindMessages(_ context.Context, _ uuid.UUID) ([]*queries.MessageView, error) {
	return s.messages, nil
}

func newStubView() *queries.NegotiationView {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &queries.NegotiationView{
		ID:            uuid.New(),
		RequesterID:   uuid.New(),
		RequesterName: "Ana",
		OwnerID:       uuid.New(),
		OwnerName:     "Bruno",
		Type:          "exchange",
		Status:        "PENDING",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestNegotiationQueries_GetDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("success: requester sees detail with offers and messages", func(t *testing.T) {
		view := newStubView()
		store := &stubReadStore{
			view:    view,
			offered: []*queries.OfferedProductView{{ID: uuid.New(), Name: "bike"}},
			messages: []*queries.MessageView{
				{ID: uuid.New(), SenderID: view.RequesterID, Content: "hi"},
			},
		}
		q := queries.NewNegotiationQueries(store)

		detail, err := q.GetDetail(ctx, view.RequesterID, view.ID)

		require.NoError(t, err)
		assert.Len(t, detail.Negotiation.OfferedProducts, 1)
		assert.Len(t, detail.Messages, 1)
	})

	t.Run("success: owner is also a participant", func(t *testing.T) {
		view := newStubView()
		q := queries.NewNegotiationQueries(&stubReadStore{view: view})

		_, err := q.GetDetail(ctx, view.OwnerID, view.ID)

		require.NoError(t, err)
	})

	t.Run("error: outsider is denied", func(t *testing.T) {
		view := newStubView()
		q := queries.NewNegotiationQueries(&stubReadStore{view: view})

		_, err := q.GetDetail(ctx, uuid.New(), view.ID)

		assert.ErrorIs(t, err, queries.ErrAccessDenied)
	})

	t.Run("error: negotiation missing", func(t *testing.T) {
		store := &stubReadStore{findErr: infra.WrapRepoErr("negotiation not found", nil, infra.KindNotFound)}
		q := queries.NewNegotiationQueries(store)

		_, err := q.GetDetail(ctx, uuid.New(), uuid.New())

		assert.ErrorIs(t, err, queries.ErrNegotiationNotFound)
	})
}

func TestNegotiationQueries_ListMessages(t *testing.T) {
	ctx := context.Background()
	view := newStubView()
	store := &stubReadStore{
		view: view,
		messages: []*queries.MessageView{
			{Content: "first", SentAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			{Content: "second", SentAt: time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)},
		},
	}
	q := queries.NewNegotiationQueries(store)

	t.Run("success: participant gets the thread", func(t *testing.T) {
		msgs, err := q.ListMessages(ctx, view.RequesterID, view.ID)

		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "first", msgs[0].Content)
	})

	t.Run("error: outsider is denied", func(t *testing.T) {
		_, err := q.ListMessages(ctx, uuid.New(), view.ID)

		assert.ErrorIs(t, err, queries.ErrAccessDenied)
	})
}

func TestNegotiationQueries_ListForUser(t *testing.T) {
	userID := uuid.New()
	store := &stubReadStore{
		items: []*queries.NegotiationListItem{
			{ID: uuid.New(), RequesterID: userID, Status: "PENDING"},
			{ID: uuid.New(), OwnerID: userID, Status: "APPROVED"},
		},
	}
	q := queries.NewNegotiationQueries(store)

	items, err := q.ListForUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Len(t, items, 2)
}
