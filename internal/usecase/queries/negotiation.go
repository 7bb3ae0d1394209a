package queries

import (
	"context"

	"swapmarket/internal/infra"
	"swapmarket/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNegotiationNotFound = errs.Mark(errs.New("negotiation not found"), errs.ErrNotFound)
	ErrAccessDenied        = errs.Mark(errs.New("access denied to this negotiation"), errs.ErrAuthorization)
	ErrQueryFailed         = errs.Mark(errs.New("query failed"), errs.ErrInternal)
)

type NegotiationQueries interface {
	// GetDetail returns the negotiation with its products and ordered message
	// thread. Participants only.
	GetDetail(ctx context.Context, actorID, id uuid.UUID) (*NegotiationDetail, error)
	// ListForUser returns negotiations the user created plus those targeting
	// the user's products.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*NegotiationListItem, error)
	// ListMessages returns the thread in ascending send time. Participants only.
	ListMessages(ctx context.Context, actorID, negotiationID uuid.UUID) ([]*MessageView, error)
}

type NegotiationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*NegotiationView, error)
	FindOfferedProducts(ctx context.Context, negotiationID uuid.UUID) ([]*OfferedProductView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*NegotiationListItem, error)
	FindMessages(ctx context.Context, negotiationID uuid.UUID) ([]*MessageView, error)
}

type negotiationQueriesImpl struct {
	store NegotiationReadStore
}

func NewNegotiationQueries(store NegotiationReadStore) NegotiationQueries {
	return &negotiationQueriesImpl{store: store}
}

func (q *negotiationQueriesImpl) GetDetail(ctx context.Context, actorID, id uuid.UUID) (*NegotiationDetail, error) {
	view, err := q.loadForParticipant(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	offered, err := q.store.FindOfferedProducts(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	view.OfferedProducts = offered

	messages, err := q.store.FindMessages(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return &NegotiationDetail{
		Negotiation: view,
		Messages:    messages,
	}, nil
}

func (q *negotiationQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*NegotiationListItem, error) {
	items, err := q.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return items, nil
}

func (q *negotiationQueriesImpl) ListMessages(ctx context.Context, actorID, negotiationID uuid.UUID) ([]*MessageView, error) {
	if _, err := q.loadForParticipant(ctx, actorID, negotiationID); err != nil {
		return nil, err
	}

	messages, err := q.store.FindMessages(ctx, negotiationID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return messages, nil
}

func (q *negotiationQueriesImpl) loadForParticipant(ctx context.Context, actorID, id uuid.UUID) (*NegotiationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNegotiationNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	if actorID != view.RequesterID && actorID != view.OwnerID {
		return nil, ErrAccessDenied
	}
	return view, nil
}
