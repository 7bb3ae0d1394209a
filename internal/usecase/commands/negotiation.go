package commands

import (
	"context"
	"errors"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/infra"
	"swapmarket/internal/pkg/clock"
	"swapmarket/internal/pkg/errs"
	"swapmarket/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound         = errs.Mark(errs.New("desired product not found"), errs.ErrNotFound)
	ErrOfferedProductNotFound  = errs.Mark(errs.New("offered product not found"), errs.ErrNotFound)
	ErrNegotiationNotFound     = errs.Mark(errs.New("negotiation not found"), errs.ErrNotFound)
	ErrActiveNegotiationExists = errs.Mark(errs.New("an active negotiation already exists for this product"), errs.ErrConflict)
	ErrNegotiationConflict     = errs.Mark(errs.New("negotiation state changed concurrently"), errs.ErrConflict)
	ErrDatabaseOperationFailed = errs.Mark(errs.New("database operation failed"), errs.ErrInternal)
)

type CreateNegotiationCommand struct {
	DesiredProductID  uuid.UUID
	OfferedProductIDs []uuid.UUID
	// Draft persists the negotiation in PROCESSING so the requester can
	// assemble offered products before committing via Confirm.
	Draft bool
}

type NegotiationCommands interface {
	Create(ctx context.Context, cmd CreateNegotiationCommand, requesterID uuid.UUID) (uuid.UUID, error)
	Confirm(ctx context.Context, negotiationID uuid.UUID, offeredProductIDs []uuid.UUID, actorID uuid.UUID) error
	Accept(ctx context.Context, negotiationID, actorID uuid.UUID) error
	Reject(ctx context.Context, negotiationID, actorID uuid.UUID) error
	Cancel(ctx context.Context, negotiationID, actorID uuid.UUID) error
	SendMessage(ctx context.Context, negotiationID uuid.UUID, content string, senderID uuid.UUID) (uuid.UUID, error)
}

type negotiationUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewNegotiationCommands(uow shared.UnitOfWork, clk clock.Clock) NegotiationCommands {
	return &negotiationUseCaseImpl{uow: uow, clock: clk}
}

func (uc *negotiationUseCaseImpl) Create(ctx context.Context, cmd CreateNegotiationCommand, requesterID uuid.UUID) (uuid.UUID, error) {
	var createdID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		desired, derr := uc.desiredSpec(ctx, tx.Reads(), cmd.DesiredProductID)
		if derr != nil {
			return derr
		}

		if !cmd.Draft {
			active, aerr := tx.Reads().HasActiveNegotiation(ctx, requesterID, cmd.DesiredProductID)
			if aerr != nil {
				return errs.Mark(aerr, ErrDatabaseOperationFailed)
			}
			if active {
				return ErrActiveNegotiationExists
			}
		}

		offered, oerr := uc.offeredSpecs(ctx, tx.Reads(), cmd.OfferedProductIDs)
		if oerr != nil {
			return oerr
		}

		n, nerr := negotiation.NewNegotiation(uuid.Nil, requesterID, desired, offered, cmd.Draft, uc.clock.Now())
		if nerr != nil {
			return markDomainErr(nerr)
		}

		id, cerr := tx.Negotiations().Create(ctx, tx.DB(), n)
		if cerr != nil {
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}
		createdID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *negotiationUseCaseImpl) Confirm(ctx context.Context, negotiationID uuid.UUID, offeredProductIDs []uuid.UUID, actorID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, n, derr := uc.loadNegotiation(ctx, tx.Reads(), negotiationID)
		if derr != nil {
			return derr
		}

		desired, derr := uc.desiredSpec(ctx, tx.Reads(), snap.DesiredProductID)
		if derr != nil {
			return derr
		}

		active, aerr := tx.Reads().HasActiveNegotiation(ctx, snap.RequesterID, snap.DesiredProductID)
		if aerr != nil {
			return errs.Mark(aerr, ErrDatabaseOperationFailed)
		}
		if active {
			return ErrActiveNegotiationExists
		}

		offered, oerr := uc.offeredSpecs(ctx, tx.Reads(), offeredProductIDs)
		if oerr != nil {
			return oerr
		}

		if cerr := n.Commit(actorID, desired, offered, uc.clock.Now()); cerr != nil {
			return markDomainErr(cerr)
		}

		affected, uerr := tx.Negotiations().UpdateStatusWhere(ctx, tx.DB(), negotiationID,
			negotiation.StatusPending, n.UpdatedAt(), negotiation.StatusProcessing)
		if uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		if affected == 0 {
			return ErrNegotiationConflict
		}

		if rerr := tx.Negotiations().ReplaceOfferedProducts(ctx, tx.DB(), negotiationID, n.OfferedProductIDs()); rerr != nil {
			return errs.Mark(rerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// Accept approves a pending negotiation. One atomic unit: the status change,
// the settlement row, and the cascade rejection of competitors commit or roll
// back together. The compare-and-set on status guarantees that of two
// concurrent accepts exactly one wins and one gets a conflict.
func (uc *negotiationUseCaseImpl) Accept(ctx context.Context, negotiationID, actorID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, n, derr := uc.loadNegotiation(ctx, tx.Reads(), negotiationID)
		if derr != nil {
			return derr
		}

		desired, derr := uc.desiredSpec(ctx, tx.Reads(), snap.DesiredProductID)
		if derr != nil {
			return derr
		}

		now := uc.clock.Now()
		if aerr := n.Approve(actorID, desired.OwnerID, now); aerr != nil {
			return markDomainErr(aerr)
		}

		affected, uerr := tx.Negotiations().UpdateStatusWhere(ctx, tx.DB(), negotiationID,
			negotiation.StatusApproved, now, negotiation.StatusPending)
		if uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		if affected == 0 {
			return ErrNegotiationConflict
		}

		settlement := negotiation.NewSettlement(now)
		settlementID, serr := tx.Settlements().Create(ctx, tx.DB(), settlement)
		if serr != nil {
			return errs.Mark(serr, ErrDatabaseOperationFailed)
		}
		if serr := n.AttachSettlement(settlementID); serr != nil {
			return markDomainErr(serr)
		}
		if serr := tx.Negotiations().AttachSettlement(ctx, tx.DB(), negotiationID, settlementID); serr != nil {
			return errs.Mark(serr, ErrDatabaseOperationFailed)
		}

		if _, rerr := tx.Negotiations().RejectCompetitors(ctx, tx.DB(), negotiationID,
			snap.DesiredProductID, snap.OfferedProductIDs, now); rerr != nil {
			return errs.Mark(rerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *negotiationUseCaseImpl) Reject(ctx context.Context, negotiationID, actorID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, n, derr := uc.loadNegotiation(ctx, tx.Reads(), negotiationID)
		if derr != nil {
			return derr
		}

		desired, derr := uc.desiredSpec(ctx, tx.Reads(), snap.DesiredProductID)
		if derr != nil {
			return derr
		}

		now := uc.clock.Now()
		if rerr := n.Reject(actorID, desired.OwnerID, now); rerr != nil {
			return markDomainErr(rerr)
		}

		affected, uerr := tx.Negotiations().UpdateStatusWhere(ctx, tx.DB(), negotiationID,
			negotiation.StatusRejected, now, negotiation.StatusPending)
		if uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		if affected == 0 {
			return ErrNegotiationConflict
		}
		return nil
	})
}

func (uc *negotiationUseCaseImpl) Cancel(ctx context.Context, negotiationID, actorID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, n, derr := uc.loadNegotiation(ctx, tx.Reads(), negotiationID)
		if derr != nil {
			return derr
		}

		now := uc.clock.Now()
		if cerr := n.Cancel(actorID, now); cerr != nil {
			return markDomainErr(cerr)
		}

		affected, uerr := tx.Negotiations().UpdateStatusWhere(ctx, tx.DB(), negotiationID,
			negotiation.StatusCancelled, now, negotiation.StatusProcessing, negotiation.StatusPending)
		if uerr != nil {
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		if affected == 0 {
			return ErrNegotiationConflict
		}
		return nil
	})
}

func (uc *negotiationUseCaseImpl) SendMessage(ctx context.Context, negotiationID uuid.UUID, content string, senderID uuid.UUID) (uuid.UUID, error) {
	var messageID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, n, derr := uc.loadNegotiation(ctx, tx.Reads(), negotiationID)
		if derr != nil {
			return derr
		}

		desired, derr := uc.desiredSpec(ctx, tx.Reads(), snap.DesiredProductID)
		if derr != nil {
			return derr
		}

		now := uc.clock.Now()
		msg, merr := n.NewMessage(senderID, desired.OwnerID, content, now)
		if merr != nil {
			return markDomainErr(merr)
		}

		id, aerr := tx.Messages().Append(ctx, tx.DB(), msg)
		if aerr != nil {
			return errs.Mark(aerr, ErrDatabaseOperationFailed)
		}

		// Convenience only: message traffic refreshes updated_at, never status.
		if terr := tx.Negotiations().TouchUpdatedAt(ctx, tx.DB(), negotiationID, now); terr != nil {
			return errs.Mark(terr, ErrDatabaseOperationFailed)
		}
		messageID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return messageID, nil
}

func (uc *negotiationUseCaseImpl) desiredSpec(ctx context.Context, reads shared.CommandReads, productID uuid.UUID) (negotiation.DesiredSpec, error) {
	snap, err := reads.ProductByID(ctx, productID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return negotiation.DesiredSpec{}, ErrProductNotFound
		}
		return negotiation.DesiredSpec{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return negotiation.DesiredSpec{
		ID:      snap.ID,
		OwnerID: snap.OwnerID,
		Kind:    snap.Kind,
	}, nil
}

func (uc *negotiationUseCaseImpl) offeredSpecs(ctx context.Context, reads shared.CommandReads, productIDs []uuid.UUID) ([]negotiation.OfferedSpec, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	specs := make([]negotiation.OfferedSpec, 0, len(productIDs))
	for _, id := range productIDs {
		snap, err := reads.ProductByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrOfferedProductNotFound
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		specs = append(specs, negotiation.OfferedSpec{ID: snap.ID, OwnerID: snap.OwnerID})
	}
	return specs, nil
}

func (uc *negotiationUseCaseImpl) loadNegotiation(ctx context.Context, reads shared.CommandReads, id uuid.UUID) (*shared.NegotiationSnapshot, *negotiation.Negotiation, error) {
	snap, err := reads.NegotiationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrNegotiationNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	n := negotiation.ReconstructNegotiation(
		snap.ID, snap.RequesterID, snap.DesiredProductID,
		snap.OfferedProductIDs, snap.Status, snap.SettlementID,
		snap.CreatedAt, snap.UpdatedAt,
	)
	return snap, n, nil
}

// markDomainErr classifies domain sentinels into the engine's error kinds so
// the handler layer can map them without knowing each sentinel.
func markDomainErr(err error) error {
	switch {
	case errors.Is(err, negotiation.ErrNotRequester),
		errors.Is(err, negotiation.ErrNotOwner),
		errors.Is(err, negotiation.ErrNotParticipant),
		errors.Is(err, negotiation.ErrOfferNotOwned):
		return errs.Mark(err, errs.ErrAuthorization)
	case errors.Is(err, negotiation.ErrNotDraft),
		errors.Is(err, negotiation.ErrNotPending),
		errors.Is(err, negotiation.ErrAlreadyTerminal),
		errors.Is(err, negotiation.ErrSettlementExists),
		errors.Is(err, negotiation.ErrMessagesClosed):
		return errs.Mark(err, errs.ErrConflict)
	default:
		return errs.Mark(err, errs.ErrValidation)
	}
}
