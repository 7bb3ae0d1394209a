package negotiation

import (
	"errors"
	"time"

	"swapmarket/internal/domain/product"

	"github.com/google/uuid"
)

var (
	ErrOwnProduct         = errors.New("requester cannot target their own product")
	ErrOfferRequired      = errors.New("exchange negotiation requires at least one offered product")
	ErrOfferNotAllowed    = errors.New("donation negotiation does not accept offered products")
	ErrOfferNotOwned      = errors.New("offered product does not belong to the requester")
	ErrOfferEqualsDesired = errors.New("offered product cannot be the desired product")
	ErrDuplicateOffer     = errors.New("offered products must be distinct")
	ErrNotRequester       = errors.New("only the requester may perform this action")
	ErrNotOwner           = errors.New("only the desired product's owner may perform this action")
	ErrNotDraft           = errors.New("negotiation is not in processing state")
	ErrNotPending         = errors.New("negotiation is not pending")
	ErrAlreadyTerminal    = errors.New("negotiation is already resolved or cancelled")
	ErrSettlementExists   = errors.New("negotiation already has a settlement")
	ErrMessagesClosed     = errors.New("negotiation no longer accepts messages")
	ErrNotParticipant     = errors.New("user is not a participant in this negotiation")
)

// DesiredSpec is the slice of the desired product the state machine needs:
// ownership for authorization, category kind for the exchange/donation rules.
// The kind is read from the product at decision time, never stored here.
type DesiredSpec struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Kind    product.Kind
}

type OfferedSpec struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
}

type Negotiation struct {
	id               uuid.UUID
	requesterID      uuid.UUID
	desiredProductID uuid.UUID
	offeredIDs       []uuid.UUID
	status           Status
	settlementID     *uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
}

// NewNegotiation creates a negotiation in PENDING, or in PROCESSING when draft
// is set. A draft defers the offered-product rules until Commit; everything
// else is validated up front.
func NewNegotiation(id, requesterID uuid.UUID, desired DesiredSpec, offered []OfferedSpec, draft bool, now time.Time) (*Negotiation, error) {
	if desired.OwnerID == requesterID {
		return nil, ErrOwnProduct
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	n := &Negotiation{
		id:               id,
		requesterID:      requesterID,
		desiredProductID: desired.ID,
		createdAt:        now,
		updatedAt:        now,
	}

	if draft {
		if len(offered) > 0 {
			return nil, ErrOfferNotAllowed
		}
		n.status = StatusProcessing
		return n, nil
	}

	ids, err := validateOffer(requesterID, desired, offered)
	if err != nil {
		return nil, err
	}
	n.offeredIDs = ids
	n.status = StatusPending
	return n, nil
}

func ReconstructNegotiation(
	id, requesterID, desiredProductID uuid.UUID,
	offeredIDs []uuid.UUID,
	status Status,
	settlementID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Negotiation {
	return &Negotiation{
		id:               id,
		requesterID:      requesterID,
		desiredProductID: desiredProductID,
		offeredIDs:       offeredIDs,
		status:           status,
		settlementID:     settlementID,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Commit promotes a PROCESSING draft to PENDING, running the offered-product
// validation that was deferred at creation.
func (n *Negotiation) Commit(actor uuid.UUID, desired DesiredSpec, offered []OfferedSpec, now time.Time) error {
	if actor != n.requesterID {
		return ErrNotRequester
	}
	if n.status != StatusProcessing {
		return ErrNotDraft
	}

	ids, err := validateOffer(n.requesterID, desired, offered)
	if err != nil {
		return err
	}
	n.offeredIDs = ids
	n.status = StatusPending
	n.updatedAt = now
	return nil
}

func (n *Negotiation) Approve(actor, desiredOwnerID uuid.UUID, now time.Time) error {
	if actor != desiredOwnerID {
		return ErrNotOwner
	}
	if n.status != StatusPending {
		return ErrNotPending
	}
	n.status = StatusApproved
	n.updatedAt = now
	return nil
}

func (n *Negotiation) Reject(actor, desiredOwnerID uuid.UUID, now time.Time) error {
	if actor != desiredOwnerID {
		return ErrNotOwner
	}
	if n.status != StatusPending {
		return ErrNotPending
	}
	n.status = StatusRejected
	n.updatedAt = now
	return nil
}

// Cancel is requester-only and valid from PROCESSING or PENDING. An approved
// negotiation already carries a settlement and stays terminal.
func (n *Negotiation) Cancel(actor uuid.UUID, now time.Time) error {
	if actor != n.requesterID {
		return ErrNotRequester
	}
	if n.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	n.status = StatusCancelled
	n.updatedAt = now
	return nil
}

// AttachSettlement links the settlement created at approval. 1:1, once.
func (n *Negotiation) AttachSettlement(settlementID uuid.UUID) error {
	if n.settlementID != nil {
		return ErrSettlementExists
	}
	n.settlementID = &settlementID
	return nil
}

// NewMessage appends to the negotiation's thread. Only the requester and the
// desired product's owner may write, and only while the negotiation is open.
func (n *Negotiation) NewMessage(sender, desiredOwnerID uuid.UUID, content string, now time.Time) (*Message, error) {
	if !n.IsParticipant(sender, desiredOwnerID) {
		return nil, ErrNotParticipant
	}
	if !n.status.AcceptsMessages() {
		return nil, ErrMessagesClosed
	}
	return newMessage(uuid.Nil, n.id, sender, content, now)
}

func (n *Negotiation) IsParticipant(userID, desiredOwnerID uuid.UUID) bool {
	return userID == n.requesterID || userID == desiredOwnerID
}

func (n *Negotiation) ID() uuid.UUID               { return n.id }
func (n *Negotiation) RequesterID() uuid.UUID      { return n.requesterID }
func (n *Negotiation) DesiredProductID() uuid.UUID { return n.desiredProductID }

func (n *Negotiation) OfferedProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(n.offeredIDs))
	copy(ids, n.offeredIDs)
	return ids
}

func (n *Negotiation) Status() Status           { return n.status }
func (n *Negotiation) SettlementID() *uuid.UUID { return n.settlementID }
func (n *Negotiation) CreatedAt() time.Time     { return n.createdAt }
func (n *Negotiation) UpdatedAt() time.Time     { return n.updatedAt }

func validateOffer(requesterID uuid.UUID, desired DesiredSpec, offered []OfferedSpec) ([]uuid.UUID, error) {
	if desired.Kind.RequiresExchange() {
		if len(offered) == 0 {
			return nil, ErrOfferRequired
		}
	} else if len(offered) > 0 {
		return nil, ErrOfferNotAllowed
	}

	seen := make(map[uuid.UUID]struct{}, len(offered))
	ids := make([]uuid.UUID, 0, len(offered))
	for _, o := range offered {
		if o.OwnerID != requesterID {
			return nil, ErrOfferNotOwned
		}
		if o.ID == desired.ID {
			return nil, ErrOfferEqualsDesired
		}
		if _, dup := seen[o.ID]; dup {
			return nil, ErrDuplicateOffer
		}
		seen[o.ID] = struct{}{}
		ids = append(ids, o.ID)
	}
	return ids, nil
}
