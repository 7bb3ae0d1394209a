package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type NegotiationView struct {
	ID                 uuid.UUID             `json:"id"`
	RequesterID        uuid.UUID             `json:"requester_id"`
	RequesterName      string                `json:"requester_name"`
	DesiredProductID   uuid.UUID             `json:"desired_product_id"`
	DesiredProductName string                `json:"desired_product_name"`
	OwnerID            uuid.UUID             `json:"owner_id"`
	OwnerName          string                `json:"owner_name"`
	Type               string                `json:"type"` // exchange | donation, read from the product's category
	Status             string                `json:"status"`
	SettlementID       *uuid.UUID            `json:"settlement_id,omitempty"`
	OfferedProducts    []*OfferedProductView `json:"offered_products,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type OfferedProductView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
}

type NegotiationListItem struct {
	ID                 uuid.UUID `json:"id"`
	RequesterID        uuid.UUID `json:"requester_id"`
	DesiredProductID   uuid.UUID `json:"desired_product_id"`
	DesiredProductName string    `json:"desired_product_name"`
	OwnerID            uuid.UUID `json:"owner_id"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

type MessageView struct {
	ID            uuid.UUID `json:"id"`
	NegotiationID uuid.UUID `json:"negotiation_id"`
	SenderID      uuid.UUID `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	Content       string    `json:"content"`
	SentAt        time.Time `json:"sent_at"`
}

type NegotiationDetail struct {
	Negotiation *NegotiationView `json:"negotiation"`
	Messages    []*MessageView   `json:"messages"`
}

type ProductView struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Kind        string    `json:"kind"`
	Condition   string    `json:"condition"`
	Quantity    int32     `json:"quantity"`
	ValueCents  *int64    `json:"value_cents,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
