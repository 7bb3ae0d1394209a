package request

import (
	"github.com/google/uuid"
)

type CreateNegotiationRequest struct {
	DesiredProductID  uuid.UUID   `json:"desired_product_id" binding:"required"`
	OfferedProductIDs []uuid.UUID `json:"offered_product_ids,omitempty"`
	Draft             bool        `json:"draft,omitempty"`
}

type ConfirmNegotiationRequest struct {
	OfferedProductIDs []uuid.UUID `json:"offered_product_ids,omitempty"`
}
