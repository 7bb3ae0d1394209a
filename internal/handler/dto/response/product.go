package response

import (
	"time"

	"swapmarket/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	CategoryID  uuid.UUID `json:"categoryId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Kind        string    `json:"kind"`
	Condition   string    `json:"condition"`
	Quantity    int32     `json:"quantity"`
	ValueCents  *int64    `json:"valueCents,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromProductView(rm *queries.ProductView) *ProductResponse {
	return &ProductResponse{
		ID:          rm.ID,
		OwnerID:     rm.OwnerID,
		CategoryID:  rm.CategoryID,
		Name:        rm.Name,
		Description: rm.Description,
		Kind:        rm.Kind,
		Condition:   rm.Condition,
		Quantity:    rm.Quantity,
		ValueCents:  rm.ValueCents,
		CreatedAt:   rm.CreatedAt,
	}
}
