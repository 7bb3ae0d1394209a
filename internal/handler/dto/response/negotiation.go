package response

import (
	"time"

	"swapmarket/internal/usecase/queries"

	"github.com/google/uuid"
)

type NegotiationResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	RequesterID        uuid.UUID                 `json:"requesterId"`
	RequesterName      string                    `json:"requesterName"`
	DesiredProductID   uuid.UUID                 `json:"desiredProductId"`
	DesiredProductName string                    `json:"desiredProductName"`
	OwnerID            uuid.UUID                 `json:"ownerId"`
	OwnerName          string                    `json:"ownerName"`
	Type               string                    `json:"type"`
	Status             string                    `json:"status"`
	SettlementID       *uuid.UUID                `json:"settlementId,omitempty"`
	OfferedProducts    []*OfferedProductResponse `json:"offeredProducts,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

type OfferedProductResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"ownerId"`
}

type NegotiationListResponse struct {
	ID                 uuid.UUID `json:"id"`
	RequesterID        uuid.UUID `json:"requesterId"`
	DesiredProductID   uuid.UUID `json:"desiredProductId"`
	DesiredProductName string    `json:"desiredProductName"`
	OwnerID            uuid.UUID `json:"ownerId"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

type NegotiationDetailResponse struct {
	Negotiation *NegotiationResponse `json:"negotiation"`
	Messages    []*MessageResponse   `json:"messages"`
}

func FromNegotiationView(rm *queries.NegotiationView) *NegotiationResponse {
	return &NegotiationResponse{
		ID:                 rm.ID,
		RequesterID:        rm.RequesterID,
		RequesterName:      rm.RequesterName,
		DesiredProductID:   rm.DesiredProductID,
		DesiredProductName: rm.DesiredProductName,
		OwnerID:            rm.OwnerID,
		OwnerName:          rm.OwnerName,
		Type:               rm.Type,
		Status:             rm.Status,
		SettlementID:       rm.SettlementID,
		OfferedProducts:    fromOfferedProducts(rm.OfferedProducts),
		CreatedAt:          rm.CreatedAt,
		UpdatedAt:          rm.UpdatedAt,
	}
}

func fromOfferedProducts(rms []*queries.OfferedProductView) []*OfferedProductResponse {
	if len(rms) == 0 {
		return nil
	}
	result := make([]*OfferedProductResponse, len(rms))
	for i, rm := range rms {
		result[i] = &OfferedProductResponse{
			ID:      rm.ID,
			Name:    rm.Name,
			OwnerID: rm.OwnerID,
		}
	}
	return result
}

func FromNegotiationListItem(rm *queries.NegotiationListItem) *NegotiationListResponse {
	return &NegotiationListResponse{
		ID:                 rm.ID,
		RequesterID:        rm.RequesterID,
		DesiredProductID:   rm.DesiredProductID,
		DesiredProductName: rm.DesiredProductName,
		OwnerID:            rm.OwnerID,
		Status:             rm.Status,
		CreatedAt:          rm.CreatedAt,
	}
}

func FromNegotiationDetail(rm *queries.NegotiationDetail) *NegotiationDetailResponse {
	return &NegotiationDetailResponse{
		Negotiation: FromNegotiationView(rm.Negotiation),
		Messages:    FromMessageList(rm.Messages),
	}
}
