package response

import (
	"time"

	"swapmarket/internal/usecase/queries"

	"github.com/google/uuid"
)

type MessageResponse struct {
	ID            uuid.UUID `json:"id"`
	NegotiationID uuid.UUID `json:"negotiationId"`
	SenderID      uuid.UUID `json:"senderId"`
	SenderName    string    `json:"senderName"`
	Content       string    `json:"content"`
	SentAt        time.Time `json:"sentAt"`
}

func FromMessageView(rm *queries.MessageView) *MessageResponse {
	return &MessageResponse{
		ID:            rm.ID,
		NegotiationID: rm.NegotiationID,
		SenderID:      rm.SenderID,
		SenderName:    rm.SenderName,
		Content:       rm.Content,
		SentAt:        rm.SentAt,
	}
}

func FromMessageList(rms []*queries.MessageView) []*MessageResponse {
	result := make([]*MessageResponse, len(rms))
	for i, rm := range rms {
		result[i] = FromMessageView(rm)
	}
	return result
}
