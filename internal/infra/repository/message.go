package repository

import (
	"context"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/infra"
	"swapmarket/internal/infra/db"

	"github.com/google/uuid"
)

type MessageRepository struct{}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// Append inserts a message row; seq is assigned by the database and breaks
// sent_at ties in thread ordering.
func (r *MessageRepository) Append(ctx context.Context, dbtx db.DBTX, m *negotiation.Message) (uuid.UUID, error) {
	const insertMessage = `
		INSERT INTO messages (id, negotiation_id, sender_id, content, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertMessage,
		m.ID(), m.NegotiationID(), m.SenderID(), m.Content().String(), m.SentAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to append message", err, classifyPgErr(err))
	}
	return id, nil
}
