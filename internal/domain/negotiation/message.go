package negotiation

import (
	"time"

	"github.com/google/uuid"
)

// Message is append-only; ordering is by send time with insertion order
// breaking ties (the store's sequence column).
type Message struct {
	id            uuid.UUID
	negotiationID uuid.UUID
	senderID      uuid.UUID
	content       Content
	sentAt        time.Time
}

func newMessage(id, negotiationID, senderID uuid.UUID, contentText string, now time.Time) (*Message, error) {
	content, err := NewContent(contentText)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Message{
		id:            id,
		negotiationID: negotiationID,
		senderID:      senderID,
		content:       content,
		sentAt:        now,
	}, nil
}

func (m *Message) ID() uuid.UUID            { return m.id }
func (m *Message) NegotiationID() uuid.UUID { return m.negotiationID }
func (m *Message) SenderID() uuid.UUID      { return m.senderID }
func (m *Message) Content() Content         { return m.content }
func (m *Message) SentAt() time.Time        { return m.sentAt }
