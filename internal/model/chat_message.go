package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageID distinguishes ids the server issued from ids generated locally
// for optimistic messages. A pending id only lives until the next full
// refetch of the thread; it never collides with a server id.
type MessageID struct {
	value   string
	pending bool
}

func NewPendingID() MessageID {
	return MessageID{value: uuid.NewString(), pending: true}
}

func ConfirmedID(id string) MessageID {
	return MessageID{value: id}
}

func (id MessageID) String() string {
	return id.value
}

func (id MessageID) Pending() bool {
	return id.pending
}

// On the wire a message id is a plain string; only ids that never left the
// client carry the pending flag.
func (id MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *MessageID) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*id = ConfirmedID(value)
	return nil
}

type ChatMessage struct {
	ID        MessageID `json:"message_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
