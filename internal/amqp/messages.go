package amqp

import (
	"encoding/json"
	"time"
)

// BillSyncMessage asks the worker to push one locally persisted bill to
// the remote API. It carries only the key; the worker reads the full
// record from the local store.
type BillSyncMessage struct {
	Key       string    `json:"key"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBillSyncMessage(key, email string) *BillSyncMessage {
	return &BillSyncMessage{
		Key:       key,
		Email:     email,
		Timestamp: time.Now(),
	}
}

func (m *BillSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillSyncMessageFromJSON(data []byte) (*BillSyncMessage, error) {
	var msg BillSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
