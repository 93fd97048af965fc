package amqp

import (
	"encoding/json"
	"time"
)

// TableSyncMessage asks the sync worker to push the local customer table to
// the remote store. The message carries only why and for whom; the worker
// loads the authoritative table from local storage itself.
type TableSyncMessage struct {
	Reason    string    `json:"reason"`
	Customer  string    `json:"customer,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTableSyncMessage(reason, customer string) *TableSyncMessage {
	return &TableSyncMessage{
		Reason:    reason,
		Customer:  customer,
		Timestamp: time.Now(),
	}
}

func (m *TableSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TableSyncMessageFromJSON(data []byte) (*TableSyncMessage, error) {
	var msg TableSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
