package messaging

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PrivateRelay is the cross-server private message payload.
type PrivateRelay struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// Hub relays private messages over NATS so a recipient connected to any
// server in the cluster receives them. Subjects are keyed by lowercase
// recipient username.
type Hub struct {
	pub Publisher
}

func NewHub(pub Publisher) *Hub {
	return &Hub{pub: pub}
}

func (h *Hub) RelayPrivateMessage(from, to, text string) error {
	data, err := json.Marshal(PrivateRelay{From: from, To: to, Text: text})
	if err != nil {
		return fmt.Errorf("encoding private relay: %w", err)
	}
	return h.pub.Publish(PrivateMessageSubject(strings.ToLower(to)), data)
}
