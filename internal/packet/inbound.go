package packet

import (
	"encoding/json"
	"fmt"
)

// Inbound is one client frame, opcode separated, payload not yet decoded.
type Inbound struct {
	Op   Opcode          `json:"op"`
	Data json.RawMessage `json:"data"`
}

// Decode splits a raw client frame into opcode and payload.
func Decode(raw []byte) (*Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decoding client frame: %w", err)
	}
	return &in, nil
}

// Unmarshal decodes the payload into the opcode's request type.
func (i *Inbound) Unmarshal(v any) error {
	if err := json.Unmarshal(i.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", i.Op, err)
	}
	return nil
}

// Handshake is the client's login request.
type Handshake struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MoveRequest is a client-initiated step.
type MoveRequest struct {
	X           int `json:"x"`
	Y           int `json:"y"`
	Orientation int `json:"orientation"`
}

// ChatRequest is client speech; Global is honored for administrators only.
type ChatRequest struct {
	Text   string `json:"text"`
	Global bool   `json:"global,omitempty"`
}

// PrivateMessageRequest is a whisper addressed by username.
type PrivateMessageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// MinigameRequest joins or leaves the minigame lobby.
type MinigameRequest struct {
	Join bool `json:"join"`
}
