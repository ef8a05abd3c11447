package packet

import (
	"encoding/json"
	"fmt"
)

// Opcode identifies the client-side handler for a packet.
type Opcode int

const (
	OpHandshake Opcode = iota
	OpWelcome
	OpSpawn
	OpDespawn
	OpMovement
	OpTeleport
	OpExperience
	OpSkill
	OpPoints
	OpSync
	OpNotification
	OpChat
	OpPrivateMessage
	OpCountdown
	OpRegion
	OpDoor
	OpMusic
	OpMinigame
	OpNetworkPing
)

var opcodeNames = map[Opcode]string{
	OpHandshake:      "handshake",
	OpWelcome:        "welcome",
	OpSpawn:          "spawn",
	OpDespawn:        "despawn",
	OpMovement:       "movement",
	OpTeleport:       "teleport",
	OpExperience:     "experience",
	OpSkill:          "skill",
	OpPoints:         "points",
	OpSync:           "sync",
	OpNotification:   "notification",
	OpChat:           "chat",
	OpPrivateMessage: "pm",
	OpCountdown:      "countdown",
	OpRegion:         "region",
	OpDoor:           "door",
	OpMusic:          "music",
	OpMinigame:       "minigame",
	OpNetworkPing:    "ping",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", int(o))
}

// Packet is anything that can be framed and sent to a client.
type Packet interface {
	Opcode() Opcode
}

type envelope struct {
	Op   Opcode `json:"op"`
	Data any    `json:"data"`
}

// Encode frames a packet as a JSON envelope ready for the wire.
func Encode(p Packet) ([]byte, error) {
	data, err := json.Marshal(envelope{Op: p.Opcode(), Data: p})
	if err != nil {
		return nil, fmt.Errorf("encoding %s packet: %w", p.Opcode(), err)
	}
	return data, nil
}
