package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type WorldConfig struct {
	// MapID selects which map asset this server simulates.
	MapID string `json:"map_id"`

	SpawnX int `json:"spawn_x"`
	SpawnY int `json:"spawn_y"`

	Moderators     []string `json:"moderators,omitempty"`
	Administrators []string `json:"administrators,omitempty"`

	// Offline runs the world without persistence gating: everyone gets
	// administrator rights and door requirements are bypassed.
	Offline bool `json:"offline,omitempty"`

	// Federated enables the cross-server private message relay.
	Federated bool `json:"federated,omitempty"`

	WelcomeTemplate string `json:"welcome_template,omitempty"`
	TimeoutMinutes  int    `json:"timeout_minutes,omitempty"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.MapID == "" {
		el.Add(fmt.Errorf("map_id is required"))
	}
	if c.SpawnX < 0 || c.SpawnY < 0 {
		el.Add(fmt.Errorf("spawn coordinates must be non-negative"))
	}
	if c.TimeoutMinutes < 0 {
		el.Add(fmt.Errorf("timeout_minutes must be non-negative"))
	}

	return el.Err()
}

func (c *WorldConfig) timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}
