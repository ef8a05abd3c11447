package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string         `json:"tick_interval"`
	Listener     ListenerConfig `json:"listener"`
	Storage      StorageConfig  `json:"storage"`
	Nats         NatsConfig     `json:"nats"`
	World        WorldConfig    `json:"world"`
	Minigame     MinigameConfig `json:"minigame"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < 100*time.Millisecond {
		el.Add(fmt.Errorf("tick_interval must be at least 100ms"))
	}

	el.Add(c.Listener.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.World.validate())
	el.Add(c.Minigame.validate())

	return el.Err()
}

func (c *Config) tickInterval() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0
	}
	return d
}
