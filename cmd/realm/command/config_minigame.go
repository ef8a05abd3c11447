package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/minigame"
	"github.com/pixil98/go-realm/internal/world"
)

type MinigameConfig struct {
	Countdown         int    `json:"countdown,omitempty"`
	CountdownTemplate string `json:"countdown_template,omitempty"`
	MusicTrack        string `json:"music_track,omitempty"`

	RedSpawnX  int `json:"red_spawn_x"`
	RedSpawnY  int `json:"red_spawn_y"`
	BlueSpawnX int `json:"blue_spawn_x"`
	BlueSpawnY int `json:"blue_spawn_y"`
}

func (c *MinigameConfig) validate() error {
	el := errors.NewErrorList()

	if c.Countdown < 0 {
		el.Add(fmt.Errorf("countdown must be non-negative"))
	}
	if c.RedSpawnX < 0 || c.RedSpawnY < 0 || c.BlueSpawnX < 0 || c.BlueSpawnY < 0 {
		el.Add(fmt.Errorf("team spawn coordinates must be non-negative"))
	}

	return el.Err()
}

func (c *MinigameConfig) BuildTeamWar(tick time.Duration, router world.Router) *minigame.TeamWar {
	return minigame.NewTeamWar(minigame.Config{
		Countdown:         c.Countdown,
		TickSeconds:       int(tick.Seconds()),
		CountdownTemplate: c.CountdownTemplate,
		MusicTrack:        c.MusicTrack,
		RedSpawnX:         c.RedSpawnX,
		RedSpawnY:         c.RedSpawnY,
		BlueSpawnX:        c.BlueSpawnX,
		BlueSpawnY:        c.BlueSpawnY,
	}, router)
}
