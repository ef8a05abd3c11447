// Package door implements gated terrain. Door definitions are static and
// shared; open/closed status is computed per query against one player's
// progression, never memoized on the definition.
package door

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Status of a door as seen by one player.
type Status int

const (
	StatusClosed Status = iota
	StatusOpen
)

func (s Status) String() string {
	if s == StatusOpen {
		return "open"
	}
	return "closed"
}

// Requirement gates a door on player progression.
type Requirement string

const (
	RequirementNone        Requirement = ""
	RequirementQuest       Requirement = "quest"
	RequirementAchievement Requirement = "achievement"
	RequirementLevel       Requirement = "level"
)

// Tile is one tile of a door's open or closed rendering.
type Tile struct {
	// RenderData is the tileset datum the client draws.
	RenderData int `json:"data"`

	// IsColliding marks the tile impassable in this state.
	IsColliding bool `json:"collision"`
}

// Door is a static definition loaded once at process start. Tile map keys
// are absolute map tile indexes.
type Door struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`

	// Status is a fixed literal for ungated doors ("open"/"closed").
	// Gated doors leave it empty and are computed per player.
	Status string `json:"status,omitempty"`

	Requirement   Requirement `json:"requirement,omitempty"`
	QuestID       int         `json:"quest_id,omitempty"`
	AchievementID int         `json:"achievement_id,omitempty"`
	Level         int         `json:"level,omitempty"`

	ClosedTiles map[int]Tile `json:"closed_tiles,omitempty"`
	OpenTiles   map[int]Tile `json:"open_tiles,omitempty"`
}

func (d *Door) Validate() error {
	el := errors.NewErrorList()

	if d.X < 0 || d.Y < 0 {
		el.Add(fmt.Errorf("door %d has negative coordinates", d.ID))
	}

	switch d.Requirement {
	case RequirementNone, RequirementQuest, RequirementAchievement:
	case RequirementLevel:
		if d.Level < 1 {
			el.Add(fmt.Errorf("door %d requires a level below 1", d.ID))
		}
	default:
		el.Add(fmt.Errorf("door %d has unknown requirement %q", d.ID, d.Requirement))
	}

	if d.Status != "" && d.Status != "open" && d.Status != "closed" {
		el.Add(fmt.Errorf("door %d has invalid literal status %q", d.ID, d.Status))
	}

	return el.Err()
}

// TileIndexes returns every map tile index either state of the door can
// occupy, for seeding the map's door layer.
func (d *Door) TileIndexes() []int {
	seen := make(map[int]bool, len(d.ClosedTiles)+len(d.OpenTiles))
	indexes := make([]int, 0, len(d.ClosedTiles)+len(d.OpenTiles))
	for idx := range d.ClosedTiles {
		if !seen[idx] {
			seen[idx] = true
			indexes = append(indexes, idx)
		}
	}
	for idx := range d.OpenTiles {
		if !seen[idx] {
			seen[idx] = true
			indexes = append(indexes, idx)
		}
	}
	return indexes
}
