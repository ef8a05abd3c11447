package door

import "sort"

// Quest is the predicate surface a quest provider exposes to doors. The
// door id parameter supports multi-stage unlocks within one quest.
type Quest interface {
	HasDoorUnlocked(doorID int) bool
}

// Achievement is the predicate surface an achievement provider exposes.
type Achievement interface {
	IsFinished() bool
}

// Progression is the slice of a player the registry evaluates against.
// Absent quests or achievements are reported as nil and read as
// "requirement not met".
type Progression interface {
	Level() int
	Quest(id int) Quest
	Achievement(id int) Achievement
}

// Indexer resolves tile coordinates to map tile indexes.
type Indexer interface {
	CoordToIndex(x, y int) int
}

// Registry is one player's view over the shared door definition table.
type Registry struct {
	defs    []*Door
	indexer Indexer
	player  Progression

	// bypass forces every gated door open when persistence is disabled
	// (local/testing runs).
	bypass bool
}

// NewRegistry builds a per-player view. The defs slice is shared and must
// be treated as read-only.
func NewRegistry(defs []*Door, indexer Indexer, player Progression, bypass bool) *Registry {
	return &Registry{
		defs:    defs,
		indexer: indexer,
		player:  player,
		bypass:  bypass,
	}
}

// GetStatus computes the door's open/closed state for this player. Ungated
// doors with a literal status never consult the player. Unrecognized
// requirements read as closed.
func (r *Registry) GetStatus(d *Door) Status {
	if d.Status == "open" {
		return StatusOpen
	}
	if d.Status == "closed" {
		return StatusClosed
	}

	if r.bypass {
		return StatusOpen
	}

	switch d.Requirement {
	case RequirementQuest:
		if q := r.player.Quest(d.QuestID); q != nil && q.HasDoorUnlocked(d.ID) {
			return StatusOpen
		}
	case RequirementAchievement:
		if a := r.player.Achievement(d.AchievementID); a != nil && a.IsFinished() {
			return StatusOpen
		}
	case RequirementLevel:
		if r.player.Level() >= d.Level {
			return StatusOpen
		}
	}

	return StatusClosed
}

// IsClosed reports whether the computed status is closed.
func (r *Registry) IsClosed(d *Door) bool {
	return r.GetStatus(d) == StatusClosed
}

// GetTiles flattens the door's currently-relevant tile set into parallel
// sequences for transport, ordered by tile index.
func (r *Registry) GetTiles(d *Door) (indexes []int, data []int, collisions []bool) {
	tiles := d.ClosedTiles
	if r.GetStatus(d) == StatusOpen {
		tiles = d.OpenTiles
	}

	indexes = make([]int, 0, len(tiles))
	for idx := range tiles {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	data = make([]int, len(indexes))
	collisions = make([]bool, len(indexes))
	for i, idx := range indexes {
		data[i] = tiles[idx].RenderData
		collisions[i] = tiles[idx].IsColliding
	}
	return indexes, data, collisions
}

// HasCollision reports whether the coordinate falls on a colliding tile of
// any door in its current state for this player. Recomputed per call:
// progression can change between calls.
func (r *Registry) HasCollision(x, y int) bool {
	index := r.indexer.CoordToIndex(x, y)

	for _, d := range r.defs {
		tiles := d.ClosedTiles
		if r.GetStatus(d) == StatusOpen {
			tiles = d.OpenTiles
		}
		if tile, ok := tiles[index]; ok {
			return tile.IsColliding
		}
	}
	return false
}

// GetDoor returns the first definition whose anchor coordinate matches, or
// nil if none.
func (r *Registry) GetDoor(x, y int) *Door {
	for _, d := range r.defs {
		if d.X == x && d.Y == y {
			return d
		}
	}
	return nil
}
