package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Map is the tile/collision surface the simulation asks spatial questions of.
type Map interface {
	IsOutOfBounds(x, y int) bool
	IsColliding(x, y int) bool
	IsEmpty(x, y int) bool
	IsDoor(x, y int) bool
	CoordToIndex(x, y int) int
	IndexToCoord(index int) (int, int)
	GetPlateauLevel(x, y int) int
	GetRegion(x, y int) int
	RegionNeighbors(region int) []int
}

// MapSpec is the static map asset loaded from storage. Tile indexes are
// row-major: index = y*width + x.
type MapSpec struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	RegionWidth  int `json:"region_width"`
	RegionHeight int `json:"region_height"`

	// Collisions lists tile indexes a character cannot stand on.
	Collisions []int `json:"collisions,omitempty"`

	// Empty lists blank/unwalkable tile indexes (void, water).
	Empty []int `json:"empty,omitempty"`

	// Plateau maps tile index to its elevation partition tag. Tiles not
	// listed are plateau level 0.
	Plateau map[int]int `json:"plateau,omitempty"`
}

func (m *MapSpec) Validate() error {
	el := errors.NewErrorList()

	if m.Width < 1 || m.Height < 1 {
		el.Add(fmt.Errorf("map dimensions must be positive"))
	}
	if m.RegionWidth < 1 || m.RegionHeight < 1 {
		el.Add(fmt.Errorf("region dimensions must be positive"))
	}
	for _, idx := range m.Collisions {
		if idx < 0 || idx >= m.Width*m.Height {
			el.Add(fmt.Errorf("collision index %d outside map", idx))
		}
	}

	return el.Err()
}

// GridMap answers spatial queries against a loaded MapSpec. Door tiles come
// from the door registry at startup; everything else is static.
type GridMap struct {
	width, height             int
	regionWidth, regionHeight int
	regionCols, regionRows    int

	collisions map[int]bool
	empty      map[int]bool
	doors      map[int]bool
	plateau    map[int]int
}

// NewGridMap builds a GridMap from a validated spec plus the tile indexes
// occupied by door definitions.
func NewGridMap(spec *MapSpec, doorIndexes []int) *GridMap {
	m := &GridMap{
		width:        spec.Width,
		height:       spec.Height,
		regionWidth:  spec.RegionWidth,
		regionHeight: spec.RegionHeight,
		regionCols:   (spec.Width + spec.RegionWidth - 1) / spec.RegionWidth,
		regionRows:   (spec.Height + spec.RegionHeight - 1) / spec.RegionHeight,
		collisions:   make(map[int]bool, len(spec.Collisions)),
		empty:        make(map[int]bool, len(spec.Empty)),
		doors:        make(map[int]bool, len(doorIndexes)),
		plateau:      make(map[int]int, len(spec.Plateau)),
	}

	for _, idx := range spec.Collisions {
		m.collisions[idx] = true
	}
	for _, idx := range spec.Empty {
		m.empty[idx] = true
	}
	for _, idx := range doorIndexes {
		m.doors[idx] = true
	}
	for idx, level := range spec.Plateau {
		m.plateau[idx] = level
	}

	return m
}

func (m *GridMap) IsOutOfBounds(x, y int) bool {
	return x < 0 || y < 0 || x >= m.width || y >= m.height
}

func (m *GridMap) IsColliding(x, y int) bool {
	if m.IsOutOfBounds(x, y) {
		return true
	}
	return m.collisions[m.CoordToIndex(x, y)]
}

func (m *GridMap) IsEmpty(x, y int) bool {
	if m.IsOutOfBounds(x, y) {
		return true
	}
	return m.empty[m.CoordToIndex(x, y)]
}

func (m *GridMap) IsDoor(x, y int) bool {
	if m.IsOutOfBounds(x, y) {
		return false
	}
	return m.doors[m.CoordToIndex(x, y)]
}

func (m *GridMap) CoordToIndex(x, y int) int {
	return y*m.width + x
}

func (m *GridMap) IndexToCoord(index int) (int, int) {
	return index % m.width, index / m.width
}

func (m *GridMap) GetPlateauLevel(x, y int) int {
	if m.IsOutOfBounds(x, y) {
		return 0
	}
	return m.plateau[m.CoordToIndex(x, y)]
}

func (m *GridMap) GetRegion(x, y int) int {
	if m.IsOutOfBounds(x, y) {
		return -1
	}
	return (y/m.regionHeight)*m.regionCols + x/m.regionWidth
}

// RegionNeighbors returns the 3x3 neighborhood around a region, clipped to
// the map edge. The region itself is included.
func (m *GridMap) RegionNeighbors(region int) []int {
	if region < 0 || region >= m.regionCols*m.regionRows {
		return nil
	}

	col := region % m.regionCols
	row := region / m.regionCols

	neighbors := make([]int, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c, r := col+dx, row+dy
			if c < 0 || r < 0 || c >= m.regionCols || r >= m.regionRows {
				continue
			}
			neighbors = append(neighbors, r*m.regionCols+c)
		}
	}
	return neighbors
}
