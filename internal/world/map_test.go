package world

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func testSpec() *MapSpec {
	return &MapSpec{
		Width:        30,
		Height:       20,
		RegionWidth:  10,
		RegionHeight: 10,
		Collisions:   []int{35},        // (5,1)
		Empty:        []int{61},        // (1,2)
		Plateau:      map[int]int{0: 1}, // (0,0) sits on plateau 1
	}
}

func TestMapSpecValidate(t *testing.T) {
	spec := testSpec()
	if err := spec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec.Collisions = append(spec.Collisions, 30*20)
	if err := spec.Validate(); err == nil {
		t.Error("expected error for collision index outside map")
	}

	if err := (&MapSpec{Width: 0, Height: 5, RegionWidth: 1, RegionHeight: 1}).Validate(); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestGridMapQueries(t *testing.T) {
	m := NewGridMap(testSpec(), []int{m2i(7, 1, 30)})

	testutil.AssertEqual(t, "collision tile", m.IsColliding(5, 1), true)
	testutil.AssertEqual(t, "clear tile", m.IsColliding(6, 1), false)
	testutil.AssertEqual(t, "empty tile", m.IsEmpty(1, 2), true)
	testutil.AssertEqual(t, "door tile", m.IsDoor(7, 1), true)
	testutil.AssertEqual(t, "non-door tile", m.IsDoor(8, 1), false)
	testutil.AssertEqual(t, "plateau tag", m.GetPlateauLevel(0, 0), 1)
	testutil.AssertEqual(t, "default plateau", m.GetPlateauLevel(9, 9), 0)
}

func TestGridMapBounds(t *testing.T) {
	m := NewGridMap(testSpec(), nil)

	testutil.AssertEqual(t, "negative x", m.IsOutOfBounds(-1, 0), true)
	testutil.AssertEqual(t, "edge", m.IsOutOfBounds(29, 19), false)
	testutil.AssertEqual(t, "past edge", m.IsOutOfBounds(30, 0), true)
	testutil.AssertEqual(t, "oob collides", m.IsColliding(-1, -1), true)
	testutil.AssertEqual(t, "oob is empty", m.IsEmpty(999, 0), true)
	testutil.AssertEqual(t, "oob region", m.GetRegion(999, 0), -1)
}

func TestGridMapRegions(t *testing.T) {
	// 30x20 with 10x10 regions: 3 cols, 2 rows.
	m := NewGridMap(testSpec(), nil)

	testutil.AssertEqual(t, "origin region", m.GetRegion(0, 0), 0)
	testutil.AssertEqual(t, "middle region", m.GetRegion(15, 5), 1)
	testutil.AssertEqual(t, "last region", m.GetRegion(29, 19), 5)

	corner := m.RegionNeighbors(0)
	testutil.AssertEqual(t, "corner neighborhood size", len(corner), 4)

	center := m.RegionNeighbors(1)
	testutil.AssertEqual(t, "center neighborhood size", len(center), 6)

	if m.RegionNeighbors(99) != nil {
		t.Error("expected nil neighborhood for invalid region")
	}
}

func TestIndexCoordRoundTrip(t *testing.T) {
	m := NewGridMap(testSpec(), nil)

	idx := m.CoordToIndex(7, 3)
	x, y := m.IndexToCoord(idx)
	testutil.AssertEqual(t, "x", x, 7)
	testutil.AssertEqual(t, "y", y, 3)
}

func m2i(x, y, width int) int { return y*width + x }
