package world

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

type fakeEntity struct {
	instance string
	region   int
}

func (f *fakeEntity) Instance() string { return f.instance }
func (f *fakeEntity) Region() int      { return f.region }

func TestIndexAddGetRemove(t *testing.T) {
	idx := NewIndex()
	e := &fakeEntity{instance: "abc", region: 2}

	idx.Add(e, "Alice")

	if idx.Get("abc") != e {
		t.Fatal("expected entity by instance")
	}
	if idx.GetByName("alice") != e {
		t.Fatal("expected case-insensitive lookup by name")
	}

	idx.Remove("abc", "Alice")
	if idx.Get("abc") != nil {
		t.Error("expected entity removed")
	}
	if idx.GetByName("Alice") != nil {
		t.Error("expected name mapping removed")
	}
}

func TestIndexInRegions(t *testing.T) {
	idx := NewIndex()
	idx.Add(&fakeEntity{instance: "a", region: 1}, "")
	idx.Add(&fakeEntity{instance: "b", region: 2}, "")
	idx.Add(&fakeEntity{instance: "c", region: 5}, "")

	count := 0
	idx.InRegions([]int{1, 2}, func(Entity) { count++ })
	testutil.AssertEqual(t, "entities in regions", count, 2)
}
