package world

import (
	"strings"
	"sync"
)

// Entity is the minimum surface an aggregate exposes to the live index.
type Entity interface {
	Instance() string
	Region() int
}

// Index is the live-entity registry: every spawned player and mob that the
// simulation may still mutate. All access goes through its methods.
type Index struct {
	mu       sync.RWMutex
	entities map[string]Entity
	byName   map[string]Entity
}

func NewIndex() *Index {
	return &Index{
		entities: make(map[string]Entity),
		byName:   make(map[string]Entity),
	}
}

// Add registers an entity, optionally under a username for lookup by name.
func (i *Index) Add(e Entity, username string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.entities[e.Instance()] = e
	if username != "" {
		i.byName[strings.ToLower(username)] = e
	}
}

// Remove drops an entity from the index.
func (i *Index) Remove(instance, username string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.entities, instance)
	if username != "" {
		delete(i.byName, strings.ToLower(username))
	}
}

// Get returns the entity with the given instance id, or nil.
func (i *Index) Get(instance string) Entity {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.entities[instance]
}

// GetByName returns the entity registered under the given username
// (case-insensitive), or nil.
func (i *Index) GetByName(username string) Entity {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.byName[strings.ToLower(username)]
}

// ForEach calls fn for every live entity while holding the lock.
func (i *Index) ForEach(fn func(Entity)) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, e := range i.entities {
		fn(e)
	}
}

// InRegions calls fn for every live entity whose region is in the given set.
func (i *Index) InRegions(regions []int, fn func(Entity)) {
	set := make(map[int]bool, len(regions))
	for _, r := range regions {
		set[r] = true
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, e := range i.entities {
		if set[e.Region()] {
			fn(e)
		}
	}
}
