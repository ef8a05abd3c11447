// Package item holds the slim container and equipment surfaces the player
// aggregate owns. Full container mechanics (trading, stacking rules, shop
// flows) live outside this core.
package item

// Enchantment kinds a weapon can carry.
type Enchantment string

const (
	EnchantmentNone      Enchantment = ""
	EnchantmentCritical  Enchantment = "critical"
	EnchantmentStun      Enchantment = "stun"
	EnchantmentExplosive Enchantment = "explosive"
)

// Item is one carried or equipped object.
type Item struct {
	Key          string      `json:"key"`
	Count        int         `json:"count,omitempty"`
	Level        int         `json:"level,omitempty"`
	AbilityLevel int         `json:"ability_level,omitempty"`
	Enchantment  Enchantment `json:"enchantment,omitempty"`
}

// IsEmpty reports whether the slot holds nothing.
func (i Item) IsEmpty() bool { return i.Key == "" }

// Container is a fixed-size ordered item holder used for both the
// inventory and the bank.
type Container struct {
	slots []Item
}

func NewContainer(size int) *Container {
	return &Container{slots: make([]Item, size)}
}

func (c *Container) Size() int { return len(c.slots) }

// Add places the item in the first empty slot. Returns false when full.
func (c *Container) Add(item Item) bool {
	for i := range c.slots {
		if c.slots[i].IsEmpty() {
			c.slots[i] = item
			return true
		}
	}
	return false
}

// Remove clears a slot and returns what it held.
func (c *Container) Remove(slot int) Item {
	if slot < 0 || slot >= len(c.slots) {
		return Item{}
	}
	item := c.slots[slot]
	c.slots[slot] = Item{}
	return item
}

// Get returns the item at a slot without removing it.
func (c *Container) Get(slot int) Item {
	if slot < 0 || slot >= len(c.slots) {
		return Item{}
	}
	return c.slots[slot]
}

// Serialize returns the slot array verbatim; order is the persistence and
// wire order.
func (c *Container) Serialize() []Item {
	out := make([]Item, len(c.slots))
	copy(out, c.slots)
	return out
}

// Load restores persisted slots, ignoring overflow beyond the container.
func (c *Container) Load(items []Item) {
	for i, item := range items {
		if i >= len(c.slots) {
			return
		}
		c.slots[i] = item
	}
}
