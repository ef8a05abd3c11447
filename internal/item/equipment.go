package item

// Slot identifies an equipment position.
type Slot string

const (
	SlotWeapon  Slot = "weapon"
	SlotArmour  Slot = "armour"
	SlotPendant Slot = "pendant"
	SlotRing    Slot = "ring"
	SlotBoots   Slot = "boots"
)

// Equipment is the worn item set.
type Equipment struct {
	slots map[Slot]Item
}

func NewEquipment() *Equipment {
	return &Equipment{slots: make(map[Slot]Item)}
}

// Equip places an item in a slot, returning whatever it displaced.
func (e *Equipment) Equip(slot Slot, item Item) Item {
	previous := e.slots[slot]
	e.slots[slot] = item
	return previous
}

// Unequip clears a slot and returns what it held.
func (e *Equipment) Unequip(slot Slot) Item {
	item := e.slots[slot]
	delete(e.slots, slot)
	return item
}

// Get returns the item in a slot; the zero Item when empty.
func (e *Equipment) Get(slot Slot) Item { return e.slots[slot] }

// Weapon is a convenience accessor for combat math.
func (e *Equipment) Weapon() Item { return e.slots[SlotWeapon] }

// Armour is a convenience accessor for combat math.
func (e *Equipment) Armour() Item { return e.slots[SlotArmour] }

// Serialize returns the worn set keyed by slot name.
func (e *Equipment) Serialize() map[Slot]Item {
	out := make(map[Slot]Item, len(e.slots))
	for slot, item := range e.slots {
		out[slot] = item
	}
	return out
}

// Load restores a persisted worn set.
func (e *Equipment) Load(slots map[Slot]Item) {
	for slot, item := range slots {
		e.slots[slot] = item
	}
}
