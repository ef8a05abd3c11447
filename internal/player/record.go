package player

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/item"
	"github.com/pixil98/go-realm/internal/skill"
)

// HitPointsUnset is the persisted sentinel meaning "heal me on intro";
// written for brand new players and after death saves.
const HitPointsUnset = -1

// Record is the persisted form of a player. Derived fields (level,
// experience thresholds, vitals ceilings) are deliberately absent: they are
// recomputed from experience on load and never trusted from disk.
type Record struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"`

	X           int `json:"x"`
	Y           int `json:"y"`
	Orientation int `json:"orientation"`

	Experience int `json:"experience"`
	HitPoints  int `json:"hit_points"`
	Mana       int `json:"mana"`

	// MuteExpiry and BanExpiry are unix milliseconds; zero means never.
	MuteExpiry int64 `json:"mute_expiry,omitempty"`
	BanExpiry  int64 `json:"ban_expiry,omitempty"`

	PvP          bool `json:"pvp,omitempty"`
	PermanentPvP bool `json:"permanent_pvp,omitempty"`

	Skills    []skill.Entry           `json:"skills,omitempty"`
	Inventory []item.Item             `json:"inventory,omitempty"`
	Bank      []item.Item             `json:"bank,omitempty"`
	Equipment map[item.Slot]item.Item `json:"equipment,omitempty"`
}

func (r *Record) Validate() error {
	el := errors.NewErrorList()

	if r.Username == "" {
		el.Add(fmt.Errorf("username is required"))
	}
	if r.Experience < 0 {
		el.Add(fmt.Errorf("experience must be non-negative"))
	}
	if r.HitPoints < HitPointsUnset {
		el.Add(fmt.Errorf("hit points below the unset sentinel"))
	}

	return el.Err()
}
