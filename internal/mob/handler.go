package mob

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-realm/internal/entity"
	"github.com/pixil98/go-realm/internal/packet"
	"github.com/pixil98/go-realm/internal/world"
)

// Handler wires one mob's lifecycle events to roaming, combat engagement
// and respawn policy. It holds no state enum; behavior falls out of the
// mob's own flags reacting to events.
type Handler struct {
	mob    *Mob
	grid   world.Map
	index  *world.Index
	router world.Router

	// plateau is captured once at construction from the spawn tile and
	// frozen; roaming onto a different plateau is never allowed even when
	// coordinates are adjacent.
	plateau int

	respawnAt time.Time
}

// NewHandler binds a handler to a mob and registers its event listeners.
func NewHandler(m *Mob, grid world.Map, index *world.Index, router world.Router) *Handler {
	sx, sy := m.Spawn()
	h := &Handler{
		mob:     m,
		grid:    grid,
		index:   index,
		router:  router,
		plateau: grid.GetPlateauLevel(sx, sy),
	}

	m.OnMovement(h.handleMovement)
	m.OnHit(h.handleHit)
	m.OnDeath(h.handleDeath)
	m.OnRespawn(h.handleRespawn)
	m.OnTalk(h.handleTalk)

	return h
}

// handleMovement forces the mob back to its spawn point when it has
// wandered past the leash, bypassing roam checks.
func (h *Handler) handleMovement(x, y int) {
	sx, sy := h.mob.Spawn()
	if distance(sx, sy, x, y) <= float64(h.mob.RoamDistance()) {
		return
	}

	h.mob.PlacePosition(sx, sy)
	h.broadcast(packet.Teleport{Instance: h.mob.Instance(), X: sx, Y: sy})
}

// handleHit engages the attacker unless the mob is dead or already fighting.
func (h *Handler) handleHit(attacker *entity.Character, _ int) {
	if h.mob.IsDead() || h.mob.Combat().Started() {
		return
	}
	if attacker == nil {
		return
	}
	h.mob.Combat().Begin(attacker)
}

func (h *Handler) handleDeath(_ *entity.Character) {
	h.index.Remove(h.mob.Instance(), "")
	h.respawnAt = time.Now().Add(h.mob.RespawnDelay())
	h.broadcast(packet.Despawn{Instance: h.mob.Instance()})
}

// handleRespawn re-registers the revived mob with the live-entity index.
func (h *Handler) handleRespawn() {
	h.index.Add(h.mob, "")
	h.broadcast(packet.Spawn{
		Instance: h.mob.Instance(),
		Name:     h.mob.Name(),
		X:        h.mob.X(),
		Y:        h.mob.Y(),
		Level:    h.mob.Level(),
	})
}

// handleTalk is a stub hook: forced speech is logged but not yet broadcast.
func (h *Handler) handleTalk(text string) {
	slog.Info("mob forced speech", "instance", h.mob.Instance(), "name", h.mob.Name(), "text", text)
}

// Roam performs one roaming attempt: offset the spawn point (not the
// current point) by a random delta on both axes and move if the candidate
// passes every containment check.
func (h *Handler) Roam() {
	if h.mob.IsDead() {
		return
	}

	d := h.mob.RoamDistance()
	sx, sy := h.mob.Spawn()
	x := sx + rand.IntN(2*d+1) - d
	y := sy + rand.IntN(2*d+1) - d

	if !h.acceptCandidate(x, y) {
		return
	}

	h.mob.SetPosition(x, y)
	h.broadcast(packet.Movement{
		Instance: h.mob.Instance(),
		X:        x,
		Y:        y,
	})
}

// acceptCandidate applies the roam containment policy. The distance check
// is exclusive: points on or outside the boundary circle are rejected.
func (h *Handler) acceptCandidate(x, y int) bool {
	if h.mob.Combat().Started() {
		return false
	}
	if h.grid.IsColliding(x, y) || h.grid.IsEmpty(x, y) || h.grid.IsDoor(x, y) {
		return false
	}

	sx, sy := h.mob.Spawn()
	if distance(sx, sy, x, y) >= float64(h.mob.RoamDistance()) {
		return false
	}
	if h.grid.GetPlateauLevel(x, y) != h.plateau {
		return false
	}
	if cx, cy := h.mob.Position(); x == cx && y == cy {
		return false
	}

	return true
}

// Tick advances respawn bookkeeping; called by the manager every interval.
func (h *Handler) Tick(now time.Time) {
	if h.mob.IsDead() && !h.respawnAt.IsZero() && now.After(h.respawnAt) {
		h.respawnAt = time.Time{}
		h.mob.Respawn()
		return
	}

	h.Roam()
}

func (h *Handler) broadcast(p packet.Packet) {
	if h.router == nil {
		return
	}
	push := world.Push{
		Scope:  world.PushRegions,
		Packet: p,
		Region: h.grid.GetRegion(h.mob.X(), h.mob.Y()),
	}
	if err := h.router.Route(push); err != nil {
		slog.Warn("routing mob packet", "instance", h.mob.Instance(), "error", err)
	}
}

func distance(x1, y1, x2, y2 int) float64 {
	return math.Hypot(float64(x2-x1), float64(y2-y1))
}
