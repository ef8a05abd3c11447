// Package player implements the aggregate root of the simulation: the
// connected player, its progression, vitals, gated-terrain view and the
// outward packet surface. All network input funnels into Player methods;
// all resulting state changes leave through the broadcast router.
package player

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-realm/internal/display"
	"github.com/pixil98/go-realm/internal/door"
	"github.com/pixil98/go-realm/internal/entity"
	"github.com/pixil98/go-realm/internal/formula"
	"github.com/pixil98/go-realm/internal/item"
	"github.com/pixil98/go-realm/internal/packet"
	"github.com/pixil98/go-realm/internal/skill"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-realm/internal/world"
)

const (
	// DefaultTimeout disconnects idle sessions.
	DefaultTimeout = 10 * time.Minute

	// notifyInterval rate-limits popup notifications.
	notifyInterval = 300 * time.Millisecond

	banReason     = "You are banned from this server."
	timeoutReason = "You have been idle for too long."
)

// Connection is the owned session transport handle.
type Connection interface {
	Send(data []byte) error
	Close(reason string)
}

// QuestProvider resolves a player's quest state by quest id. A nil result
// reads as "requirement not met".
type QuestProvider interface {
	Quest(username string, id int) door.Quest
}

// AchievementProvider resolves a player's achievement state by id.
type AchievementProvider interface {
	Achievement(username string, id int) door.Achievement
}

// Hub relays private messages across a federated deployment. Nil when this
// server runs standalone.
type Hub interface {
	RelayPrivateMessage(from, to, text string) error
}

// Deps bundles the collaborators every player shares.
type Deps struct {
	Router world.Router
	Grid   world.Map
	Index  *world.Index
	Store  storage.Storer[*Record]
	Doors  []*door.Door
	Policy *RightsPolicy

	Quests       QuestProvider
	Achievements AchievementProvider
	Hub          Hub

	// Offline disables persistence gating (door bypass, no saves).
	Offline bool

	SpawnX, SpawnY  int
	TimeoutDuration time.Duration
	WelcomeTemplate string
}

// Player is one connected identity. Created on connection establishment,
// populated by Load once persisted data arrives, ready after Intro, and
// consumed by Destroy.
type Player struct {
	*entity.Character

	// mu serializes cross-goroutine access; see Do.
	mu sync.Mutex

	deps *Deps
	conn Connection

	username string
	rights   Rights

	experience int
	level      int
	nextExp    int
	prevExp    int

	mana    int
	maxMana int

	regionsLoaded map[int]bool
	lightsLoaded  map[int]bool

	muteExpiry time.Time
	banExpiry  time.Time

	pvp          bool
	permanentPvP bool
	cheatScore   int

	skills    *skill.Set
	doors     *door.Registry
	inventory *item.Container
	bank      *item.Container
	equipment *item.Equipment

	timeout      *time.Timer
	lastNotify   time.Time
	currentTrack string

	ready     bool
	destroyed bool

	minigame *MinigameState

	teleportListeners    []func(x, y int)
	killListeners        []func(target *entity.Character)
	doorListeners        []func(d *door.Door)
	cheatScoreListeners  []func(score int)
	readyListeners       []func()
	regionListeners      []func(region int)
	orientationListeners []func(orientation int)
	toggleListeners      []func(menu string, open bool)
}

// New creates a player for a fresh connection, before authentication has
// completed. The aggregate owns the connection and the disconnect timer
// from this point on.
func New(instance string, conn Connection, deps *Deps) *Player {
	p := &Player{
		Character:     entity.NewCharacter(instance, "", deps.SpawnX, deps.SpawnY),
		deps:          deps,
		conn:          conn,
		level:         1,
		regionsLoaded: make(map[int]bool),
		lightsLoaded:  make(map[int]bool),
	}

	p.skills = skill.NewSet(p)
	p.doors = door.NewRegistry(deps.Doors, deps.Grid, p, deps.Offline)
	p.inventory = item.NewContainer(28)
	p.bank = item.NewContainer(56)
	p.equipment = item.NewEquipment()

	// Being attacked interrupts any skill activity.
	p.OnHit(func(*entity.Character, int) { p.skills.Stop() })

	timeout := deps.TimeoutDuration
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p.timeout = time.AfterFunc(timeout, p.handleTimeout)

	return p
}

// Do runs fn while holding the player's state lock. The session goroutine,
// the simulation driver and minigames all reach into a player from their own
// goroutines; every such call funnels through Do so each aggregate only ever
// sees one writer at a time. Player methods never lock themselves, so fn may
// call any of them, but must not nest another Do on the same player.
func (p *Player) Do(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

func (p *Player) Username() string { return p.username }
func (p *Player) Rights() Rights   { return p.rights }
func (p *Player) Ready() bool      { return p.ready }

func (p *Player) Skills() *skill.Set         { return p.skills }
func (p *Player) Doors() *door.Registry      { return p.doors }
func (p *Player) Inventory() *item.Container { return p.inventory }
func (p *Player) Bank() *item.Container      { return p.bank }
func (p *Player) Equipment() *item.Equipment { return p.equipment }

func (p *Player) Experience() int { return p.experience }
func (p *Player) Level() int      { return p.level }

// SetLevel is the skill set's write-back for the derived combat level.
func (p *Player) SetLevel(level int) { p.level = level }

func (p *Player) Mana() int       { return p.mana }
func (p *Player) MaxMana() int    { return p.maxMana }
func (p *Player) CheatScore() int { return p.cheatScore }
func (p *Player) PvP() bool       { return p.pvp }

func (p *Player) SetMana(mana int) {
	if mana > p.maxMana {
		mana = p.maxMana
	}
	if mana < 0 {
		mana = 0
	}
	p.mana = mana
}

func (p *Player) SetMaxMana(max int) {
	p.maxMana = max
	if p.mana > max {
		p.mana = max
	}
}

// Quest adapts the injected provider to the door registry's view.
func (p *Player) Quest(id int) door.Quest {
	if p.deps.Quests == nil {
		return nil
	}
	return p.deps.Quests.Quest(p.username, id)
}

// Achievement adapts the injected provider to the door registry's view.
func (p *Player) Achievement(id int) door.Achievement {
	if p.deps.Achievements == nil {
		return nil
	}
	return p.deps.Achievements.Achievement(p.username, id)
}

// Load restores persisted state and runs the intro sequence. Level and
// experience thresholds are recomputed from experience, never read from
// the record.
func (p *Player) Load(rec *Record) {
	p.username = rec.Username
	p.experience = rec.Experience
	p.level = formula.LevelForExperience(rec.Experience)
	p.nextExp = formula.ExperienceForNextLevel(rec.Experience)
	p.prevExp = formula.ExperienceForPreviousLevel(rec.Experience)

	p.mana = rec.Mana
	p.pvp = rec.PvP
	p.permanentPvP = rec.PermanentPvP

	if rec.MuteExpiry > 0 {
		p.muteExpiry = time.UnixMilli(rec.MuteExpiry)
	}
	if rec.BanExpiry > 0 {
		p.banExpiry = time.UnixMilli(rec.BanExpiry)
	}

	p.PlacePosition(rec.X, rec.Y)
	p.SetOrientation(rec.Orientation)

	p.inventory.Load(rec.Inventory)
	p.bank.Load(rec.Bank)
	p.equipment.Load(rec.Equipment)
	p.skills.Load(rec.Skills)

	// The unset sentinel is repaired during intro, after the skill set has
	// derived the vitals ceilings.
	if rec.HitPoints > 0 {
		p.SetHitPoints(rec.HitPoints)
	}

	p.Intro()
}

// Intro finalizes the session: ban gate, spawn correction, vitals repair,
// rights assignment, live registration and the initial snapshot.
func (p *Player) Intro() {
	if !p.banExpiry.IsZero() && p.banExpiry.After(time.Now()) {
		p.conn.Close(banReason)
		return
	}

	if p.deps.Grid.IsOutOfBounds(p.X(), p.Y()) {
		p.PlacePosition(p.deps.SpawnX, p.deps.SpawnY)
	}

	if p.HitPoints() <= 0 && !p.IsDead() {
		p.Heal()
	}

	p.rights = p.deps.Policy.RightsFor(p.username)

	p.SetRegion(p.deps.Grid.GetRegion(p.X(), p.Y()))
	p.deps.Index.Add(p, p.username)

	p.ready = true
	for _, fn := range p.readyListeners {
		fn()
	}

	notice := ""
	if p.deps.WelcomeTemplate != "" {
		expanded, err := display.ExpandTemplate(p.deps.WelcomeTemplate, struct{ Username string }{p.username})
		if err != nil {
			slog.Warn("expanding welcome template", "error", err)
		} else {
			notice = expanded
		}
	}

	p.Send(packet.Welcome{
		Instance:    p.Instance(),
		Username:    p.username,
		X:           p.X(),
		Y:           p.Y(),
		Rights:      int(p.rights),
		HitPoints:   p.HitPoints(),
		MaxHP:       p.MaxHitPoints(),
		Mana:        p.mana,
		MaxMana:     p.maxMana,
		Experience:  p.experience,
		Level:       p.level,
		Orientation: p.Orientation(),
		Notice:      notice,
	})

	p.sendDoorStates()
}

// sendDoorStates pushes every door's computed tile state so the client
// renders gated terrain at this player's current progression.
func (p *Player) sendDoorStates() {
	for _, d := range p.deps.Doors {
		indexes, data, collisions := p.doors.GetTiles(d)
		p.Send(packet.Door{
			Indexes:    indexes,
			Data:       data,
			Collisions: collisions,
		})
	}
}

// AddExperience grows the aggregate experience counter. Other players learn
// of level changes for combat-level display; raw counters stay private to
// the owning client.
func (p *Player) AddExperience(exp int) {
	if exp <= 0 {
		return
	}

	p.experience += exp
	newLevel := formula.LevelForExperience(p.experience)
	p.nextExp = formula.ExperienceForNextLevel(p.experience)
	p.prevExp = formula.ExperienceForPreviousLevel(p.experience)

	if newLevel > p.level {
		p.level = newLevel
		p.SetMaxHitPoints(formula.MaxHitPointsForLevel(newLevel))
		p.Heal()
		p.ForceRegionResend()
		p.Notify(fmt.Sprintf("Congratulations, you have advanced to level %d!", newLevel))
		p.Sync()
	}

	p.broadcastRegions(packet.Experience{
		Instance: p.Instance(),
		Amount:   exp,
		Level:    p.level,
	}, true)

	p.Send(packet.Experience{
		Instance:   p.Instance(),
		Amount:     exp,
		Level:      p.level,
		Experience: p.experience,
		NextExp:    p.nextExp,
		PrevExp:    p.prevExp,
	})
}

// SetPosition moves the player. Dead players cannot move; out-of-bounds
// coordinates clamp to the fallback spawn.
func (p *Player) SetPosition(x, y int) {
	if p.IsDead() {
		return
	}

	if p.deps.Grid.IsOutOfBounds(x, y) {
		x, y = p.deps.SpawnX, p.deps.SpawnY
	}

	p.skills.Stop()
	p.Character.SetPosition(x, y)
	p.updateRegion()

	p.broadcastRegions(packet.Movement{
		Instance:    p.Instance(),
		X:           x,
		Y:           y,
		Orientation: p.Orientation(),
	}, true)
}

// Teleport hard-moves the player: listeners fire, the move is broadcast,
// and any combat session is interrupted.
func (p *Player) Teleport(x, y int, animate bool) {
	for _, fn := range p.teleportListeners {
		fn(x, y)
	}

	p.broadcastRegions(packet.Teleport{
		Instance:  p.Instance(),
		X:         x,
		Y:         y,
		Animation: animate,
	}, false)

	p.PlacePosition(x, y)
	p.updateRegion()
	p.Combat().Stop()
}

func (p *Player) updateRegion() {
	region := p.deps.Grid.GetRegion(p.X(), p.Y())
	if region == p.Region() {
		return
	}
	p.SetRegion(region)
	for _, fn := range p.regionListeners {
		fn(region)
	}
	if !p.regionsLoaded[region] {
		p.regionsLoaded[region] = true
		p.Send(packet.Region{Forced: false})
	}
}

// ForceRegionResend clears the client's region cache and pushes a fresh
// render at the player's current effective state.
func (p *Player) ForceRegionResend() {
	p.regionsLoaded = make(map[int]bool)
	p.lightsLoaded = make(map[int]bool)
	p.Send(packet.Region{Forced: true})
	p.sendDoorStates()
}

// Sync is the single funnel for "this player's visible state changed
// materially": one broadcast, one durability checkpoint.
func (p *Player) Sync() {
	sync := packet.Sync{
		Instance:  p.Instance(),
		Level:     p.level,
		X:         p.X(),
		Y:         p.Y(),
		HitPoints: p.HitPoints(),
		MaxHP:     p.MaxHitPoints(),
		PvP:       p.pvp,
	}

	sync.Equipment = make(map[string]packet.Item)
	for slot, it := range p.equipment.Serialize() {
		sync.Equipment[string(slot)] = packet.Item{
			Key:          it.Key,
			Count:        it.Count,
			AbilityLevel: it.AbilityLevel,
		}
	}

	p.broadcastRegions(sync, false)
	p.Save()
}

// Save persists the current state under the same lowercased key login reads,
// so mixed-case names land on one record. Fire-and-forget: the snapshot is
// taken synchronously, the write happens off-tick, and failure never rolls
// back in-memory state.
func (p *Player) Save() {
	if p.deps.Offline || p.deps.Store == nil || p.username == "" {
		return
	}

	rec := p.Serialize()
	key := strings.ToLower(rec.Username)
	go func() {
		if err := p.deps.Store.Save(key, rec); err != nil {
			slog.Warn("saving player", "username", rec.Username, "error", err)
		}
	}()
}

// Serialize captures the persisted form of the player.
func (p *Player) Serialize() *Record {
	rec := &Record{
		Username:     p.username,
		X:            p.X(),
		Y:            p.Y(),
		Orientation:  p.Orientation(),
		Experience:   p.experience,
		HitPoints:    p.HitPoints(),
		Mana:         p.mana,
		PvP:          p.pvp,
		PermanentPvP: p.permanentPvP,
		Skills:       p.skills.Serialize(false),
		Inventory:    p.inventory.Serialize(),
		Bank:         p.bank.Serialize(),
		Equipment:    p.equipment.Serialize(),
	}

	if p.IsDead() {
		rec.HitPoints = HitPointsUnset
	}
	if !p.muteExpiry.IsZero() {
		rec.MuteExpiry = p.muteExpiry.UnixMilli()
	}
	if !p.banExpiry.IsZero() {
		rec.BanExpiry = p.banExpiry.UnixMilli()
	}

	return rec
}

// SendMessage delivers a private message. Federated deployments relay
// through the hub; standalone servers require the target to be online here.
func (p *Player) SendMessage(target, text string) {
	if p.IsMuted() {
		p.Notify("You are currently muted.")
		return
	}

	if p.deps.Hub != nil {
		if err := p.deps.Hub.RelayPrivateMessage(p.username, target, text); err != nil {
			slog.Warn("relaying private message", "from", p.username, "error", err)
			return
		}
		p.Send(packet.PrivateMessage{
			Header: fmt.Sprintf("[To %s]", target),
			Text:   text,
		})
		return
	}

	other, ok := p.deps.Index.GetByName(target).(*Player)
	if !ok || other == nil {
		p.Notify(fmt.Sprintf("Player %s is not online.", target))
		return
	}

	other.Send(packet.PrivateMessage{
		Header: fmt.Sprintf("[From %s]", p.username),
		Text:   text,
	})
	p.Send(packet.PrivateMessage{
		Header: fmt.Sprintf("[To %s]", other.username),
		Text:   text,
	})
}

// ReceivePrivateMessage delivers a message relayed from another server.
func (p *Player) ReceivePrivateMessage(from, text string) {
	p.Send(packet.PrivateMessage{
		Header: fmt.Sprintf("[From %s]", from),
		Text:   text,
	})
}

// Chat is public speech scoped to nearby regions; administrators may flag
// it global.
func (p *Player) Chat(text string, global bool) {
	if p.IsMuted() {
		p.Notify("You are currently muted.")
		return
	}
	if global && p.rights < RightsAdministrator {
		global = false
	}

	chat := packet.Chat{
		Instance: p.Instance(),
		Name:     p.username,
		Text:     text,
		Global:   global,
	}

	if global {
		p.route(world.Push{Scope: world.PushBroadcast, Packet: chat})
		return
	}
	p.broadcastRegions(chat, false)
}

// IsMuted reports whether the mute expiry is still in the future.
func (p *Player) IsMuted() bool {
	return !p.muteExpiry.IsZero() && p.muteExpiry.After(time.Now())
}

// Mute silences the player until the given time.
func (p *Player) Mute(until time.Time) { p.muteExpiry = until }

// Ban marks the player banned until the given time and ends the session.
func (p *Player) Ban(until time.Time) {
	p.banExpiry = until
	p.conn.Close(banReason)
}

// Notify queues a popup for the owning client, rate-limited so repeated
// triggers cannot flood the connection.
func (p *Player) Notify(text string) {
	if time.Since(p.lastNotify) < notifyInterval {
		return
	}
	p.lastNotify = time.Now()

	p.Send(packet.Notification{Text: display.Wrap(text)})
}

// SetMusic pushes a background track change.
func (p *Player) SetMusic(track string) {
	if track == p.currentTrack {
		return
	}
	p.currentTrack = track
	p.Send(packet.Music{Track: track})
}

// IncrementCheatScore bumps the anomaly counter and notifies listeners.
func (p *Player) IncrementCheatScore(amount int) {
	p.cheatScore += amount
	for _, fn := range p.cheatScoreListeners {
		fn(p.cheatScore)
	}
}

// RefreshTimeout rearms the disconnect timer; call on any client activity.
func (p *Player) RefreshTimeout() {
	if p.timeout == nil {
		return
	}
	timeout := p.deps.TimeoutDuration
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p.timeout.Reset(timeout)
}

// handleTimeout fires on the timer goroutine, so it takes the lock itself.
func (p *Player) handleTimeout() {
	p.mu.Lock()
	conn := p.conn
	if p.destroyed || conn == nil {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	conn.Close(timeoutReason)
}

// Send routes a packet to this player alone.
func (p *Player) Send(pkt packet.Packet) {
	p.route(world.Push{
		Scope:  world.PushPlayer,
		Target: p.Instance(),
		Packet: pkt,
	})
}

// broadcastRegions routes a packet to everyone subscribed to the player's
// region neighborhood, optionally suppressing echo to self.
func (p *Player) broadcastRegions(pkt packet.Packet, excludeSelf bool) {
	push := world.Push{
		Scope:  world.PushRegions,
		Region: p.Region(),
		Packet: pkt,
	}
	if excludeSelf {
		push.Exclude = p.Instance()
	}
	p.route(push)
}

func (p *Player) route(push world.Push) {
	if p.deps.Router == nil {
		return
	}
	if err := p.deps.Router.Route(push); err != nil {
		slog.Warn("routing player packet", "instance", p.Instance(), "error", err)
	}
}

// OnTeleport registers a listener fired before a teleport applies; quest
// and door logic reacts through this.
func (p *Player) OnTeleport(fn func(x, y int)) {
	p.teleportListeners = append(p.teleportListeners, fn)
}

// OnKill registers a listener fired when this player kills a target.
func (p *Player) OnKill(fn func(target *entity.Character)) {
	p.killListeners = append(p.killListeners, fn)
}

// KilledTarget reports a kill to registered listeners.
func (p *Player) KilledTarget(target *entity.Character) {
	for _, fn := range p.killListeners {
		fn(target)
	}
}

// OnDoor registers a listener for door interactions.
func (p *Player) OnDoor(fn func(d *door.Door)) {
	p.doorListeners = append(p.doorListeners, fn)
}

// EnterDoor reports a door interaction to registered listeners.
func (p *Player) EnterDoor(d *door.Door) {
	for _, fn := range p.doorListeners {
		fn(d)
	}
}

// OnCheatScore registers a listener for cheat-score changes.
func (p *Player) OnCheatScore(fn func(score int)) {
	p.cheatScoreListeners = append(p.cheatScoreListeners, fn)
}

// OnRegion registers a listener fired whenever a move or teleport lands the
// player in a different region; the session retargets its region
// subscription through this.
func (p *Player) OnRegion(fn func(region int)) {
	p.regionListeners = append(p.regionListeners, fn)
}

// OnReady registers a listener fired once intro completes.
func (p *Player) OnReady(fn func()) {
	p.readyListeners = append(p.readyListeners, fn)
}

// OnOrientation registers a listener for orientation changes.
func (p *Player) OnOrientation(fn func(orientation int)) {
	p.orientationListeners = append(p.orientationListeners, fn)
}

// Turn updates orientation and notifies listeners.
func (p *Player) Turn(orientation int) {
	p.SetOrientation(orientation)
	for _, fn := range p.orientationListeners {
		fn(orientation)
	}
}

// OnToggle registers a listener for client menu toggles (profile,
// inventory, warp).
func (p *Player) OnToggle(fn func(menu string, open bool)) {
	p.toggleListeners = append(p.toggleListeners, fn)
}

// ToggleMenu reports a client menu toggle to registered listeners.
func (p *Player) ToggleMenu(menu string, open bool) {
	for _, fn := range p.toggleListeners {
		fn(menu, open)
	}
}

// MinigameState snapshots what a minigame needs to restore when the player
// leaves: where they stood when they joined.
type MinigameState struct {
	X, Y int
}

// SetMinigameState records (or clears, with nil) the snapshot taken when a
// player enters a minigame lobby.
func (p *Player) SetMinigameState(state *MinigameState) { p.minigame = state }

// MinigameState returns the current snapshot, or nil outside minigames.
func (p *Player) MinigameState() *MinigameState { return p.minigame }

// Destroy tears the aggregate down deterministically: the timer is
// released, skill loops halt, combat ends, the live registration is
// dropped, and a final save is issued. The handle is consumed; further
// calls are no-ops and the player is no longer ready.
func (p *Player) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.ready = false

	if p.timeout != nil {
		p.timeout.Stop()
		p.timeout = nil
	}

	p.skills.Stop()
	p.Combat().Stop()
	p.deps.Index.Remove(p.Instance(), p.username)

	p.Save()
}

// Destroyed reports whether the handle has been consumed.
func (p *Player) Destroyed() bool { return p.destroyed }
