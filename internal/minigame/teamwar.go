// Package minigame implements team-based match lifecycles driven off the
// shared simulation tick. TeamWar is the lobby -> team split -> match cycle.
package minigame

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pixil98/go-log"
	"github.com/pixil98/go-realm/internal/display"
	"github.com/pixil98/go-realm/internal/packet"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/world"
)

// Team identifies a participant's placement.
type Team string

const (
	TeamRed   Team = "red"
	TeamBlue  Team = "blue"
	TeamLobby Team = "lobby"
)

const (
	// minPlayers is the lobby threshold before a match can start.
	minPlayers = 5

	// spawnJitter bounds the non-negative random offset applied to team
	// spawn points so players do not stack on one tile.
	spawnJitter = 4

	// syncInterval throttles countdown broadcasts; clients tick the
	// countdown locally between syncs.
	syncInterval = 10 * time.Second
)

// Config is the operator-tunable slice of TeamWar.
type Config struct {
	// Countdown in seconds from first lobby fill to match start.
	Countdown int

	// TickSeconds is the driver tick interval, used to decrement the
	// countdown without a per-second clock.
	TickSeconds int

	// CountdownTemplate formats the lobby countdown text.
	CountdownTemplate string

	// MusicTrack plays for participants when the match starts.
	MusicTrack string

	RedSpawnX, RedSpawnY   int
	BlueSpawnX, BlueSpawnY int
}

// TeamWar runs the lobby and match lifecycle. A player is in at most one
// of lobby, red roster, blue roster at any time. Joins and leaves arrive on
// session goroutines while Tick runs on the driver, so all lobby and roster
// state sits behind mu.
type TeamWar struct {
	cfg    Config
	router world.Router

	mu       sync.Mutex
	lobby    []*player.Player
	redTeam  []*player.Player
	blueTeam []*player.Player

	started   bool
	countdown int
	lastSync  time.Time

	// coinFlip and jitter are swappable for deterministic tests.
	coinFlip func() bool
	jitter   func(bound int) int
}

func NewTeamWar(cfg Config, router world.Router) *TeamWar {
	if cfg.Countdown <= 0 {
		cfg.Countdown = 60
	}
	if cfg.TickSeconds <= 0 {
		cfg.TickSeconds = 1
	}
	return &TeamWar{
		cfg:       cfg,
		router:    router,
		countdown: cfg.Countdown,
		coinFlip:  func() bool { return rand.IntN(2) == 0 },
		jitter:    rand.IntN,
	}
}

// Add places a player in the waiting lobby. Idempotent: re-joining while
// already waiting is a no-op.
func (t *TeamWar) Add(p *player.Player) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, waiting := range t.lobby {
		if waiting == p {
			return
		}
	}

	p.Do(func() {
		p.SetMinigameState(&player.MinigameState{X: p.X(), Y: p.Y()})
	})
	t.lobby = append(t.lobby, p)
}

// Remove takes a player out of the lobby only; active team rosters are
// untouched. Idempotent.
func (t *TeamWar) Remove(p *player.Player) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, waiting := range t.lobby {
		if waiting == p {
			t.lobby = append(t.lobby[:i], t.lobby[i+1:]...)
			p.Do(func() { p.SetMinigameState(nil) })
			return
		}
	}
}

// GetTeam reports a player's placement, lobby checked last. The second
// return is false for non-participants.
func (t *TeamWar) GetTeam(p *player.Player) (Team, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, member := range t.redTeam {
		if member == p {
			return TeamRed, true
		}
	}
	for _, member := range t.blueTeam {
		if member == p {
			return TeamBlue, true
		}
	}
	for _, member := range t.lobby {
		if member == p {
			return TeamLobby, true
		}
	}
	return "", false
}

// Started reports whether a match is active.
func (t *TeamWar) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

// Tick runs the countdown while the lobby can field a match, starts the
// match once it elapses, and periodically re-syncs the countdown to waiting
// clients. Below the threshold the countdown rearms, so a long-idle server
// still makes late joiners sit out the full lobby wait.
func (t *TeamWar) Tick(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	if len(t.lobby) < minPlayers {
		t.countdown = t.cfg.Countdown
	} else {
		t.countdown -= t.cfg.TickSeconds
		if t.countdown <= 0 {
			t.buildTeams(ctx)
			return nil
		}
	}

	if time.Since(t.lastSync) > syncInterval {
		t.syncCountdown(ctx)
	}

	return nil
}

// buildTeams copies the lobby, splits it ceil(n/2)/floor(n/2), and assigns
// the larger slice to a coin-flipped side. Callers hold mu.
func (t *TeamWar) buildTeams(ctx context.Context) {
	waiting := make([]*player.Player, len(t.lobby))
	copy(waiting, t.lobby)

	half := (len(waiting) + 1) / 2

	if t.coinFlip() {
		t.redTeam = waiting[:half]
		t.blueTeam = waiting[half:]
	} else {
		t.blueTeam = waiting[:half]
		t.redTeam = waiting[half:]
	}

	t.lobby = nil
	t.started = true

	for _, member := range t.redTeam {
		x, y := t.SpawnPoint(TeamRed)
		member.Do(func() {
			member.Teleport(x, y, true)
			if t.cfg.MusicTrack != "" {
				member.SetMusic(t.cfg.MusicTrack)
			}
		})
	}
	for _, member := range t.blueTeam {
		x, y := t.SpawnPoint(TeamBlue)
		member.Do(func() {
			member.Teleport(x, y, true)
			if t.cfg.MusicTrack != "" {
				member.SetMusic(t.cfg.MusicTrack)
			}
		})
	}

	log.GetLogger(ctx).Infof("teamwar match started: %d red, %d blue", len(t.redTeam), len(t.blueTeam))
}

// SpawnPoint jitters the team's base coordinate by a bounded non-negative
// offset on both axes independently.
func (t *TeamWar) SpawnPoint(team Team) (int, int) {
	x, y := t.cfg.RedSpawnX, t.cfg.RedSpawnY
	if team == TeamBlue {
		x, y = t.cfg.BlueSpawnX, t.cfg.BlueSpawnY
	}
	return x + t.jitter(spawnJitter), y + t.jitter(spawnJitter)
}

// syncCountdown pushes the remaining seconds to everyone waiting. Callers
// hold mu.
func (t *TeamWar) syncCountdown(ctx context.Context) {
	t.lastSync = time.Now()

	seconds := t.countdown
	if seconds < 0 {
		seconds = 0
	}

	text := ""
	if t.cfg.CountdownTemplate != "" {
		expanded, err := display.ExpandTemplate(t.cfg.CountdownTemplate, struct{ Seconds int }{seconds})
		if err != nil {
			log.GetLogger(ctx).Errorf("expanding countdown template: %s", err)
		} else {
			text = expanded
		}
	}

	for _, waiting := range t.lobby {
		push := world.Push{
			Scope:  world.PushPlayer,
			Target: waiting.Instance(),
			Packet: packet.Countdown{Seconds: seconds, Text: text},
		}
		if err := t.router.Route(push); err != nil {
			log.GetLogger(ctx).Errorf("routing countdown: %s", err)
		}
	}
}
