package player

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-log"
	"golang.org/x/crypto/bcrypt"
)

// usernamePattern keeps usernames valid as storage identifiers.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,16}$`)

// Manager owns every connected player session on this server.
type Manager struct {
	mu      sync.RWMutex
	deps    *Deps
	players map[string]*Player
}

func NewManager(deps *Deps) *Manager {
	return &Manager{
		deps:    deps,
		players: make(map[string]*Player),
	}
}

// Connect creates a player for a fresh connection, before authentication.
func (m *Manager) Connect(conn Connection) *Player {
	p := New(uuid.New().String(), conn, m.deps)

	m.mu.Lock()
	m.players[p.Instance()] = p
	m.mu.Unlock()

	return p
}

// Login authenticates and populates a connected player. New usernames are
// registered on first login.
func (m *Manager) Login(p *Player, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 1-16 letters, digits or dashes")
	}

	if other := m.deps.Index.GetByName(username); other != nil {
		return fmt.Errorf("player %s is already logged in", username)
	}

	key := strings.ToLower(username)
	rec := m.deps.Store.Get(key)
	if rec == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		rec = &Record{
			Username:     username,
			PasswordHash: string(hash),
			X:            m.deps.SpawnX,
			Y:            m.deps.SpawnY,
			HitPoints:    HitPointsUnset,
		}
		if err := m.deps.Store.Save(key, rec); err != nil {
			return fmt.Errorf("registering player: %w", err)
		}
	} else if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return fmt.Errorf("invalid credentials")
	}

	p.Load(rec)
	return nil
}

// Disconnect tears the session down and forgets it.
func (m *Manager) Disconnect(p *Player) {
	p.Do(p.Destroy)

	m.mu.Lock()
	delete(m.players, p.Instance())
	m.mu.Unlock()
}

// Player returns a session by instance id, or nil.
func (m *Manager) Player(instance string) *Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.players[instance]
}

// Count returns the number of connected sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// ForEach calls fn for every connected player.
func (m *Manager) ForEach(fn func(*Player)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		fn(p)
	}
}

// Tick autosaves every ready player. Saves are fire-and-forget; a failing
// write never disturbs the simulation.
func (m *Manager) Tick(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	m.mu.RLock()
	defer m.mu.RUnlock()

	saved := 0
	for _, p := range m.players {
		p.Do(func() {
			if p.Ready() && !p.Destroyed() {
				p.Save()
				saved++
			}
		})
	}

	logger.Debugf("autosaved %d players", saved)
	return nil
}
