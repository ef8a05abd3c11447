package listener

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-log"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/packet"
	"github.com/pixil98/go-realm/internal/player"
)

// Bus is the subscription side of the message bus a session listens on.
type Bus interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Minigame is the lobby surface a session joins and leaves.
type Minigame interface {
	Add(p *player.Player)
	Remove(p *player.Player)
}

type ConnectionManager struct {
	pm       *player.Manager
	bus      Bus
	minigame Minigame
}

func NewConnectionManager(pm *player.Manager, bus Bus, minigame Minigame) *ConnectionManager {
	return &ConnectionManager{
		pm:       pm,
		bus:      bus,
		minigame: minigame,
	}
}

// AcceptConnection owns one websocket for its whole lifetime: player
// creation, bus subscriptions, the inbound dispatch loop, and teardown.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, ws *websocket.Conn) {
	logger := log.GetLogger(ctx)

	conn := newConnection(ws)
	p := m.pm.Connect(conn)

	s := &session{
		cm:     m,
		conn:   conn,
		player: p,
		logger: logger,
	}
	defer s.teardown()

	// Teleports land on the driver goroutine; retarget the region
	// subscription from wherever the move happens.
	p.OnRegion(func(region int) { s.refreshRegion(region) })

	s.subscribe(messaging.PlayerSubject(p.Instance()))
	s.subscribe(messaging.BroadcastSubject)

	// Close the socket when the server shuts down so the read loop unblocks.
	watch := make(chan struct{})
	defer close(watch)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close("Server is shutting down.")
		case <-watch:
		}
	}()

	for {
		data, err := conn.Read()
		if err != nil {
			return
		}
		s.dispatch(data)
	}
}

// session is the per-connection state: the player, live subscriptions, and
// the region the connection currently listens on. Player state is only
// touched inside player.Do blocks; mu covers the subscription bookkeeping,
// which region-change callbacks reach from the driver goroutine.
type session struct {
	cm     *ConnectionManager
	conn   *Connection
	player *player.Player
	logger interface {
		Warnf(string, ...interface{})
		Debugf(string, ...interface{})
	}

	mu          sync.Mutex
	unsubs      []func()
	region      int
	regionUnsub func()
	closed      bool

	pmSubbed bool
}

func (s *session) dispatch(data []byte) {
	in, err := packet.Decode(data)
	if err != nil {
		s.logger.Warnf("bad client frame from %s: %s", s.player.Instance(), err)
		s.player.Do(func() { s.player.IncrementCheatScore(1) })
		return
	}

	s.player.Do(func() { s.player.RefreshTimeout() })

	if in.Op == packet.OpHandshake {
		s.handleHandshake(in)
		return
	}

	// Everything else requires a completed login.
	var ready bool
	s.player.Do(func() { ready = s.player.Ready() })
	if !ready {
		s.player.Do(func() { s.player.IncrementCheatScore(1) })
		return
	}

	switch in.Op {
	case packet.OpMovement:
		var req packet.MoveRequest
		if err := in.Unmarshal(&req); err != nil {
			s.logger.Warnf("bad move request: %s", err)
			return
		}
		s.player.Do(func() {
			s.player.SetPosition(req.X, req.Y)
			s.player.Turn(req.Orientation)
		})
	case packet.OpChat:
		var req packet.ChatRequest
		if err := in.Unmarshal(&req); err != nil {
			s.logger.Warnf("bad chat request: %s", err)
			return
		}
		s.player.Do(func() { s.player.Chat(req.Text, req.Global) })
	case packet.OpPrivateMessage:
		var req packet.PrivateMessageRequest
		if err := in.Unmarshal(&req); err != nil {
			s.logger.Warnf("bad private message request: %s", err)
			return
		}
		s.player.Do(func() { s.player.SendMessage(req.To, req.Text) })
	case packet.OpMinigame:
		var req packet.MinigameRequest
		if err := in.Unmarshal(&req); err != nil {
			s.logger.Warnf("bad minigame request: %s", err)
			return
		}
		if s.cm.minigame == nil {
			return
		}
		if req.Join {
			s.cm.minigame.Add(s.player)
		} else {
			s.cm.minigame.Remove(s.player)
		}
	case packet.OpNetworkPing:
		// Timeout already refreshed above.
	default:
		s.logger.Debugf("unhandled opcode %s from %s", in.Op, s.player.Instance())
	}
}

func (s *session) handleHandshake(in *packet.Inbound) {
	var hs packet.Handshake
	if err := in.Unmarshal(&hs); err != nil {
		s.logger.Warnf("bad handshake: %s", err)
		s.conn.Close("Malformed login request.")
		return
	}

	var (
		already  bool
		loginErr error
		username string
		region   int
	)
	s.player.Do(func() {
		if s.player.Ready() {
			already = true
			return
		}
		loginErr = s.cm.pm.Login(s.player, hs.Username, hs.Password)
		if loginErr == nil {
			username = s.player.Username()
			region = s.player.Region()
		}
	})
	if already {
		return
	}
	if loginErr != nil {
		s.logger.Warnf("login failed for %q: %s", hs.Username, loginErr)
		s.conn.Close("Invalid credentials.")
		return
	}

	if !s.pmSubbed {
		s.subscribeRelay(messaging.PrivateMessageSubject(strings.ToLower(username)))
		s.pmSubbed = true
	}
	s.refreshRegion(region)
}

// subscribe listens on a subject and forwards enveloped packets, honoring
// the envelope's exclude field.
func (s *session) subscribe(subject string) {
	unsub, err := s.cm.bus.Subscribe(subject, func(data []byte) {
		var env messaging.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Warnf("bad envelope on %s: %s", subject, err)
			return
		}
		if env.Exclude != "" && env.Exclude == s.player.Instance() {
			return
		}
		if err := s.conn.Send(env.Data); err != nil {
			s.conn.Close("")
		}
	})
	if err != nil {
		s.logger.Warnf("subscribing %s: %s", subject, err)
		return
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

func (s *session) subscribeRelay(subject string) {
	unsub, err := s.cm.bus.Subscribe(subject, func(data []byte) {
		var relay messaging.PrivateRelay
		if err := json.Unmarshal(data, &relay); err != nil {
			s.logger.Warnf("bad private relay: %s", err)
			return
		}
		s.player.Do(func() { s.player.ReceivePrivateMessage(relay.From, relay.Text) })
	})
	if err != nil {
		s.logger.Warnf("subscribing %s: %s", subject, err)
		return
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

// refreshRegion keeps the session subscribed to exactly its player's
// current region; the router fans region pushes out over neighborhoods.
// Called on handshake and from the player's region-change listener.
func (s *session) refreshRegion(region int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.regionUnsub != nil && region == s.region {
		return
	}
	if s.regionUnsub != nil {
		s.regionUnsub()
		s.regionUnsub = nil
	}

	unsub, err := s.cm.bus.Subscribe(messaging.RegionSubject(region), func(data []byte) {
		var env messaging.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return
		}
		if env.Exclude != "" && env.Exclude == s.player.Instance() {
			return
		}
		if err := s.conn.Send(env.Data); err != nil {
			s.conn.Close("")
		}
	})
	if err != nil {
		s.logger.Warnf("subscribing region %d: %s", region, err)
		return
	}
	s.region = region
	s.regionUnsub = unsub
}

func (s *session) teardown() {
	s.mu.Lock()
	s.closed = true
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	if s.regionUnsub != nil {
		s.regionUnsub()
		s.regionUnsub = nil
	}
	s.mu.Unlock()

	if s.cm.minigame != nil {
		s.cm.minigame.Remove(s.player)
	}
	s.cm.pm.Disconnect(s.player)
	s.conn.Close("")
}
