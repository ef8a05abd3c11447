package world

import "github.com/pixil98/go-realm/internal/packet"

// PushScope selects the audience for an outgoing packet.
type PushScope int

const (
	// PushPlayer targets a single recipient by instance id.
	PushPlayer PushScope = iota
	// PushRegions targets every connection subscribed to the originating
	// region or one of its neighbors.
	PushRegions
	// PushBroadcast targets every connection on this server.
	PushBroadcast
)

// Push is one routed packet delivery request.
type Push struct {
	Scope  PushScope
	Packet packet.Packet

	// Target is the recipient instance id when Scope is PushPlayer.
	Target string

	// Region is the originating region when Scope is PushRegions.
	Region int

	// Exclude suppresses echo to one instance id, usually the originator.
	Exclude string
}

// Router fans packets out to subscribed connections. Implementations must
// never block the simulation tick; delivery failures are theirs to log.
type Router interface {
	Route(Push) error
}
