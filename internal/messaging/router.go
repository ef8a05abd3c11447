package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/packet"
	"github.com/pixil98/go-realm/internal/world"
)

// Publisher is the slice of the NATS server the router needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope wraps an encoded packet on the wire between router and
// connection workers. Exclude names an instance that must not receive
// the packet even though its subscription matches.
type Envelope struct {
	Exclude string          `json:"exclude,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// Router fans pushes out over NATS subjects. Region pushes cover the
// region's full 3x3 neighborhood so players near a border still see
// activity across it.
type Router struct {
	pub  Publisher
	grid world.Map
}

func NewRouter(pub Publisher, grid world.Map) *Router {
	return &Router{pub: pub, grid: grid}
}

func (r *Router) Route(push world.Push) error {
	data, err := packet.Encode(push.Packet)
	if err != nil {
		return err
	}

	env, err := json.Marshal(Envelope{Exclude: push.Exclude, Data: data})
	if err != nil {
		return fmt.Errorf("encoding push envelope: %w", err)
	}

	switch push.Scope {
	case world.PushPlayer:
		return r.pub.Publish(PlayerSubject(push.Target), env)
	case world.PushRegions:
		el := errors.NewErrorList()
		for _, region := range r.grid.RegionNeighbors(push.Region) {
			el.Add(r.pub.Publish(RegionSubject(region), env))
		}
		return el.Err()
	case world.PushBroadcast:
		return r.pub.Publish(BroadcastSubject, env)
	default:
		return fmt.Errorf("unknown push scope %d", push.Scope)
	}
}
