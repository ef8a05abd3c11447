// Package driver runs the simulation tick: each registered manager is
// advanced once per tick, in registration order.
package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second
)

type Manager interface {
	Tick(context.Context) error
}

type RealmDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewRealmDriver(managers []Manager, opts ...RealmDriverOpt) *RealmDriver {
	d := &RealmDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *RealmDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *RealmDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
