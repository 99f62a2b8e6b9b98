package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

type Manager interface {
	Tick(context.Context) error
}

// HotelDriver runs the periodic world tick on its own schedule, separate
// from per-connection workers.
type HotelDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewHotelDriver(managers []Manager, opts ...HotelDriverOpt) *HotelDriver {
	d := &HotelDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *HotelDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
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

func (d *HotelDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
