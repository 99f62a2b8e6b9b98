package driver

import "time"

type HotelDriverOpt func(*HotelDriver)

func WithTickLength(tickLength time.Duration) HotelDriverOpt {
	return func(d *HotelDriver) {
		d.tickLength = tickLength
	}
}
