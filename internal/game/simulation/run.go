package simulation

import (
	"context"

	"golang.org/x/time/rate"
)

// Run advances the simulation in real time, TickRate ticks per second,
// until ctx is done or maxTicks ticks have run. maxTicks 0 means no limit.
func (s *Simulation) Run(ctx context.Context, maxTicks int) error {
	limiter := rate.NewLimiter(rate.Limit(s.TickRate), 1)
	dt := 1.0 / s.TickRate
	for n := 0; maxTicks == 0 || n < maxTicks; n++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.Update(dt); err != nil {
			return err
		}
	}
	return nil
}
