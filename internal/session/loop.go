package session

import (
	"context"
	"time"
)

type tickerFactory func(time.Duration) (<-chan time.Time, func())

type timeSource func() time.Time

func defaultTickerFactory() tickerFactory {
	return func(d time.Duration) (<-chan time.Time, func()) {
		ticker := time.NewTicker(d)
		return ticker.C, ticker.Stop
	}
}

// Run ticks the session on a wall clock until ctx is done or the observer
// dies. Deltas are measured between ticks; a stalled or backwards clock falls
// back to the nominal tick.
func (s *Session) Run(ctx context.Context) error {
	if s.newTicker == nil {
		s.newTicker = defaultTickerFactory()
	}
	if s.now == nil {
		s.now = time.Now
	}

	tickerC, stop := s.newTicker(s.tick)
	defer stop()

	s.logger.Printf("session %s running tick=%s", s.id, s.tick)
	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-tickerC:
			delta := now.Sub(last)
			if delta <= 0 {
				delta = s.tick
			} else if delta > 10*s.tick {
				delta = s.tick
			}
			last = now
			s.Tick(delta)
			if s.observer.Health() <= 0 {
				s.logger.Printf("session %s observer down score=%d", s.id, s.Score())
				return ErrObserverDown
			}
		}
	}
}
