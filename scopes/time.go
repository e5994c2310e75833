package scopes

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

type TimeSpan = timespan.TimeSpan

// Lifetime reports the span between the instant the scope opened and the
// instant it finished closing. For a scope that is still open, the span
// ends at the current instant.
func (s *Scope) Lifetime() TimeSpan {
	if s.host != nil {
		return s.host.Lifetime()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	end := s.closedAt
	if s.state != stateClosed {
		end = time.Now()
	}
	return timespan.BetweenTimes(s.openedAt, end)
}
