package composer

import "github.com/quantamusic/quanta-api/internal/logger"

// stream is a pre-materialized sequence of sampled integers consumed by a
// single monotonic cursor. Streams are sized by SlotBudget so exhaustion is
// rare; when it happens anyway the cursor wraps to the start and the run
// continues with recycled draws. That reintroduces correlation between
// notes, which is accepted as a degraded mode and logged once.
type stream struct {
	name    string
	values  []int
	cursor  int
	wrapped bool
}

func newStream(name string, values []int) *stream {
	return &stream{name: name, values: values}
}

func (s *stream) next() int {
	if len(s.values) == 0 {
		return 0
	}
	if s.cursor >= len(s.values) {
		s.cursor = 0
		if !s.wrapped {
			s.wrapped = true
			logger.Warn("random stream exhausted, recycling draws", logger.Fields{
				"stream": s.name,
				"size":   len(s.values),
			})
		}
	}
	v := s.values[s.cursor]
	s.cursor++
	return v
}
