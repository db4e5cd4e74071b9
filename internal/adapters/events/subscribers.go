package events

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

const subscriberBuffer = 100

// subscriberSet fans events out to per-channel subscriber queues. A slow subscriber
// loses events rather than blocking the publisher.
type subscriberSet struct {
	mu   sync.RWMutex
	subs map[string]map[chan *entities.MigrationEvent]struct{}
}

func newSubscriberSet() *subscriberSet {
	return &subscriberSet{subs: make(map[string]map[chan *entities.MigrationEvent]struct{})}
}

func (s *subscriberSet) add(channel string) chan *entities.MigrationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[channel] == nil {
		s.subs[channel] = make(map[chan *entities.MigrationEvent]struct{})
	}
	ch := make(chan *entities.MigrationEvent, subscriberBuffer)
	s.subs[channel][ch] = struct{}{}
	return ch
}

// remove closes one subscriber and reports whether the channel has none left
func (s *subscriberSet) remove(channel string, ch chan *entities.MigrationEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.subs[channel]
	if !ok {
		return false
	}
	if _, ok := subs[ch]; !ok {
		return false
	}

	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(s.subs, channel)
		return true
	}
	return false
}

// closeChannel closes every subscriber of channel
func (s *subscriberSet) closeChannel(channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs[channel] {
		close(ch)
	}
	delete(s.subs, channel)
}

func (s *subscriberSet) broadcast(channel string, event *entities.MigrationEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subs[channel] {
		select {
		case ch <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber queue full, dropping event")
		}
	}
}

func (s *subscriberSet) channels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channels := make([]string, 0, len(s.subs))
	for channel := range s.subs {
		channels = append(channels, channel)
	}
	return channels
}

func (s *subscriberSet) count(channel string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[channel])
}
