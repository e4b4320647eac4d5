package infra

import (
	"context"
	"sync"

	"bot-sentinela/security/abuseguard/domain"
)

type Counters struct {
	Allowed int64
	Denied  int64
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     Counters
	byTier    map[string]Counters
	byPattern map[string]int64
	byActor   map[string]Counters

	trackActors bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackActors(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackActors = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byTier:    make(map[string]Counters),
		byPattern: make(map[string]int64),
		byActor:   make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Allowed {
		s.total.Allowed++
	} else {
		s.total.Denied++
	}

	if ev.Tier != "" {
		c := s.byTier[ev.Tier]
		if ev.Allowed {
			c.Allowed++
		} else {
			c.Denied++
		}
		s.byTier[ev.Tier] = c
	}

	if ev.Pattern != "" {
		s.byPattern[ev.Pattern]++
	}

	if s.trackActors {
		k := string(ev.Actor)
		c := s.byActor[k]
		if ev.Allowed {
			c.Allowed++
		} else {
			c.Denied++
		}
		s.byActor[k] = c
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByTier() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byTier))
	for k, v := range s.byTier {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByPattern() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byPattern))
	for k, v := range s.byPattern {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByActor() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byActor))
	for k, v := range s.byActor {
		out[k] = v
	}
	return out
}
