package infra

import (
	"sync"
	"time"

	"bot-sentinela/security/abuseguard/domain"
)

// WindowStore é o engine de janela deslizante em memória, com cache por
// chave e limpeza periódica opcional de chaves ociosas.
//
// Eventos expirados são descartados de forma preguiçosa, na consulta.
// Uma tentativa negada não é registrada; o slice por chave nunca passa da
// capacidade do tier, então o rastro de uma chave abandonada é pequeno.
type WindowStore struct {
	mu           sync.Mutex
	entries      map[domain.Key]*windowEntry
	idleTTL      time.Duration
	cleanupEvery time.Duration

	now func() time.Time
}

type windowEntry struct {
	stamps   []time.Time
	lastSeen time.Time
}

type WindowOption func(*WindowStore)

func WithIdleTTL(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) WindowOption {
	return func(s *WindowStore) { s.cleanupEvery = d }
}

// WithClock troca a fonte de tempo (testes).
func WithClock(now func() time.Time) WindowOption {
	return func(s *WindowStore) { s.now = now }
}

func NewWindowStore(opts ...WindowOption) *WindowStore {
	s := &WindowStore{
		entries:      make(map[domain.Key]*windowEntry),
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check implementa domain.WindowStore.
func (s *WindowStore) Check(key domain.Key, tier domain.Tier) domain.Decision {
	now := s.now()
	cutoff := now.Add(-tier.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	ent := s.entries[key]
	if ent == nil {
		ent = &windowEntry{}
	}
	ent.lastSeen = now

	// descarta o que saiu da janela (eviction preguiçosa)
	live := ent.stamps[:0]
	for _, ts := range ent.stamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	ent.stamps = live

	if len(ent.stamps) >= tier.Capacity {
		retry := tier.Window
		if len(ent.stamps) > 0 {
			retry = ent.stamps[0].Add(tier.Window).Sub(now)
		}
		// negada: não registra, repetir a consulta não estende a janela
		s.entries[key] = ent
		return domain.Decision{Allowed: false, RetryAfter: retry}
	}

	ent.stamps = append(ent.stamps, now)
	s.entries[key] = ent
	return domain.Decision{Allowed: true}
}

// Reset zera o histórico da chave incondicionalmente.
func (s *WindowStore) Reset(key domain.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len devolve quantas chaves têm estado vivo (inspeção/testes).
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup remove chaves sem atividade há mais que idleTTL.
func (s *WindowStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas
// periodicamente. Pare cancelando o contexto.
func (s *WindowStore) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem
// importar context aqui. (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}
