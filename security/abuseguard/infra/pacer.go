package infra

import (
	"context"

	"golang.org/x/time/rate"
)

// ConsolePacer é um token-bucket global (x/time/rate) que suaviza a vazão
// TOTAL de comandos rumo ao console remoto, independente do cooldown por
// ator: mesmo vários operadores dentro dos seus tiers não podem, somados,
// afogar o servidor.
type ConsolePacer struct {
	lim *rate.Limiter
}

// NewConsolePacer cria o pacer com `perSecond` comandos/s e rajada `burst`.
func NewConsolePacer(perSecond float64, burst int) *ConsolePacer {
	return &ConsolePacer{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow consome um token se houver; nunca bloqueia.
func (p *ConsolePacer) Allow() bool {
	if p == nil || p.lim == nil {
		return true
	}
	return p.lim.Allow()
}

// Wait bloqueia até haver token ou o ctx encerrar (para chamadores que
// preferem enfileirar em vez de negar).
func (p *ConsolePacer) Wait(ctx context.Context) error {
	if p == nil || p.lim == nil {
		return nil
	}
	return p.lim.Wait(ctx)
}
