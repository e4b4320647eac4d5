package application

import (
	"context"
	"time"

	"bot-sentinela/security/abuseguard/domain"
)

// ConsoleGate concentra a regra de aquisição/liberação de vaga de execução
// no console remoto, com timeout, sem conhecer o protocolo.
type ConsoleGate struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
// - Se `AcquireTimeout <= 0`, espera indefinidamente (até ctx cancelar).
// - Se `AcquireTimeout > 0`, espera até o timeout.
// Retorna (release, ok). Se ok=false, nenhuma vaga foi adquirida.
func (g ConsoleGate) Acquire(ctx context.Context) (func(), bool) {
	if g.Pool == nil {
		return func() {}, true
	}

	if g.AcquireTimeout <= 0 {
		return g.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, g.AcquireTimeout)
	defer cancel()
	return g.Pool.Acquire(acqCtx)
}
