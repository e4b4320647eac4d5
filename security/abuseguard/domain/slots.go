package domain

import "context"

// SlotPool representa as vagas de execução simultânea contra o console
// remoto (comandos RCON em voo).
//
// A semântica é: Acquire bloqueia até conseguir uma vaga ou até o ctx
// encerrar. Ao adquirir, retorna uma função de release que deve ser
// chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
