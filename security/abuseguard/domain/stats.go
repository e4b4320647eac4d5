package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão da camada de segurança.
//
// Tier é preenchido em decisões de cooldown de comando; Pattern em
// detecções (a chave do grupo que casou, vazia quando o texto é limpo).
//
// Observação: cuidado com cardinalidade (salvar Actor sem controle pode
// explodir o número de chaves em uma base como Redis).
type StatsEvent struct {
	Actor   Key
	Allowed bool

	Tier    string
	Pattern string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de decisão.
//
// Implementações podem armazenar em Redis, memória, etc. O chamador deve
// tratar erro como best-effort (nunca derrubar a decisão de segurança).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
