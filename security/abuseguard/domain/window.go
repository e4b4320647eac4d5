package domain

// Camada de domínio do rate limit por janela deslizante.
//
// Regras e contratos (interfaces/tipos) sem dependência de infraestrutura.

import (
	"strings"
	"time"
)

type Key string

// JoinKey monta uma chave composta (ex: "admin:PlayerOne" ou
// "teleport:PlayerOne"). O mesmo esquema serve para cooldown de comando
// (tier + ator) e para sinais de abuso in-game (ação + ator).
func JoinKey(parts ...string) Key {
	return Key(strings.Join(parts, ":"))
}

// Tier é uma política de rate limit: capacidade de eventos dentro de uma
// janela de tempo. Vários tiers compartilham um mesmo engine; o estado é
// separado pela chave.
type Tier struct {
	Label    string
	Capacity int
	Window   time.Duration
}

// WindowStore é o engine de contagem por janela deslizante.
//
// Check responde se a chave está acima da capacidade AGORA, descartando
// eventos fora da janela. Uma tentativa negada não é registrada: ficar
// consultando uma chave bloqueada não estende a punição.
//
// Casos de borda: Capacity 0 nega sempre; Window 0 faz o histórico nunca
// contar (na prática, ilimitado). Ambos documentados, não guardados.
type WindowStore interface {
	Check(key Key, tier Tier) Decision
	Reset(key Key)
}

type Decision struct {
	Allowed bool
	// RetryAfter é o tempo recomendado de espera quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
