package application

import (
	"bot-sentinela/security/abuseguard/domain"
)

// CooldownService concentra a regra de cooldown de comando administrativo.
//
// Ele fica amarrado a um único Tier na construção; o chamador só informa o
// ator. Instâncias nomeadas (consulta, administrativo, destrutivo) podem
// compartilhar o mesmo WindowStore sem compartilhar estado, porque a chave
// inclui o rótulo do tier.
type CooldownService struct {
	Store domain.WindowStore
	Tier  domain.Tier
}

// IsRateLimited decide se o ator está em cooldown agora.
func (s CooldownService) IsRateLimited(actor string) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	return s.Store.Check(s.key(actor), s.Tier)
}

// Reset zera o histórico do ator neste tier.
func (s CooldownService) Reset(actor string) {
	if s.Store == nil {
		return
	}
	s.Store.Reset(s.key(actor))
}

func (s CooldownService) key(actor string) domain.Key {
	return domain.JoinKey(s.Tier.Label, actor)
}
