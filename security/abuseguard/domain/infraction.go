package domain

import (
	"fmt"
	"regexp"
	"time"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// PatternGroup é a configuração estática de uma categoria de ameaça:
// expressões (avaliadas em ordem), severidade, flag de auto-ban e
// descrição. Carregada uma vez na construção do detector, imutável depois.
type PatternGroup struct {
	Key         string   `yaml:"key"`
	Patterns    []string `yaml:"patterns"`
	Severity    Severity `yaml:"severity"`
	AutoBan     bool     `yaml:"auto_ban"`
	Description string   `yaml:"description"`
}

// CompiledExpr guarda a expressão compilada junto com a fonte original,
// para que a infração reporte exatamente a expressão que casou.
type CompiledExpr struct {
	Source string
	Re     *regexp.Regexp
}

type CompiledGroup struct {
	PatternGroup
	Exprs []CompiledExpr
}

// CompileGroups compila os grupos na ordem declarada. Toda expressão é
// tratada como case-insensitive. Uma expressão malformada é descartada e
// vira um erro diagnóstico; o grupo continua funcionando com as restantes.
func CompileGroups(groups []PatternGroup) ([]CompiledGroup, []error) {
	compiled := make([]CompiledGroup, 0, len(groups))
	var dropped []error

	for _, g := range groups {
		cg := CompiledGroup{PatternGroup: g}
		for _, src := range g.Patterns {
			re, err := regexp.Compile("(?i)" + src)
			if err != nil {
				dropped = append(dropped, fmt.Errorf("grupo %q: expressão %q descartada: %w", g.Key, src, err))
				continue
			}
			cg.Exprs = append(cg.Exprs, CompiledExpr{Source: src, Re: re})
		}
		compiled = append(compiled, cg)
	}
	return compiled, dropped
}

// Infraction é o registro imutável de uma detecção: criada no match,
// anexada ao log de auditoria, nunca mutada nem removida.
//
// Os nomes de campo JSON são o formato externo do log de auditoria
// (uma linha por objeto).
type Infraction struct {
	PlayerName     string            `json:"player_name"`
	Timestamp      time.Time         `json:"timestamp"`
	PatternType    string            `json:"pattern_type"`
	MatchedPattern string            `json:"matched_pattern"`
	RawText        string            `json:"raw_text"`
	Severity       Severity          `json:"severity"`
	AutoBanned     bool              `json:"auto_banned"`
	Metadata       map[string]string `json:"metadata"`
}

// BanStore é o conjunto durável de atores banidos.
//
// Implementações devem serializar mutações e persistir antes de retornar;
// falha de escrita é melhor-esforço (o estado em memória continua valendo).
type BanStore interface {
	Ban(actor, reason string)
	Unban(actor string) bool
	IsBanned(actor string) bool
	Banned() []string
}

// AuditLog é a trilha append-only de infrações.
//
// O detector trata erro de Append como melhor-esforço: a decisão de
// segurança (detecção/ban) tem prioridade sobre a durabilidade do registro.
type AuditLog interface {
	Append(inf Infraction) error
}
