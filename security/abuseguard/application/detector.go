package application

import (
	"strings"
	"time"

	"bot-sentinela/security/abuseguard/domain"

	"github.com/hashicorp/go-hclog"
)

// maxRawPreview limita o texto ofensivo gravado na auditoria.
const maxRawPreview = 200

// DetectorService varre texto arbitrário (chat, comandos) contra a tabela
// de grupos de padrões, na ordem declarada. O primeiro match vence
// globalmente: nenhum grupo ou expressão posterior é avaliado.
//
// Em match: cria a Infraction, anexa à auditoria e, se o grupo tem
// auto-ban, bane o ator. Falha de escrita na auditoria é logada e não
// bloqueia nem o retorno nem o ban.
type DetectorService struct {
	groups []domain.CompiledGroup
	bans   domain.BanStore
	audit  domain.AuditLog
	log    hclog.Logger

	now func() time.Time
}

// NewDetector compila a tabela de grupos. Expressão malformada é
// descartada com diagnóstico; o grupo continua com as restantes.
func NewDetector(groups []domain.PatternGroup, bans domain.BanStore, audit domain.AuditLog, logger hclog.Logger) *DetectorService {
	if logger == nil {
		logger = hclog.Default()
	}
	logger = logger.Named("detector")

	compiled, dropped := domain.CompileGroups(groups)
	for _, err := range dropped {
		logger.Warn("expressão inválida na tabela de padrões", "err", err)
	}

	return &DetectorService{
		groups: compiled,
		bans:   bans,
		audit:  audit,
		log:    logger,
		now:    time.Now,
	}
}

// Scan varre o texto em nome do ator. Retorna nil quando o texto é limpo,
// quando texto/ator são vazios, ou quando o ator já está banido (evita
// inundar a auditoria com ofensores já tratados).
func (d *DetectorService) Scan(text, actor string) *domain.Infraction {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(actor) == "" {
		return nil
	}
	if d.bans != nil && d.bans.IsBanned(actor) {
		return nil
	}

	for _, g := range d.groups {
		for _, expr := range g.Exprs {
			loc := expr.Re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			m := text[loc[0]:loc[1]]

			inf := &domain.Infraction{
				PlayerName:     actor,
				Timestamp:      d.now().UTC(),
				PatternType:    g.Key,
				MatchedPattern: expr.Source,
				RawText:        truncate(text, maxRawPreview),
				Severity:       g.Severity,
				AutoBanned:     g.AutoBan,
				Metadata: map[string]string{
					"matched_substring": m,
					"group_description": g.Description,
				},
			}

			if d.audit != nil {
				if err := d.audit.Append(*inf); err != nil {
					d.log.Error("falha ao gravar auditoria", "actor", actor, "pattern", g.Key, "err", err)
				}
			}

			if g.AutoBan && d.bans != nil {
				d.bans.Ban(actor, g.Description)
			}

			d.log.Warn("infração detectada",
				"actor", actor,
				"pattern", g.Key,
				"severity", string(g.Severity),
				"auto_ban", g.AutoBan,
			)
			return inf
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
