package abuseguard

import (
	"context"
	"strings"
	"time"

	"bot-sentinela/security/abuseguard/application"
	"bot-sentinela/security/abuseguard/domain"

	"github.com/hashicorp/go-hclog"
)

// Pacer é o mínimo que o Guard precisa do pacer global de console.
type Pacer interface {
	Allow() bool
}

type Options struct {
	Detector  *application.DetectorService
	Cooldowns map[string]application.CooldownService
	Bans      domain.BanStore
	Stats     domain.StatsStore
	Pacer     Pacer
	Logger    hclog.Logger

	// PacerRetryAfter é a recomendação de espera quando a negação vem do
	// pacer global (o cooldown por ator não tem nada a dizer nesse caso).
	PacerRetryAfter time.Duration
}

// Guard é a fachada chamada pelo front-end do bot: relay de chat e
// dispatcher de comandos. Ele traduz as decisões das camadas de baixo e
// registra estatísticas em melhor-esforço.
type Guard struct {
	detector  *application.DetectorService
	cooldowns map[string]application.CooldownService
	bans      domain.BanStore
	stats     domain.StatsStore
	pacer     Pacer
	log       hclog.Logger

	pacerRetryAfter time.Duration
}

func New(opts Options) *Guard {
	if opts.Logger == nil {
		opts.Logger = hclog.Default()
	}
	if opts.PacerRetryAfter == 0 {
		opts.PacerRetryAfter = 1 * time.Second
	}

	return &Guard{
		detector:        opts.Detector,
		cooldowns:       opts.Cooldowns,
		bans:            opts.Bans,
		stats:           opts.Stats,
		pacer:           opts.Pacer,
		log:             opts.Logger.Named("guard"),
		pacerRetryAfter: opts.PacerRetryAfter,
	}
}

// Scan varre uma linha de texto não confiável em nome do ator. Resultado
// não-nil significa "suprima o repasse": a infração já foi auditada e o
// auto-ban, quando aplicável, já aconteceu.
func (g *Guard) Scan(ctx context.Context, text, actor string) *domain.Infraction {
	actor = strings.TrimSpace(actor)

	var inf *domain.Infraction
	if g.detector != nil {
		inf = g.detector.Scan(text, actor)
	}

	if g.stats != nil {
		ev := domain.StatsEvent{
			Actor:   domain.Key(actor),
			Allowed: inf == nil,
			At:      time.Now(),
		}
		if inf != nil {
			ev.Pattern = inf.PatternType
		}
		_ = g.stats.Record(ctx, ev)
	}
	return inf
}

// CheckCommand decide se o ator pode executar uma ação do tier agora.
// Tier desconhecido permite (logado): configuração capenga não pode
// derrubar a operação do bot.
func (g *Guard) CheckCommand(ctx context.Context, tier, actor string) domain.Decision {
	actor = NormalizeActor(actor)

	svc, ok := g.cooldowns[tier]
	if !ok {
		g.log.Warn("tier de cooldown desconhecido, permitindo", "tier", tier)
		return domain.Decision{Allowed: true}
	}

	dec := svc.IsRateLimited(actor)
	if dec.Allowed && g.pacer != nil && !g.pacer.Allow() {
		// o teto global de vazão segura mesmo quem está dentro do tier
		dec = domain.Decision{Allowed: false, RetryAfter: g.pacerRetryAfter}
	}

	if !dec.Allowed {
		g.log.Debug("comando bloqueado",
			"actor", actor,
			"tier", tier,
			"retry_s", formatInt(int(dec.RetryAfter.Seconds())),
		)
	}

	if g.stats != nil {
		_ = g.stats.Record(ctx, domain.StatsEvent{
			Actor:   domain.Key(actor),
			Allowed: dec.Allowed,
			Tier:    tier,
			At:      time.Now(),
		})
	}
	return dec
}

// ResetCooldown zera o histórico do ator no tier (ex: perdão manual de um
// operador). Tier desconhecido é no-op.
func (g *Guard) ResetCooldown(tier, actor string) {
	if svc, ok := g.cooldowns[tier]; ok {
		svc.Reset(NormalizeActor(actor))
	}
}

// Passagens diretas para ferramentas de operador.

func (g *Guard) IsBanned(actor string) bool {
	return g.bans != nil && g.bans.IsBanned(actor)
}

func (g *Guard) Ban(actor, reason string) {
	if g.bans != nil {
		g.bans.Ban(actor, reason)
	}
}

func (g *Guard) Unban(actor string) bool {
	return g.bans != nil && g.bans.Unban(actor)
}

func (g *Guard) BannedPlayers() []string {
	if g.bans == nil {
		return nil
	}
	return g.bans.Banned()
}

// NormalizeActor limpa o identificador do ator para uso como chave de
// rate limit. Vazio vira "unknown": melhor agrupar anônimos numa chave só
// do que deixar passar sem limite.
func NormalizeActor(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return "unknown"
	}
	return actor
}
