// jogador-burrao martela o guard como um jogador afobado: estoura o
// cooldown, manda uma injeção e confere que saiu banido.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"bot-sentinela/security/abuseguard"
	"bot-sentinela/security/abuseguard/application"
	"bot-sentinela/security/abuseguard/domain"
	"bot-sentinela/security/abuseguard/infra"

	"github.com/hashicorp/go-hclog"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{Name: "jogador-burrao", Level: hclog.Warn})
	dir, _ := filepath.Abs("teste-validacao-dados")

	bans := infra.NewFileBanStore(filepath.Join(dir, "banned_players.json"), logger)
	audit := infra.NewFileAuditLog(filepath.Join(dir, "infractions.jsonl"), logger)
	store := infra.NewWindowStore()

	guard := abuseguard.New(abuseguard.Options{
		Detector: application.NewDetector(abuseguard.DefaultPatternGroups(), bans, audit, logger),
		Cooldowns: map[string]application.CooldownService{
			"admin": {Store: store, Tier: domain.Tier{Label: "admin", Capacity: 3, Window: 30 * time.Second}},
		},
		Bans:   bans,
		Logger: logger,
	})

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		dec := guard.CheckCommand(ctx, "admin", "Burrao")
		fmt.Printf("tentativa %d: allowed=%v retry=%s\n", i, dec.Allowed, dec.RetryAfter)
	}

	if inf := guard.Scan(ctx, "eval(game.print('spam'))", "Burrao"); inf != nil {
		fmt.Printf("scan: pattern=%s banido=%v\n", inf.PatternType, guard.IsBanned("Burrao"))
	}
}
