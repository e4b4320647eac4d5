package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bot-sentinela/security/abuseguard"
	"bot-sentinela/security/abuseguard/application"
	"bot-sentinela/security/abuseguard/domain"
	"bot-sentinela/security/abuseguard/infra"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "sentinel",
		Level: hclog.LevelFromString(getenvDefault("LOG_LEVEL", "info")),
	})

	cfg, err := readConfig()
	if err != nil {
		logger.Error("config error", "err", err)
		os.Exit(1)
	}

	bans := infra.NewFileBanStore(cfg.banFile, logger)
	audit := infra.NewFileAuditLog(cfg.auditFile, logger)

	groups := abuseguard.DefaultPatternGroups()
	if cfg.patternsFile != "" {
		groups, err = infra.LoadPatternsFile(cfg.patternsFile)
		if err != nil {
			logger.Error("patterns file error", "err", err)
			os.Exit(1)
		}
	}
	detector := application.NewDetector(groups, bans, audit, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := infra.NewWindowStore()
	store.StartJanitor(ctx)

	cooldowns := map[string]application.CooldownService{
		cfg.tierQuery.Label:       {Store: store, Tier: cfg.tierQuery},
		cfg.tierAdmin.Label:       {Store: store, Tier: cfg.tierAdmin},
		cfg.tierDestructive.Label: {Store: store, Tier: cfg.tierDestructive},
	}

	var stats domain.StatsStore = infra.NewMemoryStatsStore()
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			logger.Error("redis stats ping error", "err", err)
			os.Exit(1)
		}

		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackActors(cfg.statsTrackActors),
		)
	}

	var pacer abuseguard.Pacer
	if cfg.pacerRPS > 0 {
		pacer = infra.NewConsolePacer(cfg.pacerRPS, cfg.pacerBurst)
	}

	guard := abuseguard.New(abuseguard.Options{
		Detector:  detector,
		Cooldowns: cooldowns,
		Bans:      bans,
		Stats:     stats,
		Pacer:     pacer,
		Logger:    logger,
	})

	gate := application.ConsoleGate{
		Pool:           infra.NewChanPool(cfg.consoleSlots),
		AcquireTimeout: cfg.consoleTimeout,
	}

	logger.Info("sentinel pronto",
		"ban_file", bans.Path(),
		"audit_file", audit.Path(),
		"pattern_groups", len(groups),
	)
	logger.Info("tiers",
		cfg.tierQuery.Label, fmt.Sprintf("%d/%s", cfg.tierQuery.Capacity, cfg.tierQuery.Window),
		cfg.tierAdmin.Label, fmt.Sprintf("%d/%s", cfg.tierAdmin.Capacity, cfg.tierAdmin.Window),
		cfg.tierDestructive.Label, fmt.Sprintf("%d/%s", cfg.tierDestructive.Capacity, cfg.tierDestructive.Window),
	)
	logger.Info("pacer", "rps", cfg.pacerRPS, "burst", cfg.pacerBurst, "console_slots", cfg.consoleSlots)
	logger.Info("stats", "redis", cfg.statsEnabled, "addr", cfg.statsRedisAddr)

	runLoop(ctx, guard, gate, audit)
}

// runLoop é a fronteira que, no bot completo, é ocupada pelo relay de chat
// e pelo dispatcher de comandos. Aqui ela vira um REPL de operador.
func runLoop(ctx context.Context, guard *abuseguard.Guard, gate application.ConsoleGate, audit *infra.FileAuditLog) {
	fmt.Println(`comandos: chat <ator> <texto> | cmd <tier> <ator> | reset <tier> <ator>`)
	fmt.Println(`          ban <ator> | unban <ator> | bans | audit [ator] | quit`)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "chat":
			if len(fields) < 3 {
				fmt.Println("uso: chat <ator> <texto>")
				continue
			}
			actor := fields[1]
			text := strings.Join(fields[2:], " ")
			if guard.IsBanned(actor) {
				fmt.Printf("%s está banido; linha descartada\n", actor)
				continue
			}
			if inf := guard.Scan(ctx, text, actor); inf != nil {
				fmt.Printf("INFRAÇÃO %s (%s) auto_ban=%v\n", inf.PatternType, inf.Severity, inf.AutoBanned)
				continue
			}
			fmt.Println("ok, repassando")

		case "cmd":
			if len(fields) != 3 {
				fmt.Println("uso: cmd <tier> <ator>")
				continue
			}
			dec := guard.CheckCommand(ctx, fields[1], fields[2])
			if !dec.Allowed {
				fmt.Printf("negado, tente em %ds\n", int(dec.RetryAfter.Seconds())+1)
				continue
			}
			release, ok := gate.Acquire(ctx)
			if !ok {
				fmt.Println("console lotado, tente de novo")
				continue
			}
			// aqui o bot real executaria o comando RCON
			release()
			fmt.Println("executado")

		case "reset":
			if len(fields) != 3 {
				fmt.Println("uso: reset <tier> <ator>")
				continue
			}
			guard.ResetCooldown(fields[1], fields[2])
			fmt.Println("cooldown zerado")

		case "ban":
			if len(fields) != 2 {
				fmt.Println("uso: ban <ator>")
				continue
			}
			guard.Ban(fields[1], "ban manual de operador")
			fmt.Println("banido")

		case "unban":
			if len(fields) != 2 {
				fmt.Println("uso: unban <ator>")
				continue
			}
			fmt.Printf("removido=%v\n", guard.Unban(fields[1]))

		case "bans":
			for _, name := range guard.BannedPlayers() {
				fmt.Println(name)
			}

		case "audit":
			actor := ""
			if len(fields) > 1 {
				actor = fields[1]
			}
			recs, err := audit.Recent(10, actor)
			if err != nil {
				fmt.Printf("erro lendo auditoria: %v\n", err)
				continue
			}
			for _, r := range recs {
				fmt.Printf("%s  %s  %s  %q\n", r.Timestamp.Format(time.RFC3339), r.PlayerName, r.PatternType, r.RawText)
			}

		case "quit", "exit":
			return

		default:
			fmt.Println("comando desconhecido")
		}
	}
}

type config struct {
	banFile      string
	auditFile    string
	patternsFile string

	tierQuery       domain.Tier
	tierAdmin       domain.Tier
	tierDestructive domain.Tier

	pacerRPS       float64
	pacerBurst     int
	consoleSlots   int
	consoleTimeout time.Duration

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackActors   bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.banFile = os.Getenv("BAN_FILE")
	cfg.auditFile = os.Getenv("AUDIT_FILE")
	cfg.patternsFile = os.Getenv("PATTERNS_FILE")

	var err error
	if cfg.tierQuery, err = parseTier("query", getenvDefault("TIER_QUERY", "10/1m")); err != nil {
		return config{}, err
	}
	if cfg.tierAdmin, err = parseTier("admin", getenvDefault("TIER_ADMIN", "5/30s")); err != nil {
		return config{}, err
	}
	if cfg.tierDestructive, err = parseTier("destructive", getenvDefault("TIER_DESTRUCTIVE", "2/1m")); err != nil {
		return config{}, err
	}

	cfg.pacerRPS = getenvFloatDefault("PACER_RPS", 4)
	cfg.pacerBurst = getenvIntDefault("PACER_BURST", 8)
	cfg.consoleSlots = getenvIntDefault("CONSOLE_SLOTS", 4)
	cfg.consoleTimeout = getenvDurationDefault("CONSOLE_TIMEOUT", 2*time.Second)

	cfg.statsEnabled = getenvBoolDefault("STATS_REDIS_ENABLED", false)
	cfg.statsRedisAddr = getenvDefault("STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "sentinel:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", "minute")
	cfg.statsTrackActors = getenvBoolDefault("STATS_TRACK_ACTORS", false)

	if cfg.statsEnabled && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, fmt.Errorf("STATS_REDIS_ADDR is required when STATS_REDIS_ENABLED=true")
	}
	if cfg.pacerRPS < 0 {
		return config{}, fmt.Errorf("PACER_RPS must be >= 0")
	}
	if cfg.consoleSlots <= 0 {
		return config{}, fmt.Errorf("CONSOLE_SLOTS must be > 0")
	}
	return cfg, nil
}

// parseTier lê "capacidade/janela", ex: "5/30s".
func parseTier(label, raw string) (domain.Tier, error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return domain.Tier{}, fmt.Errorf("tier %s: esperado capacidade/janela, veio %q", label, raw)
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || capacity < 0 {
		return domain.Tier{}, fmt.Errorf("tier %s: capacidade inválida %q", label, parts[0])
	}
	window, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err != nil || window < 0 {
		return domain.Tier{}, fmt.Errorf("tier %s: janela inválida %q", label, parts[1])
	}
	return domain.Tier{Label: label, Capacity: capacity, Window: window}, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
