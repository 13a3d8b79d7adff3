package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"go-jobradar/internal/config"
	"go-jobradar/internal/connector"
	"go-jobradar/internal/dedup"
	"go-jobradar/internal/email"
	"go-jobradar/internal/pipeline"
	"go-jobradar/internal/telegram"
)

// one run should never take longer than this
const runTimeout = 15 * time.Minute

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to YAML config")
		cities     = flag.String("city", "", "comma-separated canonical locations override (e.g. Adelaide,Melbourne)")
		since      = flag.String("since", "", "recency window override (e.g. 24h, 7d)")
		schedule   = flag.String("schedule", "", "cron spec override for daemon mode")
		dryRun     = flag.Bool("dry-run", false, "collect, score and render but skip delivery")
		noEmail    = flag.Bool("no-email", false, "disable the email channel")
		noTelegram = flag.Bool("no-telegram", false, "disable the telegram channel")
		noPersist  = flag.Bool("no-persist", false, "do not save fingerprint state at run end")
		reset      = flag.Bool("reset", false, "clear fingerprint state and exit")
	)
	flag.Parse()

	// load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if *cities != "" {
		cfg.Locations = splitList(*cities)
	}
	if *since != "" {
		cfg.SinceWindow = *since
		if _, err := cfg.Since(); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}
	if *dryRun {
		cfg.DryRun = true
	}
	if *schedule != "" {
		cfg.Schedule = *schedule
	}
	log.Printf("🔧 Config loaded. Locations: %v, window: %s, backend: %s",
		cfg.Locations, cfg.SinceWindow, cfg.StateBackend)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	store, err := dedup.OpenStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("❌ Failed to open state store: %v", err)
	}
	defer store.Close()

	if *reset {
		if err := store.Reset(context.Background()); err != nil {
			log.Fatalf("❌ Failed to reset state: %v", err)
		}
		log.Println("🗑️ Fingerprint state cleared.")
		return
	}

	p := pipeline.New(cfg, buildConnectors(cfg), store)
	p.NoPersist = *noPersist
	if !*noEmail {
		p.Email = email.NewSender(cfg)
	}
	if !*noTelegram && cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram bot: %v", err)
		}
		log.Println("🤖 Telegram bot initialized.")
		p.Notifier = bot
	}

	if cfg.Schedule == "" {
		if err := runOnce(p); err != nil {
			os.Exit(1)
		}
		return
	}

	// daemon mode: run on the cron schedule until signalled
	log.Printf("⏰ Daemon mode, schedule: %s", cfg.Schedule)
	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		if err := runOnce(p); err != nil {
			log.Printf("❌ Scheduled run failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("❌ Invalid schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("🛑 Shutting down...")
	<-c.Stop().Done()
}

func runOnce(p *pipeline.Pipeline) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	log.Println("🚀 Starting JobRadar run...")
	report, err := p.Run(ctx)
	if err != nil {
		log.Printf("❌ Run failed at stage %s: %v", report.Stage, err)
		return err
	}

	for _, src := range report.Sources {
		if src.Err != nil {
			log.Printf("  ⚠️ %s: %d records (error: %v)", src.Source, src.Collected, src.Err)
		} else {
			log.Printf("  ✅ %s: %d records", src.Source, src.Collected)
		}
	}
	log.Printf("📊 Run summary: %d collected, %d rejected, %d duplicates, %d new",
		report.Collected, report.Rejected, report.Duplicates, report.Fresh)
	return nil
}

// buildConnectors instantiates every enabled source.
func buildConnectors(cfg *config.Config) []connector.Connector {
	var conns []connector.Connector

	if sc := cfg.Source("gradconnection"); sc.Enabled {
		conns = append(conns, connector.NewGradConnection(sc.RateLimitSeconds))
	}
	if sc := cfg.Source("adzuna"); sc.Enabled {
		conns = append(conns, connector.NewAdzuna(cfg.AdzunaAppID, cfg.AdzunaAppKey, sc.RateLimitSeconds))
	}
	if sc := cfg.Source("jora"); sc.Enabled {
		conns = append(conns, connector.NewJora(sc.RateLimitSeconds))
	}
	if sc := cfg.Source("seek"); sc.Enabled {
		conns = append(conns, connector.NewSeek(sc.RateLimitSeconds))
	}
	if sc := cfg.Source("emailalerts"); sc.Enabled {
		conns = append(conns, connector.NewEmailAlerts(cfg.AlertsDir))
	}

	if len(conns) == 0 {
		log.Println("⚠️ No sources enabled in config")
	}
	return conns
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
