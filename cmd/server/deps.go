package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-roller/internal/clients/external"
	"github.com/KirkDiggler/rpg-roller/internal/config"
	"github.com/KirkDiggler/rpg-roller/internal/dice"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
	"github.com/KirkDiggler/rpg-roller/internal/logger"
	dicesvc "github.com/KirkDiggler/rpg-roller/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-roller/internal/redis"
	characterrepo "github.com/KirkDiggler/rpg-roller/internal/repositories/character"
	rollsession "github.com/KirkDiggler/rpg-roller/internal/repositories/roll_session"
	"github.com/KirkDiggler/rpg-roller/internal/systems"
)

const redisPingTimeout = 5 * time.Second

var (
	// Flags shared by every command; each overrides its ROLLER_* variable
	redisAddrFlag     string
	defaultSystemFlag string
	logLevelFlag      string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&redisAddrFlag, "redis", "", "Redis address (overrides ROLLER_REDIS_ADDR)")
	rootCmd.PersistentFlags().StringVar(&defaultSystemFlag, "default-system", "", "Default rule system (overrides ROLLER_DEFAULT_SYSTEM)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (overrides ROLLER_LOG_LEVEL)")
}

// loadConfig reads the environment, applies flag overrides and installs the
// logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if redisAddrFlag != "" {
		cfg.RedisAddr = redisAddrFlag
	}
	if defaultSystemFlag != "" {
		cfg.DefaultSystem = defaultSystemFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Setup(cfg)
	return cfg, nil
}

// loadRegistry builds the rule-system registry, optionally refreshing the
// dnd5e skill table from the SRD API
func loadRegistry(ctx context.Context, cfg *config.Config) (*systems.Registry, error) {
	registry, err := systems.LoadRegistry(dice.NewEvaluator(nil))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load game systems")
	}

	if !cfg.SRDSkills {
		return registry, nil
	}
	return importSRDSkills(ctx, registry, cfg.SRDBaseURL)
}

func importSRDSkills(ctx context.Context, registry *systems.Registry, baseURL string) (*systems.Registry, error) {
	client, err := external.New(&external.Config{BaseURL: baseURL})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SRD client")
	}

	skills, err := client.ListSkills(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import SRD skills")
	}

	current, err := registry.Get(systems.SystemDnD5e)
	if err != nil {
		return nil, err
	}
	base, ok := current.(*systems.System)
	if !ok {
		return nil, errors.Internalf("system %s cannot take an imported skill table", current.Name())
	}

	updated, err := base.WithSkills(systems.SkillsFromSRD(skills))
	if err != nil {
		return nil, errors.Wrap(err, "invalid SRD skill table")
	}

	slog.Info("Imported SRD skills", "system", updated.Name(), "skills", len(updated.Skills()))
	return registry.Replace(updated)
}

// connectRedis opens a single-node or cluster client and checks it answers
func connectRedis(ctx context.Context, cfg *config.Config) (redisclient.Client, error) {
	opts := &redisclient.Options{UseTLS: cfg.RedisTLS}

	var (
		client redisclient.Client
		err    error
	)
	if cfg.RedisCluster {
		client, err = redisclient.NewClusterClient(cfg.RedisAddr, opts)
	} else {
		client, err = redisclient.NewClient(cfg.RedisAddr, opts)
	}
	if err != nil {
		return nil, err
	}

	if err := redisclient.Ping(ctx, client, redisPingTimeout); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type services struct {
	registry      *systems.Registry
	characterRepo characterrepo.Repository
	dice          dicesvc.Service
	close         func()
}

// buildServices wires repositories and the dice orchestrator on top of Redis
func buildServices(ctx context.Context, cfg *config.Config) (*services, error) {
	registry, err := loadRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}

	realClock := clock.New()

	characterRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{
		Client: client,
		Clock:  realClock,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character repository")
	}

	sessionRepo, err := rollsession.NewRedisRepository(&rollsession.Config{
		Client: client,
		Clock:  realClock,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create roll session repository")
	}

	bus := events.NewBus()
	dicesvc.SubscribeAudit(bus, slog.Default())

	diceService, err := dicesvc.NewOrchestrator(&dicesvc.Config{
		Registry:        registry,
		DefaultSystem:   cfg.DefaultSystem,
		CharacterRepo:   characterRepo,
		RollSessionRepo: sessionRepo,
		IDGenerator:     idgen.NewUUID(idgen.PrefixRoll),
		SessionTTL:      cfg.SessionTTL,
		Clock:           realClock,
		EventBus:        bus,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dice orchestrator")
	}

	return &services{
		registry:      registry,
		characterRepo: characterRepo,
		dice:          diceService,
		close: func() {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to close redis client", "error", err)
			}
		},
	}, nil
}
