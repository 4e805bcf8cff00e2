package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/autoemporium/showroom-assistant/internal/agent/catalog"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/nodes"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/tools"
	"github.com/autoemporium/showroom-assistant/internal/agent/jobs"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	"github.com/autoemporium/showroom-assistant/internal/agent/repo"
	"github.com/autoemporium/showroom-assistant/internal/config"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

const memoryBusBuffer = 256

type Options struct {
	// AsyncMemory routes memory writes through the job bus. The caller must
	// run Container.MemoryWorker, otherwise writes are dropped.
	AsyncMemory bool
}

type Container struct {
	Config *config.AppConfig
	Runner *graph.Runner
	// MemoryWorker is nil unless AsyncMemory is set and a memory backend is configured.
	MemoryWorker *jobs.MemoryWorker

	closers []func() error
}

func NewContainer(ctx context.Context, cfg *config.AppConfig, opts Options) (_ *Container, err error) {
	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	inventory, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	logx.Debug().Int("vehicles", inventory.Len()).Msg("vehicle catalog loaded")

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb, err = cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialise redis: %w", err)
		}
		c.closers = append(c.closers, rdb.Close)
		logx.Info().Msg("connected to redis")
	}

	var models *nodes.ChatModels
	if cfg.RequireOracle() == nil {
		models, err = nodes.NewChatModels(ctx, nodes.ChatModelConfig{
			APIKey:           cfg.APIKey,
			BaseURL:          cfg.BaseURL,
			ExtractionConfig: &cfg.Extraction,
			ResponseConfig:   &cfg.Response,
		})
		if err != nil {
			return nil, err
		}
	}

	checkpoints := newCheckpointStore(cfg, rdb)

	memory, err := c.newMemoryStore(ctx, cfg, rdb, models)
	if err != nil {
		return nil, err
	}

	var writer nodes.MemoryWriter
	if memory != nil && opts.AsyncMemory {
		bus := jobs.NewMemoryBus(memoryBusBuffer)
		c.closers = append(c.closers, bus.Close)
		writer = jobs.NewMemoryPublisher(bus, cfg.Memory.Topic)
		c.MemoryWorker = jobs.NewMemoryWorker(bus, cfg.Memory.Topic, memory)
	}

	if models != nil {
		c.Runner, err = graph.BuildShowroomGraph(ctx, graph.Config{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Extraction:   cfg.Extraction,
			Response:     cfg.Response,
			Prompt:       cfg.Prompt,
			Oracle:       cfg.Oracle,
			Memory:       cfg.Memory,
			Checkpoints:  checkpoints,
			MemoryStore:  memory,
			MemoryWriter: writer,
			Catalog:      inventory,
			Models:       models,
		})
	} else {
		logx.Warn().Msg("GEMINI_API_KEY not set; replies use canned fallbacks")
		c.Runner, err = graph.NewRunner(ctx, &graph.GraphConfig{
			ExtractionOracle: nodes.NewOracle(nil, "", 0),
			ResponseOracle:   nodes.NewOracle(nil, "", 0),
			Prompt:           cfg.Prompt,
			Checkpoints:      checkpoints,
			MemoryStore:      memory,
			MemoryWriter:     writer,
			RecallLimit:      cfg.Memory.RecallLimit,
			Vehicles:         tools.NewSearchVehiclesTool(inventory),
		})
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newCheckpointStore(cfg *config.AppConfig, rdb *redis.Client) model.CheckpointStore {
	if cfg.Checkpoints.Backend == config.BackendRedis {
		logx.Info().Dur("ttl", cfg.Checkpoints.TTL).Msg("using redis checkpoints")
		return repo.NewRedisCheckpointStore(rdb, cfg.Checkpoints.TTL)
	}
	logx.Warn().Msg("using in-process checkpoints; state is lost on restart")
	return repo.NewMemoryCheckpointStore(cfg.Checkpoints.TTL)
}

func (c *Container) newMemoryStore(ctx context.Context, cfg *config.AppConfig, rdb *redis.Client, models *nodes.ChatModels) (model.MemoryStore, error) {
	switch cfg.Memory.Backend {
	case config.BackendRedis:
		logx.Info().Int("max_facts", cfg.Memory.MaxFacts).Msg("using redis long-term memory")
		return repo.NewRedisMemoryStore(rdb, cfg.Memory.MaxFacts), nil

	case config.BackendPostgres:
		db, err := cfg.Postgres.New()
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, sqlDB.Close)

		var embedder repo.Embedder
		if models != nil {
			embedder = repo.NewGeminiEmbedder(models.Client, cfg.Memory.EmbeddingModel)
		} else {
			logx.Warn().Msg("no embedder available; postgres memory falls back to recency")
		}
		store := repo.NewPostgresMemoryStore(db, embedder)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate memory records: %w", err)
		}
		logx.Info().Str("embedding_model", cfg.Memory.EmbeddingModel).Msg("using postgres long-term memory")
		return store, nil

	default:
		logx.Info().Msg("long-term memory disabled")
		return nil, nil
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
