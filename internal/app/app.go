// Package app is the composition root shared by the server and the admin CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/config"
	dbRedis "github.com/kailas-cloud/litsearch/internal/db/redis"
	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/metrics"
	documentrepo "github.com/kailas-cloud/litsearch/internal/repository/document"
	"github.com/kailas-cloud/litsearch/internal/repository/embcache"
	indexrepo "github.com/kailas-cloud/litsearch/internal/repository/index"
	"github.com/kailas-cloud/litsearch/internal/repository/keyspace"
	searchrepo "github.com/kailas-cloud/litsearch/internal/repository/search"
	"github.com/kailas-cloud/litsearch/internal/transport/llm"
	openaiEmb "github.com/kailas-cloud/litsearch/internal/transport/openai"
	documentuc "github.com/kailas-cloud/litsearch/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/litsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/litsearch/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/litsearch/internal/usecase/indexing"
	retrievaluc "github.com/kailas-cloud/litsearch/internal/usecase/retrieval"
	"github.com/kailas-cloud/litsearch/internal/workers"
)

// embeddingProvider is the metrics label of the OpenAI-compatible provider.
const embeddingProvider = "openai"

// App holds the wired services.
type App struct {
	Store     *dbRedis.Store
	Pool      *ants.Pool
	Usage     *embeddinguc.InstrumentedEmbedder
	Index     *indexrepo.Repo
	Documents *documentuc.Service
	Retrieval *retrievaluc.Service
	Indexing  *indexinguc.Service
	Health    *healthuc.Service
}

// New connects to Redis and builds every service. The caller must Close the App.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.Database.Driver != "redis" {
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	metrics.Register()

	keys := keyspace.New(cfg.Index.KeyPrefix)

	// Embedder chain: provider -> cache -> usage counters -> unit-norm contract.
	provider := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    cfg.EmbeddingTimeout(),
		Provider:   embeddingProvider,
		Logger:     logger,
	})
	var inner domain.Embedder = provider
	if cfg.Embedding.Cache {
		inner = embcache.New(
			provider, store, keys, cfg.Embedding.Model, cfg.CacheTTL(),
			metrics.EmbeddingCacheTotal, logger,
		)
	}
	usage := embeddinguc.NewInstrumentedEmbedder(inner, embeddingProvider, cfg.Embedding.Model, logger)
	embedder := domain.NewUnitEmbedder(usage, cfg.Embedding.Dimensions)

	extractor, err := llm.New(llm.Config{
		BaseURL:     cfg.Extraction.BaseURL,
		APIKey:      cfg.Extraction.APIKey,
		Model:       cfg.Extraction.Model,
		Timeout:     cfg.ExtractionTimeout(),
		MaxAttempts: cfg.Extraction.MaxAttempts,
		Labels:      cfg.Extraction.Labels,
		Logger:      logger,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	pool, err := workers.NewPool(cfg.Workers.PoolSize, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	docRepo := documentrepo.New(store, keys)
	idxRepo := indexrepo.New(store, cfg.Index.Name, keys, cfg.Embedding.Dimensions).WithHNSW(cfg.HNSW())
	srchRepo := searchrepo.New(store, cfg.Index.Name, keys).WithScanPageSize(cfg.Retrieval.ScanPageSize)

	logger.Info("Services wired",
		zap.String("index", cfg.Index.Name),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("extraction_model", cfg.Extraction.Model),
		zap.Bool("embedding_cache", cfg.Embedding.Cache),
		zap.Int("pool_size", cfg.Workers.PoolSize),
	)

	return &App{
		Store:     store,
		Pool:      pool,
		Usage:     usage,
		Index:     idxRepo,
		Documents: documentuc.New(docRepo),
		Retrieval: retrievaluc.New(srchRepo, embedder, extractor, pool, cfg.Ranking()),
		Indexing:  indexinguc.New(docRepo, idxRepo, embedder, extractor, pool, logger),
		Health:    healthuc.New(store, idxRepo, provider),
	}, nil
}

// Close releases the worker pool and the Redis connection.
func (a *App) Close() {
	a.Pool.Release()
	a.Store.Close()
}
