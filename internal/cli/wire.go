package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"auditrag/config"
	"auditrag/internal/adapter/cache"
	"auditrag/internal/adapter/chunker"
	"auditrag/internal/adapter/embedding"
	"auditrag/internal/adapter/index"
	"auditrag/internal/adapter/lang"
	"auditrag/internal/adapter/llm"
	"auditrag/internal/adapter/retriever"
	"auditrag/internal/adapter/source"
	"auditrag/internal/adapter/store"
	"auditrag/internal/port"
	"auditrag/internal/usecase"
)

// pipeline bundles the wired components shared by the commands.
type pipeline struct {
	corpus     *index.Corpus
	ingest     *usecase.IngestUseCase
	chat       *usecase.ChatUseCase
	retrieval  *cache.RetrievalCache
	embedCache port.EmbeddingCache
	model      string
}

func (p *pipeline) Close() {
	if p.embedCache != nil {
		p.embedCache.Close()
	}
}

// newPipeline wires adapters and usecases from the loaded config.
func newPipeline(cfg *config.Config, withGenerator bool) (*pipeline, error) {
	dict, err := loadDictionary(cfg)
	if err != nil {
		return nil, err
	}
	expander := lang.NewExpander(lang.NewAnalyzer(dict))

	embedder, err := embedding.NewGeminiEmbedder(
		cfg.Embedding.APIKeyEnv,
		cfg.Embedding.Model,
		cfg.Embedding.BaseURL,
		cfg.Embedding.Dimension,
		time.Duration(cfg.Embedding.TimeoutSecs)*time.Second,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	var generator port.Generator
	if withGenerator {
		generator, err = llm.NewGeminiGenerator(
			cfg.Generation.APIKeyEnv,
			cfg.Generation.Model,
			cfg.Generation.BaseURL,
			llm.Params{
				Temperature:     cfg.Generation.Temperature,
				TopK:            cfg.Generation.TopK,
				TopP:            cfg.Generation.TopP,
				MaxOutputTokens: cfg.Generation.MaxOutputTokens,
			},
			time.Duration(cfg.Generation.TimeoutSecs)*time.Second,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create generator: %w", err)
		}
	}

	var embedCache port.EmbeddingCache
	if cfg.Cache.EmbeddingEnabled {
		path := cfg.Cache.EmbeddingPath
		if path == "" {
			if err := config.EnsureDataDir(rootDir); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			path = config.EmbedCachePath(rootDir)
		}
		embedCache, err = store.NewEmbedCache(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
	}

	docRoot := cfg.Source.Root
	if !filepath.IsAbs(docRoot) {
		docRoot = filepath.Join(rootDir, docRoot)
	}
	docs := source.NewFSSource(docRoot, cfg.Source.Includes, cfg.Source.Excludes, logger)

	corpus := index.NewCorpus()
	retrieval := cache.NewRetrievalCache(
		cfg.Cache.RetrievalMaxSize,
		time.Duration(cfg.Cache.RetrievalTTLSecs)*time.Second,
	)

	ingest := usecase.NewIngestUseCase(
		docs,
		chunker.NewWindowChunker(cfg.Chunk.Size, cfg.Chunk.Overlap),
		embedder,
		corpus,
		embedCache,
		time.Duration(cfg.Embedding.DelayMs)*time.Millisecond,
		logger,
	)

	var chat *usecase.ChatUseCase
	if withGenerator {
		chat = usecase.NewChatUseCase(
			expander,
			embedder,
			corpus,
			retriever.NewRanker(cfg.Retrieve.TopK, cfg.Retrieve.MinScore),
			generator,
			retrieval,
			cfg.Retrieve.GateEnabled,
			cfg.Retrieve.TopK,
			logger,
		)
	}

	return &pipeline{
		corpus:     corpus,
		ingest:     ingest,
		chat:       chat,
		retrieval:  retrieval,
		embedCache: embedCache,
		model:      cfg.Generation.Model,
	}, nil
}

func loadDictionary(cfg *config.Config) (*lang.Dictionary, error) {
	if cfg.Retrieve.ConceptsFile != "" {
		path := cfg.Retrieve.ConceptsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}
		dict, err := lang.LoadDictionary(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load concepts file: %w", err)
		}
		return dict, nil
	}
	return lang.BuiltinDictionary()
}
