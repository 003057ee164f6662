package config

// #region imports
import (
	"os"
	"strconv"
	"time"
)

// #endregion imports

// #region capability

// Capability records which optional model services are usable.
// Decided once at construction; stages branch on this struct instead of
// probing the client at call time.
type Capability struct {
	Embeddings bool
	Generation bool
}

// #endregion capability

// #region config

// Config holds all tunables for the research pipeline.
type Config struct {
	// Model service (OpenAI-compatible HTTP API)
	APIKey         string
	APIBase        string
	EmbeddingModel string
	LLMModel       string
	RequestTimeout time.Duration

	// Embedding geometry. Fixed for the life of a deployment; stores reject
	// vectors of any other width.
	EmbeddingDim int

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopK int

	// Vector store
	UseMilvus    bool
	MilvusAddr   string
	Collection   string
	FallbackPath string

	// Relational store
	DBPath string
}

// #endregion config

// #region default-config

// DefaultConfig returns pipeline configuration, reading overrides from env:
// RESEARCH_API_KEY, RESEARCH_API_BASE, RESEARCH_EMBEDDING_MODEL,
// RESEARCH_LLM_MODEL, RESEARCH_TIMEOUT, RESEARCH_EMBEDDING_DIM,
// RESEARCH_CHUNK_SIZE, RESEARCH_CHUNK_OVERLAP, RESEARCH_TOP_K,
// RESEARCH_USE_MILVUS, RESEARCH_MILVUS_ADDR, RESEARCH_COLLECTION,
// RESEARCH_FALLBACK_PATH, RESEARCH_DB.
func DefaultConfig() Config {
	cfg := Config{
		APIBase:        "https://api.siliconflow.cn/v1",
		EmbeddingModel: "BAAI/bge-large-zh-v1.5",
		LLMModel:       "Qwen/Qwen2-7B-Instruct",
		RequestTimeout: 10 * time.Second,
		EmbeddingDim:   1024,
		ChunkSize:      1000,
		ChunkOverlap:   200,
		TopK:           5,
		UseMilvus:      false,
		MilvusAddr:     "localhost:19530",
		Collection:     "research_documents",
		FallbackPath:   "vector_data.json",
		DBPath:         "research_assistant.db",
	}
	if v := os.Getenv("RESEARCH_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("RESEARCH_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("RESEARCH_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("RESEARCH_LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("RESEARCH_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.RequestTimeout = time.Duration(sec) * time.Second
		}
	}
	if v := os.Getenv("RESEARCH_EMBEDDING_DIM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EmbeddingDim = n
		}
	}
	if v := os.Getenv("RESEARCH_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkSize = n
		}
	}
	if v := os.Getenv("RESEARCH_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ChunkOverlap = n
		}
	}
	if v := os.Getenv("RESEARCH_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopK = n
		}
	}
	if v := os.Getenv("RESEARCH_USE_MILVUS"); v != "" {
		cfg.UseMilvus = v == "true" || v == "1"
	}
	if v := os.Getenv("RESEARCH_MILVUS_ADDR"); v != "" {
		cfg.MilvusAddr = v
	}
	if v := os.Getenv("RESEARCH_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv("RESEARCH_FALLBACK_PATH"); v != "" {
		cfg.FallbackPath = v
	}
	if v := os.Getenv("RESEARCH_DB"); v != "" {
		cfg.DBPath = v
	}
	return cfg
}

// #endregion default-config

// #region capability-derivation

// Capabilities derives the capability flags from the config. A placeholder
// API key disables both model services.
func (c Config) Capabilities() Capability {
	usable := c.APIKey != "" && c.APIKey != "your-api-key-here"
	return Capability{
		Embeddings: usable,
		Generation: usable,
	}
}

// #endregion capability-derivation
