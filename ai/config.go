// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"strings"
)

// Config describes where embeddings come from. The default points at a
// local Ollama instance, which is the expected setup for development.
type Config struct {
	// EmbeddingHost is the base URL of an OpenAI-compatible embedding
	// endpoint, e.g. "http://localhost:11434/v1".
	EmbeddingHost string

	// EmbeddingModel names the model served at EmbeddingHost, e.g.
	// "embeddinggemma" or "text-embedding-3-small".
	EmbeddingModel string
}

// ConfigOption mutates a Config during construction.
type ConfigOption func(*Config)

// WithEmbeddingHost overrides the embedding endpoint URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel overrides the embedding model name.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// DefaultConfig targets a local Ollama serving embeddinggemma.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
	}
}

// NewConfig starts from DefaultConfig and applies opts in order.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize appends the /v1 path segment to the host when it is missing.
// Ollama, LocalAI and vLLM all expose the OpenAI surface under /v1, and
// forgetting the suffix is the most common misconfiguration.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
}

// Validate normalizes the config and reports missing required fields.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
