package cli

import (
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-titlegen/internal/config"
	"github.com/alnah/go-titlegen/internal/pipeline"
	"github.com/alnah/go-titlegen/internal/titles"
	"github.com/alnah/go-titlegen/internal/transcript"
)

// deepSeekBaseURL is the OpenAI-compatible endpoint DeepSeek exposes.
// The same client library talks to both providers.
const deepSeekBaseURL = "https://api.deepseek.com/v1"

// EnvTranscriptAPIKey is the environment variable holding the
// youtube-transcript.io API token.
const EnvTranscriptAPIKey = "YOUTUBE_TRANSCRIPT_API_KEY"

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader      ConfigLoader
	TranscriptFactory TranscriptFactory
	GeneratorFactory  GeneratorFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// TranscriptFactory creates transcript providers.
type TranscriptFactory interface {
	NewProvider(token string) transcript.Provider
}

// GeneratorFactory creates title generators for a given LLM provider.
type GeneratorFactory interface {
	NewGenerator(p Provider, apiKey string, opts ...titles.Option) pipeline.TitleGenerator
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithTranscriptFactory sets the transcript provider factory.
func WithTranscriptFactory(f TranscriptFactory) EnvOption {
	return func(e *Env) {
		e.TranscriptFactory = f
	}
}

// WithGeneratorFactory sets the title generator factory.
func WithGeneratorFactory(f GeneratorFactory) EnvOption {
	return func(e *Env) {
		e.GeneratorFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
		Getenv:            os.Getenv,
		ConfigLoader:      &defaultConfigLoader{},
		TranscriptFactory: &defaultTranscriptFactory{},
		GeneratorFactory:  &defaultGeneratorFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultTranscriptFactory implements TranscriptFactory using the hosted API.
type defaultTranscriptFactory struct{}

func (defaultTranscriptFactory) NewProvider(token string) transcript.Provider {
	return transcript.NewAPIProvider(token)
}

// defaultGeneratorFactory implements GeneratorFactory using go-openai.
type defaultGeneratorFactory struct{}

func (defaultGeneratorFactory) NewGenerator(p Provider, apiKey string, opts ...titles.Option) pipeline.TitleGenerator {
	if p.IsDeepSeek() {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = deepSeekBaseURL
		return titles.NewGenerator(openai.NewClientWithConfig(cfg), opts...)
	}
	return titles.NewGenerator(openai.NewClient(apiKey), opts...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader      = (*defaultConfigLoader)(nil)
	_ TranscriptFactory = (*defaultTranscriptFactory)(nil)
	_ GeneratorFactory  = (*defaultGeneratorFactory)(nil)
)
